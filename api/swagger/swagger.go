// Package swagger embeds the OpenAPI document served under /swagger.
package swagger

import _ "embed"

// Spec is the Swagger 2.0 description of the HTTP API.
//
//go:embed contacts.swagger.json
var Spec []byte
