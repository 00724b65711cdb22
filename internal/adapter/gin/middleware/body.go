package middleware

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/adapter/gin/response"
	pkgerrors "contacts-api/pkg/errors"
)

// ErrMissingFields is returned for an empty JSON body.
var ErrMissingFields = pkgerrors.NewValidationError("body", "missing fields")

// RequireBody rejects requests whose body is empty or an empty JSON object.
// The body is restored for the next handler.
func RequireBody(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data []byte
		if c.Request.Body != nil {
			var err error
			data, err = io.ReadAll(c.Request.Body)
			if err != nil {
				response.Error(c, log, pkgerrors.NewValidationError("body", "invalid request body"))
				return
			}
		}

		if isEmptyBody(data) {
			response.Error(c, log, ErrMissingFields)
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(data))
		c.Next()
	}
}

func isEmptyBody(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		// Not an object; binding reports the malformed body
		return false
	}
	return len(fields) == 0
}
