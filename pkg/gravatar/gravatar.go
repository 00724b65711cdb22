package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const baseURL = "//www.gravatar.com/avatar/"

// URL returns the protocol-relative gravatar address for email.
// The hash is taken over the trimmed, lowercased address as gravatar requires.
func URL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return baseURL + hex.EncodeToString(sum[:])
}
