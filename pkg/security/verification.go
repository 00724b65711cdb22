package security

import gonanoid "github.com/matoous/go-nanoid/v2"

// VerificationTokenGenerator produces one-time email verification tokens.
type VerificationTokenGenerator struct{}

// NewVerificationTokenGenerator creates a VerificationTokenGenerator.
func NewVerificationTokenGenerator() *VerificationTokenGenerator {
	return &VerificationTokenGenerator{}
}

// Generate returns a 21-character URL-safe random identifier.
func (VerificationTokenGenerator) Generate() (string, error) {
	return gonanoid.New()
}
