package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of a session token.
const DefaultTokenTTL = 23 * time.Hour

// Token verification failures. They all mean "unauthorized" to a client
// but are kept apart so callers can log why a session was refused.
var (
	ErrTokenMissing   = errors.New("token is missing")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenExpired   = errors.New("token is expired")
)

// TokenConfig configures a TokenIssuer.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TokenIssuer signs and verifies HS256 session tokens bound to a user id.
type TokenIssuer struct {
	config TokenConfig
}

// NewTokenIssuer validates cfg and returns a TokenIssuer.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.TTL < 0 {
		return nil, errors.New("invalid token TTL")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenIssuer{config: cfg}, nil
}

// Issue returns a signed token for subjectID that expires after the configured TTL.
func (t *TokenIssuer) Issue(subjectID string) (string, error) {
	if subjectID == "" {
		return "", errors.New("token subject is required")
	}

	now := t.config.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		Issuer:    t.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.config.TTL)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.config.Secret)
}

// Verify checks the signature and expiry of token and returns its subject.
func (t *TokenIssuer) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrTokenMissing
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.config.Now),
		jwt.WithExpirationRequired(),
	}
	if t.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(t.config.Issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.NewParser(options...).ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.config.Secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", ErrTokenInvalid
		}
	}

	if !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}
