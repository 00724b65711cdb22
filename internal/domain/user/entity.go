package user

import "time"

// Subscription is the plan a user is on.
type Subscription string

const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

// Valid reports whether s is one of the known plans.
func (s Subscription) Valid() bool {
	switch s {
	case SubscriptionStarter, SubscriptionPro, SubscriptionBusiness:
		return true
	}
	return false
}

// User represents a registered account.
//
// Once Verify is true, VerificationToken is empty and Verify never goes back to false.
// Token holds the single live session token; empty means signed out.
type User struct {
	ID                string       // ID is assigned by the store at creation
	Email             string       // Email is unique across users
	PasswordHash      string       // PasswordHash is the bcrypt hash, never the plaintext
	Subscription      Subscription // Subscription defaults to starter
	AvatarURL         string       // AvatarURL is a gravatar URL or a path relative to the public dir
	VerificationToken string       // VerificationToken is consumed by email verification
	Verify            bool         // Verify is true once the email address was confirmed
	Token             string       // Token is the current session token
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsSignedIn reports whether token is the live session token of u.
func (u *User) IsSignedIn(token string) bool {
	return token != "" && u.Token == token
}
