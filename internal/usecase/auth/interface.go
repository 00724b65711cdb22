package auth

import (
	"context"

	domain "contacts-api/internal/domain/user"
)

// Usecase defines the interface for authentication and account operations.
type Usecase interface {
	Signup(ctx context.Context, in SignupRequest) (*SignupResponse, error)
	Signin(ctx context.Context, in SigninRequest) (*SigninResponse, error)
	Current(ctx context.Context, u *domain.User) *CurrentResponse
	Signout(ctx context.Context, u *domain.User) error
	Verify(ctx context.Context, in VerifyRequest) (*MessageResponse, error)
	ResendVerification(ctx context.Context, in ResendVerificationRequest) (*MessageResponse, error)
	UpdateAvatar(ctx context.Context, in UpdateAvatarRequest) (*UpdateAvatarResponse, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
