package auth

// SignupRequest represents the request payload for registering a new account.
type SignupRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Subscription string `json:"subscription" validate:"omitempty,oneof=starter pro business"`
}

// SignupResponse represents the created account.
type SignupResponse struct {
	Email        string
	Subscription string
}

// SigninRequest represents the request payload for signing in.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SigninResponse carries the issued session token.
type SigninResponse struct {
	Token        string
	Email        string
	Subscription string
}

// CurrentResponse describes the signed-in user.
type CurrentResponse struct {
	Email        string
	Subscription string
}

// VerifyRequest carries the token from the verification link.
type VerifyRequest struct {
	VerificationToken string `json:"verificationToken" validate:"required"`
}

// ResendVerificationRequest asks for the verification email to be sent again.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdateAvatarRequest references an uploaded file already stored on disk.
type UpdateAvatarRequest struct {
	UserID   string
	TempPath string // TempPath is empty when no file was uploaded
	Filename string // Filename is the generated upload name, used to derive the permanent name
}

// UpdateAvatarResponse holds the stored avatar path relative to the public directory.
type UpdateAvatarResponse struct {
	AvatarURL string
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string
}
