package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"contacts-api/internal/domain/notification"
	domain "contacts-api/internal/domain/user"
	pkgerrors "contacts-api/pkg/errors"
	"contacts-api/pkg/imageproc"
	"contacts-api/pkg/logger"
	"contacts-api/pkg/security"
	"contacts-api/pkg/validation"
)

// Errors returned to callers. Unknown email and wrong password share one message.
var (
	ErrEmailInUse          = pkgerrors.NewConflictError("user", "Email in use")
	ErrInvalidCredentials  = pkgerrors.NewUnauthorizedError("Email or password is wrong")
	ErrEmailNotVerified    = pkgerrors.NewUnauthorizedError("Email not verify")
	ErrUnauthorized        = pkgerrors.ErrUnauthorized
	ErrUserNotFound        = pkgerrors.NewNotFoundError("user", "User not found")
	ErrEmailNotFound       = pkgerrors.NewNotFoundError("user", "Email not found")
	ErrAlreadyVerified     = pkgerrors.NewValidationError("email", "Verification has already been passed")
	ErrFileMissing         = pkgerrors.NewValidationError("avatar", "Avatar file is required")
	ErrAvatarUnprocessable = pkgerrors.NewValidationError("avatar", "Avatar image cannot be processed")
)

const verificationSubject = "Verify email"

// Repository defines the user persistence operations the auth flows need.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (string, error)                     // Create stores u and returns its new id
	GetByID(ctx context.Context, id string) (*domain.User, error)                   // GetByID returns a NotFoundError when absent; Token may be empty
	GetSessionToken(ctx context.Context, id string) (string, error)                 // GetSessionToken reads the live session token from the store
	GetByEmail(ctx context.Context, email string) (*domain.User, error)             // GetByEmail returns nil, nil when absent
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) // GetByVerificationToken returns nil, nil when absent
	UpdateToken(ctx context.Context, id, token string) error                        // UpdateToken sets or clears the session token
	MarkVerified(ctx context.Context, id, verificationToken string) error           // MarkVerified consumes verificationToken or returns a NotFoundError
	UpdateAvatarURL(ctx context.Context, id, avatarURL string) error                // UpdateAvatarURL records the stored avatar path
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
	Verify(token string) (string, error)
}

// TokenGenerator produces email verification tokens.
type TokenGenerator interface {
	Generate() (string, error)
}

// EmailDispatcher hands a message over for delivery.
type EmailDispatcher interface {
	Dispatch(ctx context.Context, email notification.Email) error
}

// AvatarNormalizer rewrites an image file in place as a fixed-size square.
type AvatarNormalizer interface {
	Normalize(path string) error
}

// AvatarStore moves normalized avatars into permanent storage.
type AvatarStore interface {
	Save(tempPath, name string) (string, error) // Save returns the path relative to the public directory
	Discard(tempPath string) error              // Discard removes an upload that will not be kept
	Delete(avatarURL string) error              // Delete removes a stored avatar by its relative path
}

// Dependencies groups the collaborators of the auth flows.
type Dependencies struct {
	Hasher        PasswordHasher
	Tokens        TokenIssuer
	Generator     TokenGenerator
	Dispatcher    EmailDispatcher
	Normalizer    AvatarNormalizer
	Avatars       AvatarStore
	DefaultAvatar func(email string) string // DefaultAvatar derives the signup avatar URL from the email
}

// Settings holds configuration the flows read at runtime.
type Settings struct {
	BaseURL string // BaseURL prefixes verification links, e.g. http://localhost:3000
}

// Service implements the authentication state machine.
type Service struct {
	repo     Repository
	deps     Dependencies
	settings Settings
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*Service)(nil)

// New creates a new Service.
func New(repo Repository, deps Dependencies, settings Settings, log *zap.Logger) *Service {
	settings.BaseURL = strings.TrimRight(settings.BaseURL, "/")
	return &Service{
		repo:     repo,
		deps:     deps,
		settings: settings,
		log:      log,
		validate: validation.New(),
	}
}

// Signup registers an unverified account and sends the verification email.
// A dispatch failure is reported after the account was already stored.
func (s *Service) Signup(ctx context.Context, in SignupRequest) (*SignupResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("signup validation failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		log.Warn("email already registered", zap.String("email", in.Email))
		return nil, ErrEmailInUse
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to hash password", err)
	}

	verificationToken, err := s.deps.Generator.Generate()
	if err != nil {
		log.Error("failed to generate verification token", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to generate verification token", err)
	}

	subscription := domain.Subscription(in.Subscription)
	if subscription == "" {
		subscription = domain.SubscriptionStarter
	}

	u := &domain.User{
		Email:             in.Email,
		PasswordHash:      hash,
		Subscription:      subscription,
		AvatarURL:         s.deps.DefaultAvatar(in.Email),
		VerificationToken: verificationToken,
	}

	id, err := s.repo.Create(ctx, u)
	if err != nil {
		if pkgerrors.IsConflict(err) {
			log.Warn("email registered concurrently", zap.String("email", in.Email))
			return nil, ErrEmailInUse
		}
		log.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to create user", err)
	}
	log.Info("user registered", zap.String("user_id", id), zap.String("email", in.Email))

	if err := s.deps.Dispatcher.Dispatch(ctx, s.verificationEmail(in.Email, verificationToken)); err != nil {
		log.Error("failed to dispatch verification email",
			zap.String("user_id", id), zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to send verification email", err)
	}

	return &SignupResponse{Email: u.Email, Subscription: string(u.Subscription)}, nil
}

// Signin checks credentials of a verified account and starts a new session,
// replacing any previous one.
func (s *Service) Signin(ctx context.Context, in SigninRequest) (*SigninResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("signin validation failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to get user by email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		log.Warn("signin with unknown email", zap.String("email", in.Email))
		return nil, ErrInvalidCredentials
	}
	if !u.Verify {
		log.Warn("signin before verification", zap.String("user_id", u.ID))
		return nil, ErrEmailNotVerified
	}
	if !s.deps.Hasher.Verify(in.Password, u.PasswordHash) {
		log.Warn("signin with wrong password", zap.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := s.deps.Tokens.Issue(u.ID)
	if err != nil {
		log.Error("failed to issue token", zap.String("user_id", u.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to issue token", err)
	}

	if err := s.repo.UpdateToken(ctx, u.ID, token); err != nil {
		log.Error("failed to persist token", zap.String("user_id", u.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to persist token", err)
	}

	log.Info("user signed in", zap.String("user_id", u.ID))
	return &SigninResponse{Token: token, Email: u.Email, Subscription: string(u.Subscription)}, nil
}

// Current describes the user resolved by Authenticate.
func (s *Service) Current(_ context.Context, u *domain.User) *CurrentResponse {
	return &CurrentResponse{Email: u.Email, Subscription: string(u.Subscription)}
}

// Signout clears the session token so it can no longer authenticate.
func (s *Service) Signout(ctx context.Context, u *domain.User) error {
	log := logger.WithContext(ctx, s.log)

	if err := s.repo.UpdateToken(ctx, u.ID, ""); err != nil {
		log.Error("failed to clear token", zap.String("user_id", u.ID), zap.Error(err))
		return pkgerrors.NewInternalError("failed to sign out", err)
	}

	log.Info("user signed out", zap.String("user_id", u.ID))
	return nil
}

// Verify consumes a verification token. A token can be used once; afterwards it
// is unknown and yields ErrUserNotFound.
func (s *Service) Verify(ctx context.Context, in VerifyRequest) (*MessageResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		return nil, validation.Format(err)
	}

	u, err := s.repo.GetByVerificationToken(ctx, in.VerificationToken)
	if err != nil {
		log.Error("failed to get user by verification token", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		log.Warn("unknown verification token")
		return nil, ErrUserNotFound
	}

	if err := s.repo.MarkVerified(ctx, u.ID, in.VerificationToken); err != nil {
		if pkgerrors.IsNotFound(err) {
			log.Warn("verification token consumed concurrently", zap.String("user_id", u.ID))
			return nil, ErrUserNotFound
		}
		log.Error("failed to mark user verified", zap.String("user_id", u.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to verify user", err)
	}

	log.Info("user verified", zap.String("user_id", u.ID))
	return &MessageResponse{Message: "Verification successful"}, nil
}

// ResendVerification sends the existing verification token again.
func (s *Service) ResendVerification(ctx context.Context, in ResendVerificationRequest) (*MessageResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("resend verification validation failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to get user by email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		log.Warn("resend verification for unknown email", zap.String("email", in.Email))
		return nil, ErrEmailNotFound
	}
	if u.Verify {
		log.Warn("resend verification for verified user", zap.String("user_id", u.ID))
		return nil, ErrAlreadyVerified
	}

	if err := s.deps.Dispatcher.Dispatch(ctx, s.verificationEmail(u.Email, u.VerificationToken)); err != nil {
		log.Error("failed to dispatch verification email", zap.String("user_id", u.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to send verification email", err)
	}

	log.Info("verification email re-sent", zap.String("user_id", u.ID))
	return &MessageResponse{Message: "Verification email sent"}, nil
}

// UpdateAvatar normalizes the uploaded file, moves it into permanent storage and
// records its path. Each step gates the next: the user record is only touched
// once the file is in place, and a failed step removes what it left behind.
func (s *Service) UpdateAvatar(ctx context.Context, in UpdateAvatarRequest) (*UpdateAvatarResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if in.TempPath == "" {
		log.Warn("avatar upload without file", zap.String("user_id", in.UserID))
		return nil, ErrFileMissing
	}

	if err := s.deps.Normalizer.Normalize(in.TempPath); err != nil {
		s.discard(log, in.TempPath)
		if errors.Is(err, imageproc.ErrUndecodable) {
			log.Warn("avatar cannot be decoded", zap.String("user_id", in.UserID), zap.Error(err))
			return nil, ErrAvatarUnprocessable
		}
		log.Error("failed to normalize avatar", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to process avatar", err)
	}

	name := fmt.Sprintf("%s_%s", in.UserID, in.Filename)
	avatarURL, err := s.deps.Avatars.Save(in.TempPath, name)
	if err != nil {
		s.discard(log, in.TempPath)
		log.Error("failed to store avatar", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to store avatar", err)
	}

	if err := s.repo.UpdateAvatarURL(ctx, in.UserID, avatarURL); err != nil {
		if derr := s.deps.Avatars.Delete(avatarURL); derr != nil {
			log.Warn("failed to remove stored avatar", zap.String("avatar_url", avatarURL), zap.Error(derr))
		}
		log.Error("failed to persist avatar url", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to update avatar", err)
	}

	log.Info("avatar updated", zap.String("user_id", in.UserID), zap.String("avatar_url", avatarURL))
	return &UpdateAvatarResponse{AvatarURL: avatarURL}, nil
}

// Authenticate resolves a bearer token to its user. The token must verify and
// must still be the user's live session token.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	log := logger.WithContext(ctx, s.log)

	if token == "" {
		log.Debug("authentication failed", zap.String("reason", security.ErrTokenMissing.Error()))
		return nil, ErrUnauthorized
	}

	userID, err := s.deps.Tokens.Verify(token)
	if err != nil {
		log.Debug("authentication failed", zap.String("reason", err.Error()))
		return nil, ErrUnauthorized
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			log.Warn("authentication failed", zap.String("reason", "user not found"), zap.String("user_id", userID))
			return nil, ErrUnauthorized
		}
		log.Error("failed to load user", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to load user", err)
	}

	// The profile may come from a cache; the session token never does.
	u.Token, err = s.repo.GetSessionToken(ctx, userID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			log.Warn("authentication failed", zap.String("reason", "user not found"), zap.String("user_id", userID))
			return nil, ErrUnauthorized
		}
		log.Error("failed to load session token", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to load user", err)
	}

	if !u.IsSignedIn(token) {
		log.Info("authentication failed", zap.String("reason", "stale session token"), zap.String("user_id", userID))
		return nil, ErrUnauthorized
	}

	return u, nil
}

func (s *Service) verificationEmail(to, verificationToken string) notification.Email {
	return notification.Email{
		To:      to,
		Subject: verificationSubject,
		HTML: fmt.Sprintf(`<a target="_blank" href="%s/api/users/verify/%s">Click verify email</a>`,
			s.settings.BaseURL, verificationToken),
	}
}

func (s *Service) discard(log *zap.Logger, path string) {
	if err := s.deps.Avatars.Discard(path); err != nil {
		log.Warn("failed to remove avatar file", zap.String("path", path), zap.Error(err))
	}
}
