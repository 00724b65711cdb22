package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contacts-api/internal/domain/user"
	pkgerrors "contacts-api/pkg/errors"
)

// UserRepoPG implements the auth Repository interface using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID                string `gorm:"primaryKey;size:36"`
	Email             string `gorm:"not null;uniqueIndex;size:255"`
	PasswordHash      string `gorm:"not null"`
	Subscription      string `gorm:"not null;size:16;default:starter"`
	AvatarURL         string
	VerificationToken string `gorm:"index;size:64"` // Cleared once verified, so not unique
	Verify            bool   `gorm:"not null;default:false"`
	Token             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Create inserts a new user and returns the generated id. A taken email is
// reported as a ConflictError; this needs gorm's TranslateError.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (string, error) {
	if u == nil {
		return "", errors.New("user cannot be nil")
	}

	model := UserSchema{
		ID:                uuid.NewString(),
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Subscription:      string(u.Subscription),
		AvatarURL:         u.AvatarURL,
		VerificationToken: u.VerificationToken,
		Verify:            u.Verify,
		Token:             u.Token,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("email already stored", zap.String("email", u.Email))
			return "", pkgerrors.NewConflictError("user", "Email in use")
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt

	r.log.Info("user created in db", zap.String("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a user by id. A missing row is reported as a NotFoundError.
func (r *UserRepoPG) GetByID(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.String("id", id))
			return nil, pkgerrors.NewNotFoundError("user", "")
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return model.toDomain(), nil
}

// GetSessionToken reads only the session token of the user with id.
func (r *UserRepoPG) GetSessionToken(ctx context.Context, id string) (string, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Select("token").Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.NewNotFoundError("user", "")
		}
		r.log.Error("failed to get session token from db", zap.Error(err), zap.String("id", id))
		return "", fmt.Errorf("failed to get session token: %w", err)
	}
	return model.Token, nil
}

// GetByEmail retrieves a user by email address, or nil when there is none.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// GetByVerificationToken retrieves the unverified user holding token, or nil when there is none.
func (r *UserRepoPG) GetByVerificationToken(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.findOne(ctx, "verification_token = ?", token)
}

// UpdateToken sets the session token. An empty token signs the user out.
func (r *UserRepoPG) UpdateToken(ctx context.Context, id, token string) error {
	result := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id).Update("token", token)
	if result.Error != nil {
		r.log.Error("failed to update token in db", zap.Error(result.Error), zap.String("id", id))
		return fmt.Errorf("failed to update token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("user", "")
	}
	return nil
}

// MarkVerified flips verify and clears the verification token in one statement,
// only if verificationToken is still the stored one.
func (r *UserRepoPG) MarkVerified(ctx context.Context, id, verificationToken string) error {
	result := r.db.WithContext(ctx).Model(&UserSchema{}).
		Where("id = ? AND verification_token = ? AND verify = ?", id, verificationToken, false).
		Updates(map[string]any{"verify": true, "verification_token": ""})
	if result.Error != nil {
		r.log.Error("failed to mark user verified in db", zap.Error(result.Error), zap.String("id", id))
		return fmt.Errorf("failed to verify user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("user", "")
	}

	r.log.Info("user verified in db", zap.String("id", id))
	return nil
}

// UpdateAvatarURL records the stored avatar path.
func (r *UserRepoPG) UpdateAvatarURL(ctx context.Context, id, avatarURL string) error {
	result := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id).Update("avatar_url", avatarURL)
	if result.Error != nil {
		r.log.Error("failed to update avatar in db", zap.Error(result.Error), zap.String("id", id))
		return fmt.Errorf("failed to update avatar: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("user", "")
	}
	return nil
}

func (r *UserRepoPG) findOne(ctx context.Context, cond string, arg any) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.String("cond", cond))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("cond", cond))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return model.toDomain(), nil
}

func (m *UserSchema) toDomain() *user.User {
	return &user.User{
		ID:                m.ID,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Subscription:      user.Subscription(m.Subscription),
		AvatarURL:         m.AvatarURL,
		VerificationToken: m.VerificationToken,
		Verify:            m.Verify,
		Token:             m.Token,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
