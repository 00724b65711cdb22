package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contacts-api/internal/domain/contact"
	pkgerrors "contacts-api/pkg/errors"
	"contacts-api/pkg/security"
)

// ContactRepoPG implements the contact Repository interface using PostgreSQL and GORM.
type ContactRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewContactRepoPG creates a new instance of ContactRepoPG.
func NewContactRepoPG(db *gorm.DB, log *zap.Logger) *ContactRepoPG {
	return &ContactRepoPG{db: db, log: log}
}

// ContactSchema represents the database schema for the contacts table.
type ContactSchema struct {
	ID        string `gorm:"primaryKey;size:36"`
	OwnerID   string `gorm:"not null;index;size:36"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Phone     string `gorm:"not null;size:32"`
	Favorite  bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the ContactSchema model.
func (ContactSchema) TableName() string {
	return "contacts"
}

// Create inserts a new contact and returns the generated id.
func (r *ContactRepoPG) Create(ctx context.Context, c *contact.Contact) (string, error) {
	if c == nil {
		return "", errors.New("contact cannot be nil")
	}

	model := ContactSchema{
		ID:       uuid.NewString(),
		OwnerID:  c.OwnerID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Favorite: c.Favorite,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create contact in db", zap.Error(err), zap.String("owner_id", c.OwnerID))
		return "", fmt.Errorf("failed to create contact: %w", err)
	}

	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return model.ID, nil
}

// GetByID retrieves one of the owner's contacts.
func (r *ContactRepoPG) GetByID(ctx context.Context, ownerID, id string) (*contact.Contact, error) {
	var model ContactSchema
	if err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFoundError("contact", "")
		}
		r.log.Error("failed to get contact from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return model.toDomain(), nil
}

// Update applies the non-nil fields of ch and returns the updated contact.
func (r *ContactRepoPG) Update(ctx context.Context, ownerID, id string, ch contact.Changes) (*contact.Contact, error) {
	updates := map[string]any{}
	if ch.Name != nil {
		updates["name"] = *ch.Name
	}
	if ch.Email != nil {
		updates["email"] = *ch.Email
	}
	if ch.Phone != nil {
		updates["phone"] = *ch.Phone
	}
	if ch.Favorite != nil {
		updates["favorite"] = *ch.Favorite
	}
	if len(updates) == 0 {
		return r.GetByID(ctx, ownerID, id)
	}

	result := r.db.WithContext(ctx).Model(&ContactSchema{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		r.log.Error("failed to update contact in db", zap.Error(result.Error), zap.String("id", id))
		return nil, fmt.Errorf("failed to update contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.NewNotFoundError("contact", "")
	}

	return r.GetByID(ctx, ownerID, id)
}

// Delete removes one of the owner's contacts.
func (r *ContactRepoPG) Delete(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&ContactSchema{})
	if result.Error != nil {
		r.log.Error("failed to delete contact in db", zap.Error(result.Error), zap.String("id", id))
		return fmt.Errorf("failed to delete contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("contact", "")
	}
	return nil
}

// List returns one page of the owner's contacts and the total number of matches.
// The query is matched case-insensitively against name, email and phone.
func (r *ContactRepoPG) List(ctx context.Context, f contact.Filter) ([]contact.Contact, int64, error) {
	q := r.db.WithContext(ctx).Model(&ContactSchema{}).Where("owner_id = ?", f.OwnerID)

	if f.Query != "" {
		validated, err := security.ValidateSearchQuery(f.Query)
		if err != nil {
			r.log.Warn("rejected contact search query", zap.String("query", f.Query), zap.Error(err))
			return nil, 0, pkgerrors.NewValidationError("query", "invalid search query: "+err.Error())
		}
		if validated != "" {
			pattern := "%" + strings.ToLower(security.SanitizeSearchString(validated)) + "%"
			q = q.Where(
				`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\')`,
				pattern, pattern, pattern,
			)
		}
	}

	if f.Favorite != nil {
		q = q.Where("favorite = ?", *f.Favorite)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.log.Error("failed to count contacts", zap.Error(err), zap.String("owner_id", f.OwnerID))
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	var models []ContactSchema
	if err := q.Order("created_at ASC").Order("id ASC").
		Offset(int(f.Offset())).Limit(int(f.Limit)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list contacts from db", zap.Error(err),
			zap.String("owner_id", f.OwnerID), zap.Int64("page", f.Page), zap.Int64("limit", f.Limit))
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := make([]contact.Contact, len(models))
	for i := range models {
		contacts[i] = *models[i].toDomain()
	}

	return contacts, total, nil
}

func (m *ContactSchema) toDomain() *contact.Contact {
	return &contact.Contact{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Favorite:  m.Favorite,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
