package contact

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "contacts-api/internal/domain/contact"
	pkgerrors "contacts-api/pkg/errors"
	"contacts-api/pkg/logger"
	"contacts-api/pkg/validation"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Errors returned to callers
var (
	ErrContactNotFound = pkgerrors.ErrNotFound
	ErrNoChanges       = pkgerrors.NewValidationError("body", "missing fields")
	ErrPageOutOfRange  = pkgerrors.NewValidationError("page", "page is out of range")
)

// Repository defines the interface for contact data access operations.
// Lookups and mutations are scoped to the owner; a contact of another owner
// is reported as a NotFoundError.
type Repository interface {
	Create(ctx context.Context, c *domain.Contact) (string, error)                              // Create a new contact
	GetByID(ctx context.Context, ownerID, id string) (*domain.Contact, error)                   // Retrieve contact by ID
	Update(ctx context.Context, ownerID, id string, ch domain.Changes) (*domain.Contact, error) // Apply a partial update
	Delete(ctx context.Context, ownerID, id string) error                                       // Delete contact by ID
	List(ctx context.Context, f domain.Filter) ([]domain.Contact, int64, error)                 // List contacts with total count
}

// Service implements the business logic for contact management operations.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*Service)(nil)

// New creates a new Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validation.New()}
}

// ListContacts retrieves a page of the owner's contacts with optional search
// on name, email and phone.
func (s *Service) ListContacts(ctx context.Context, in ListContactsRequest) (*ListContactsResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if in.Page <= 0 {
		in.Page = defaultPage
	}
	if in.Limit <= 0 {
		in.Limit = defaultLimit
	}
	if in.Limit > maxLimit {
		in.Limit = maxLimit
	}

	log.Debug("listing contacts", zap.String("query", in.Query), zap.Int64("page", in.Page), zap.Int64("limit", in.Limit))

	filter := domain.Filter{
		OwnerID:  in.OwnerID,
		Query:    in.Query,
		Favorite: in.Favorite,
		Page:     in.Page,
		Limit:    in.Limit,
	}
	if !filter.PageInRange() {
		log.Warn("contact page out of range", zap.Int64("page", in.Page), zap.Int64("limit", in.Limit))
		return nil, ErrPageOutOfRange
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		if pkgerrors.StatusOf(err) < 500 {
			log.Warn("invalid contact listing", zap.String("query", in.Query), zap.Error(err))
			return nil, err
		}
		log.Error("failed to list contacts", zap.String("query", in.Query), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to list contacts", err)
	}

	contacts := make([]Contact, len(items))
	for i := range items {
		contacts[i] = toDTO(&items[i])
	}

	p := domain.NewPagination(total, in.Page, in.Limit)
	return &ListContactsResponse{
		Contacts: contacts,
		Pagination: &Pagination{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	}, nil
}

// GetContact retrieves one of the owner's contacts.
func (s *Service) GetContact(ctx context.Context, in GetContactRequest) (*Contact, error) {
	c, err := s.repo.GetByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, s.mapError(ctx, "get", in.ID, err)
	}
	out := toDTO(c)
	return &out, nil
}

// CreateContact validates and stores a new contact for the owner.
func (s *Service) CreateContact(ctx context.Context, in CreateContactRequest) (*Contact, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("create contact validation failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	c := &domain.Contact{
		OwnerID:  in.OwnerID,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Favorite: in.Favorite,
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		log.Error("failed to create contact", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to create contact", err)
	}
	c.ID = id

	log.Info("contact created", zap.String("contact_id", id))
	out := toDTO(c)
	return &out, nil
}

// UpdateContact applies a partial update. At least one field must be present.
func (s *Service) UpdateContact(ctx context.Context, in UpdateContactRequest) (*Contact, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("update contact validation failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	changes := domain.Changes{Name: in.Name, Email: in.Email, Phone: in.Phone, Favorite: in.Favorite}
	if changes.Empty() {
		return nil, ErrNoChanges
	}

	c, err := s.repo.Update(ctx, in.OwnerID, in.ID, changes)
	if err != nil {
		return nil, s.mapError(ctx, "update", in.ID, err)
	}

	log.Info("contact updated", zap.String("contact_id", in.ID))
	out := toDTO(c)
	return &out, nil
}

// UpdateFavorite sets the favorite flag of a contact.
func (s *Service) UpdateFavorite(ctx context.Context, in UpdateFavoriteRequest) (*Contact, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("update favorite validation failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	c, err := s.repo.Update(ctx, in.OwnerID, in.ID, domain.Changes{Favorite: in.Favorite})
	if err != nil {
		return nil, s.mapError(ctx, "update favorite", in.ID, err)
	}

	log.Info("contact favorite updated", zap.String("contact_id", in.ID), zap.Bool("favorite", *in.Favorite))
	out := toDTO(c)
	return &out, nil
}

// DeleteContact removes one of the owner's contacts.
func (s *Service) DeleteContact(ctx context.Context, in DeleteContactRequest) error {
	if err := s.repo.Delete(ctx, in.OwnerID, in.ID); err != nil {
		return s.mapError(ctx, "delete", in.ID, err)
	}

	logger.WithContext(ctx, s.log).Info("contact deleted", zap.String("contact_id", in.ID))
	return nil
}

func (s *Service) mapError(ctx context.Context, op, id string, err error) error {
	log := logger.WithContext(ctx, s.log)
	if pkgerrors.IsNotFound(err) {
		log.Warn("contact not found", zap.String("op", op), zap.String("contact_id", id))
		return ErrContactNotFound
	}
	log.Error("contact operation failed", zap.String("op", op), zap.String("contact_id", id), zap.Error(err))
	return pkgerrors.NewInternalError("failed to "+op+" contact", err)
}

func toDTO(c *domain.Contact) Contact {
	return Contact{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Favorite: c.Favorite,
		OwnerID:  c.OwnerID,
	}
}
