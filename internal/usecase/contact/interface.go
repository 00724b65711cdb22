package contact

import "context"

// Usecase defines the interface for contact business logic operations.
// Every operation is scoped to OwnerID.
type Usecase interface {
	ListContacts(ctx context.Context, in ListContactsRequest) (*ListContactsResponse, error)
	GetContact(ctx context.Context, in GetContactRequest) (*Contact, error)
	CreateContact(ctx context.Context, in CreateContactRequest) (*Contact, error)
	UpdateContact(ctx context.Context, in UpdateContactRequest) (*Contact, error)
	UpdateFavorite(ctx context.Context, in UpdateFavoriteRequest) (*Contact, error)
	DeleteContact(ctx context.Context, in DeleteContactRequest) error
}
