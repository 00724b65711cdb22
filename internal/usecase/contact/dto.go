package contact

// CreateContactRequest represents the request payload for creating a contact.
type CreateContactRequest struct {
	OwnerID  string `json:"-" validate:"required"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Favorite bool   `json:"favorite"`
}

// UpdateContactRequest represents a partial update. Nil fields are left unchanged.
type UpdateContactRequest struct {
	OwnerID  string  `json:"-" validate:"required"`
	ID       string  `json:"-" validate:"required"`
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Favorite *bool   `json:"favorite"`
}

// UpdateFavoriteRequest sets the favorite flag of a contact.
type UpdateFavoriteRequest struct {
	OwnerID  string `json:"-" validate:"required"`
	ID       string `json:"-" validate:"required"`
	Favorite *bool  `json:"favorite" validate:"required"`
}

// GetContactRequest represents the request payload for retrieving a contact.
type GetContactRequest struct {
	OwnerID string
	ID      string
}

// DeleteContactRequest represents the request payload for deleting a contact.
type DeleteContactRequest struct {
	OwnerID string
	ID      string
}

// ListContactsRequest represents the request payload for listing contacts.
// It supports pagination, search and a favorite filter.
type ListContactsRequest struct {
	OwnerID  string
	Query    string
	Favorite *bool
	Page     int64
	Limit    int64
}

// ListContactsResponse represents the response payload for contact listing.
type ListContactsResponse struct {
	Contacts   []Contact
	Pagination *Pagination
}

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64
	Page       int64
	Limit      int64
	TotalPages int64
}

// Contact represents a contact DTO (Data Transfer Object) for API responses.
type Contact struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Favorite bool
	OwnerID  string
}
