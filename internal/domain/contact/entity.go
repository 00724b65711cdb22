package contact

import (
	"math"
	"time"
)

// Contact is an address book entry owned by a single user.
type Contact struct {
	ID        string
	OwnerID   string
	Name      string
	Email     string
	Phone     string
	Favorite  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows a contact listing. Zero values mean "no constraint".
type Filter struct {
	OwnerID  string
	Query    string
	Favorite *bool
	Page     int64
	Limit    int64
}

// Offset returns the number of rows to skip for the requested page. It
// saturates at math.MaxInt64 instead of overflowing.
func (f Filter) Offset() int64 {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if !f.PageInRange() {
		return math.MaxInt64
	}
	return (f.Page - 1) * f.Limit
}

// PageInRange reports whether the offset of Page fits in an int64.
func (f Filter) PageInRange() bool {
	return f.Limit < 1 || f.Page-1 <= math.MaxInt64/f.Limit
}

// Changes is a partial update. Nil fields are left untouched.
type Changes struct {
	Name     *string
	Email    *string
	Phone    *string
	Favorite *bool
}

// Empty reports whether no field is set.
func (c Changes) Empty() bool {
	return c.Name == nil && c.Email == nil && c.Phone == nil && c.Favorite == nil
}
