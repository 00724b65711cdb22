package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/adapter/gin/middleware"
	"contacts-api/internal/adapter/gin/response"
	"contacts-api/internal/usecase/contact"
	pkgerrors "contacts-api/pkg/errors"
)

// ContactHandler handles HTTP requests for contact operations
type ContactHandler struct {
	uc  contact.Usecase
	log *zap.Logger
}

// NewContactHandler creates a new ContactHandler instance
func NewContactHandler(uc contact.Usecase, log *zap.Logger) *ContactHandler {
	return &ContactHandler{
		uc:  uc,
		log: log,
	}
}

// ContactResponse represents the HTTP response for contact data
type ContactResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Favorite bool   `json:"favorite"`
	Owner    string `json:"owner"`
}

// ListContactsResponse represents the HTTP response for listing contacts
type ListContactsResponse struct {
	Contacts   []ContactResponse `json:"contacts"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// List handles GET /api/contacts
func (h *ContactHandler) List(c *gin.Context) {
	req := contact.ListContactsRequest{
		OwnerID: middleware.CurrentUser(c).ID,
		Query:   c.Query("query"),
	}

	var err error
	if req.Page, err = queryInt(c, "page"); err != nil {
		response.Error(c, h.log, err)
		return
	}
	if req.Limit, err = queryInt(c, "limit"); err != nil {
		response.Error(c, h.log, err)
		return
	}
	if raw := c.Query("favorite"); raw != "" {
		fav, perr := strconv.ParseBool(raw)
		if perr != nil {
			response.Error(c, h.log, pkgerrors.NewValidationError("favorite", "favorite must be true or false"))
			return
		}
		req.Favorite = &fav
	}

	resp, err := h.uc.ListContacts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	out := ListContactsResponse{Contacts: make([]ContactResponse, 0, len(resp.Contacts))}
	for _, ct := range resp.Contacts {
		out.Contacts = append(out.Contacts, toContactResponse(&ct))
	}
	if p := resp.Pagination; p != nil {
		out.Pagination = &Pagination{Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages}
	}

	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/contacts/:contactId
func (h *ContactHandler) Get(c *gin.Context) {
	resp, err := h.uc.GetContact(c.Request.Context(), contact.GetContactRequest{
		OwnerID: middleware.CurrentUser(c).ID,
		ID:      c.Param("contactId"),
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toContactResponse(resp))
}

// Create handles POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req contact.CreateContactRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.log, err)
		return
	}
	req.OwnerID = middleware.CurrentUser(c).ID

	resp, err := h.uc.CreateContact(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toContactResponse(resp))
}

// Update handles PUT /api/contacts/:contactId
func (h *ContactHandler) Update(c *gin.Context) {
	var req contact.UpdateContactRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.log, err)
		return
	}
	req.OwnerID = middleware.CurrentUser(c).ID
	req.ID = c.Param("contactId")

	resp, err := h.uc.UpdateContact(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toContactResponse(resp))
}

// UpdateFavorite handles PATCH /api/contacts/:contactId/favorite
func (h *ContactHandler) UpdateFavorite(c *gin.Context) {
	var req contact.UpdateFavoriteRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.log, err)
		return
	}
	req.OwnerID = middleware.CurrentUser(c).ID
	req.ID = c.Param("contactId")

	resp, err := h.uc.UpdateFavorite(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toContactResponse(resp))
}

// Delete handles DELETE /api/contacts/:contactId
func (h *ContactHandler) Delete(c *gin.Context) {
	err := h.uc.DeleteContact(c.Request.Context(), contact.DeleteContactRequest{
		OwnerID: middleware.CurrentUser(c).ID,
		ID:      c.Param("contactId"),
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "contact deleted"})
}

func toContactResponse(ct *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:       ct.ID,
		Name:     ct.Name,
		Email:    ct.Email,
		Phone:    ct.Phone,
		Favorite: ct.Favorite,
		Owner:    ct.OwnerID,
	}
}

// queryInt parses an optional positive integer query parameter; zero means unset.
func queryInt(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, pkgerrors.NewValidationError(name, name+" must be a positive integer")
	}
	return v, nil
}
