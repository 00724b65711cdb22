package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/adapter/gin/middleware"
	"contacts-api/internal/adapter/gin/response"
	"contacts-api/internal/usecase/auth"
)

// AuthHandler handles HTTP requests for account and session operations
type AuthHandler struct {
	uc  auth.Usecase
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc auth.Usecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:  uc,
		log: log,
	}
}

// UserResponse is the public view of an account
type UserResponse struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

// RegisterResponse is returned by Register
type RegisterResponse struct {
	User UserResponse `json:"user"`
}

// LoginResponse is returned by Login
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AvatarResponse is returned by UpdateAvatar
type AvatarResponse struct {
	AvatarURL string `json:"avatarURL"`
}

// MessageResponse is a plain confirmation body
type MessageResponse struct {
	Message string `json:"message"`
}

// Register handles POST /api/users/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.SignupRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.Signup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		User: UserResponse{Email: resp.Email, Subscription: resp.Subscription},
	})
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.SigninRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.Signin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: resp.Token,
		User:  UserResponse{Email: resp.Email, Subscription: resp.Subscription},
	})
}

// Current handles GET /api/users/current
func (h *AuthHandler) Current(c *gin.Context) {
	resp := h.uc.Current(c.Request.Context(), middleware.CurrentUser(c))
	c.JSON(http.StatusOK, UserResponse{Email: resp.Email, Subscription: resp.Subscription})
}

// Logout handles POST /api/users/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.uc.Signout(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateAvatar handles PATCH /api/users/avatars
func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	req := auth.UpdateAvatarRequest{UserID: middleware.CurrentUser(c).ID}
	if up := middleware.UploadedFile(c); up != nil {
		req.TempPath = up.Path
		req.Filename = up.Filename
	}

	resp, err := h.uc.UpdateAvatar(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, AvatarResponse{AvatarURL: resp.AvatarURL})
}

// Verify handles GET /api/users/verify/:verificationToken
func (h *AuthHandler) Verify(c *gin.Context) {
	resp, err := h.uc.Verify(c.Request.Context(), auth.VerifyRequest{
		VerificationToken: c.Param("verificationToken"),
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: resp.Message})
}

// ResendVerification handles POST /api/users/verify
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req auth.ResendVerificationRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, h.log, err)
		return
	}

	resp, err := h.uc.ResendVerification(c.Request.Context(), req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: resp.Message})
}
