package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	pkgerrors "contacts-api/pkg/errors"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", pkgerrors.NewValidationError("email", "missing required field email"), http.StatusBadRequest, `{"message":"missing required field email"}`},
		{"conflict", pkgerrors.NewConflictError("user", "Email in use"), http.StatusConflict, `{"message":"Email in use"}`},
		{"unauthorized", pkgerrors.ErrUnauthorized, http.StatusUnauthorized, `{"message":"Not authorized"}`},
		{"not found", pkgerrors.ErrNotFound, http.StatusNotFound, `{"message":"Not found"}`},
		{"internal hides cause", pkgerrors.NewInternalError("failed to hash password", errors.New("bcrypt: cost")), http.StatusInternalServerError, `{"message":"Server error"}`},
		{"plain error", errors.New("pq: connection refused"), http.StatusInternalServerError, `{"message":"Server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) {
				Error(c, zaptest.NewLogger(t), tt.err)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
