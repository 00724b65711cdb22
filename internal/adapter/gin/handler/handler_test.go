package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"contacts-api/internal/adapter/gin/middleware"
	domain "contacts-api/internal/domain/user"
	"contacts-api/internal/usecase/auth"
	pkgerrors "contacts-api/pkg/errors"
)

const testToken = "session-token"

var testUser = &domain.User{ID: "user-1", Email: "a@x.com", Subscription: domain.SubscriptionStarter, Token: testToken}

// MockAuthUsecase is a mock implementation of auth.Usecase
type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) Signup(ctx context.Context, in auth.SignupRequest) (*auth.SignupResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.SignupResponse), args.Error(1)
}

func (m *MockAuthUsecase) Signin(ctx context.Context, in auth.SigninRequest) (*auth.SigninResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.SigninResponse), args.Error(1)
}

func (m *MockAuthUsecase) Current(ctx context.Context, u *domain.User) *auth.CurrentResponse {
	args := m.Called(ctx, u)
	return args.Get(0).(*auth.CurrentResponse)
}

func (m *MockAuthUsecase) Signout(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockAuthUsecase) Verify(ctx context.Context, in auth.VerifyRequest) (*auth.MessageResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.MessageResponse), args.Error(1)
}

func (m *MockAuthUsecase) ResendVerification(ctx context.Context, in auth.ResendVerificationRequest) (*auth.MessageResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.MessageResponse), args.Error(1)
}

func (m *MockAuthUsecase) UpdateAvatar(ctx context.Context, in auth.UpdateAvatarRequest) (*auth.UpdateAvatarResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UpdateAvatarResponse), args.Error(1)
}

// Authenticate accepts testToken only, so route tests need no expectations for it.
func (m *MockAuthUsecase) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token == testToken {
		return testUser, nil
	}
	return nil, pkgerrors.ErrUnauthorized
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine() *gin.Engine {
	return gin.New()
}

// authed returns the Auth middleware backed by MockAuthUsecase.Authenticate.
func authed(t *testing.T) gin.HandlerFunc {
	return middleware.Auth(new(MockAuthUsecase), zaptest.NewLogger(t))
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+testToken)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doMultipart(t *testing.T, r *gin.Engine, path, field, filename string, data []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
