package middlewarectx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"

	"io"
	"log/slog"
)

// Mock for AuthService
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.User, bool, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handlerCalled := false

	// Test handler which checks context values
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		username := r.Context().Value(middlewarectx.User)
		roles := r.Context().Value(middlewarectx.Roles)
		assert.Equal(t, "testuser", username)
		assert.Equal(t, []string{"editor"}, roles)
		w.WriteHeader(http.StatusOK)
	})

	middleware := middlewarectx.JWTMiddleware(authMock, logger)(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		mockUser       *models.User
		mockValid      bool
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer token",
			mockUser:       nil,
			mockErr:        errors.New("parse error"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token invalid",
			authHeader:     "Bearer token",
			mockUser:       nil,
			mockValid:      false,
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			mockUser:       &models.User{UID: "uid-1", Username: "testuser", Roles: []string{"editor"}},
			mockValid:      true,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			authMock.ExpectedCalls = nil

			if strings.HasPrefix(tt.authHeader, "Bearer ") {
				token := strings.TrimPrefix(tt.authHeader, "Bearer ")
				authMock.On("ValidateToken", mock.Anything, token).
					Return(tt.mockUser, tt.mockValid, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/conteudos", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestAccessGuardMiddleware(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		identity       string
		roles          []string
		path           string
		wantStatusCode int
		wantCalled     bool
		wantRedirect   string
	}{
		{
			name:           "unauthenticated request",
			path:           "/api/v1/admin/conteudos",
			wantStatusCode: http.StatusUnauthorized,
			wantRedirect:   "/login",
		},
		{
			name:           "no backoffice roles",
			identity:       "visitor",
			roles:          []string{"user"},
			path:           "/api/v1/admin/conteudos",
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "editor reaches content section",
			identity:       "editor1",
			roles:          []string{"editor"},
			path:           "/api/v1/admin/conteudos",
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "editor blocked from user management",
			identity:       "editor1",
			roles:          []string{"editor"},
			path:           "/api/v1/admin/usuarios",
			wantStatusCode: http.StatusForbidden,
			wantRedirect:   "/admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			middleware := middlewarectx.AccessGuardMiddleware("/api/v1", logger)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			ctx := req.Context()
			if tt.identity != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.identity)
				ctx = context.WithValue(ctx, middlewarectx.Roles, tt.roles)
			}
			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantRedirect != "" {
				assert.Contains(t, rec.Body.String(), tt.wantRedirect)
			}
		})
	}
}
