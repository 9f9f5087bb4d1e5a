package regenerate

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
	creditsservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/credits"
	generationservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/generation"
)

// MockService реализует интерфейс regenerate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Regenerate(ctx context.Context, userUID, draftID string,
	params models.GenerationParams) (*models.Draft, error) {
	args := m.Called(ctx, userUID, draftID, params)
	if res := args.Get(0); res != nil {
		return res.(*models.Draft), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRegenerateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	body := `{"topic":"guarda compartilhada","tone":"formal"}`

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная перегенерация",
			setupMock: func(m *MockService) {
				draft := &models.Draft{ID: "draft-1", RegenerationCount: 2}
				m.On("Regenerate", mock.Anything, "uid-1", "draft-1", mock.Anything).
					Return(draft, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name: "предел перегенераций исчерпан",
			setupMock: func(m *MockService) {
				m.On("Regenerate", mock.Anything, "uid-1", "draft-1", mock.Anything).
					Return(nil, generationservice.ErrRegenLimit)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `regeneration limit reached`,
		},
		{
			name: "дневная квота исчерпана",
			setupMock: func(m *MockService) {
				m.On("Regenerate", mock.Anything, "uid-1", "draft-1", mock.Anything).
					Return(nil, generationservice.ErrDailyLimit)
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   `daily generation limit reached`,
		},
		{
			name: "нет активной подписки",
			setupMock: func(m *MockService) {
				m.On("Regenerate", mock.Anything, "uid-1", "draft-1", mock.Anything).
					Return(nil, creditsservice.ErrNoSubscription)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `no active subscription`,
		},
		{
			name: "черновик не найден",
			setupMock: func(m *MockService) {
				m.On("Regenerate", mock.Anything, "uid-1", "draft-1", mock.Anything).
					Return(nil, generationservice.ErrDraftNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `draft not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/admin/blog/draft-1/regenerar",
				strings.NewReader(body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "draft-1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
