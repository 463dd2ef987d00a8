package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/calderondev/package-quoter/internal/models"
	services "github.com/calderondev/package-quoter/internal/services/snapshot"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, id string, req models.DummySnapshot) (*models.Snapshot, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func validDraft() models.DummySnapshot {
	return models.DummySnapshot{
		Name: "Plan Básico v2",
		BaseServices: []models.BaseService{
			{ID: "b1", Name: "Hosting", MonthlyPrice: 28, FreeMonths: 3, PaidMonths: 9},
		},
		Package: models.DummyPackage{
			Name:            "Plan Básico",
			DevelopmentCost: 250,
			DiscountPercent: 10,
		},
	}
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное обновление снапшота",
			id:          "snap-1",
			requestBody: validDraft(),
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "snap-1", mock.AnythingOfType("models.DummySnapshot")).
					Return(&models.Snapshot{ID: "snap-1", Name: "Plan Básico v2"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"snap-1"`,
		},
		{
			name:           "некорректный JSON",
			id:             "snap-1",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "ошибка валидации",
			id:             "snap-1",
			requestBody:    models.DummySnapshot{},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name is a required field`,
		},
		{
			name:        "снапшот не найден",
			id:          "absent",
			requestBody: validDraft(),
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "absent", mock.AnythingOfType("models.DummySnapshot")).
					Return(nil, services.ErrSnapshotNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"snapshot not found"}`,
		},
		{
			name:        "ошибка сервиса",
			id:          "snap-1",
			requestBody: validDraft(),
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "snap-1", mock.AnythingOfType("models.DummySnapshot")).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not update snapshot"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPut, "/snapshots/"+tt.id, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			// Устанавливаем URL параметр id для chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
