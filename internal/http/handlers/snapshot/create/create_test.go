package create

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

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/calderondev/package-quoter/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummySnapshot) (*models.Snapshot, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func validDraft() models.DummySnapshot {
	return models.DummySnapshot{
		Name: "Plan Básico v1",
		BaseServices: []models.BaseService{
			{Name: "Hosting", MonthlyPrice: 28, FreeMonths: 3, PaidMonths: 9},
		},
		Package: models.DummyPackage{
			Name:            "Plan Básico",
			DevelopmentCost: 200,
			DiscountPercent: 10,
		},
	}
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание снапшота",
			requestBody: validDraft(),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DummySnapshot")).
					Return(&models.Snapshot{ID: "snap-1", Name: "Plan Básico v1"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"snap-1"`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "отсутствует имя и базовые услуги",
			requestBody: models.DummySnapshot{
				Package: models.DummyPackage{Name: "Plan", DevelopmentCost: 100},
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name is a required field, field BaseServices is a required field`,
		},
		{
			name: "услуга без цены не проходит валидацию",
			requestBody: models.DummySnapshot{
				Name: "Plan Básico v1",
				BaseServices: []models.BaseService{
					{Name: "Hosting", MonthlyPrice: 0},
				},
				Package: models.DummyPackage{Name: "Plan", DevelopmentCost: 100},
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field MonthlyPrice is a required field`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: validDraft(),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DummySnapshot")).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not create snapshot"}`,
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

			req := httptest.NewRequest(http.MethodPost, "/snapshots", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
