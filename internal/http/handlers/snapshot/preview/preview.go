// Package preview реализует HTTP-обработчик предпросмотра стоимостей
// черновика без сохранения: итоговые суммы, детализация скидок
// и план оплаты разработки.
package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/calderondev/package-quoter/internal/http/response"
	"github.com/calderondev/package-quoter/internal/lib/sl"
	"github.com/calderondev/package-quoter/internal/models"
	"github.com/calderondev/package-quoter/internal/pricing"
)

// Handler управляет HTTP-запросами предпросмотра стоимостей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс расчёта предпросмотра.
type Service interface {
	Preview(req models.DummySnapshot) (models.CostSummary, pricing.DiscountPreview, pricing.PaymentPlanPreview)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Предпросмотр стоимостей черновика
// @Description Рассчитывает стоимости, детализацию скидок и план оплаты без сохранения.
// @Tags Snapshots
// @Accept  json
// @Produce  json
// @Param request body models.DummySnapshot true "Черновик снапшота"
// @Success 200 {object} map[string]any "Результаты расчёта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /snapshots/preview [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.snapshot.preview"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySnapshot
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	costs, discounts, paymentPlan := h.service.Preview(req)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"costs":        costs,
		"discounts":    discounts,
		"payment_plan": paymentPlan,
	}))
}
