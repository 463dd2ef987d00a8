// Package catalog реализует HTTP-обработчик каталога дополнительных услуг,
// слитого из legacy-конфига при старте приложения.
package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/calderondev/package-quoter/internal/http/response"
	"github.com/calderondev/package-quoter/internal/models"
)

// Handler управляет HTTP-запросами каталога дополнительных услуг.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс доступа к каталогу.
type Service interface {
	Catalog() []models.OptionalService
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог дополнительных услуг
// @Description Возвращает каталог дополнительных услуг для подстановки в редактор.
// @Tags Catalog
// @Produce  json
// @Success 200 {object} map[string]any "Каталог услуг"
// @Router /catalog/optional-services [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.snapshot.catalog"
	h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	).Info("catalog requested")

	render.JSON(w, r, response.OKWithData(h.service.Catalog()))
}
