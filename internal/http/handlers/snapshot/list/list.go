// Package list реализует HTTP-обработчик списков снапшотов.
// По умолчанию возвращаются только активные снапшоты; параметр all=true
// включает неактивные и используется редактором предложений.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/calderondev/package-quoter/internal/http/response"
	"github.com/calderondev/package-quoter/internal/lib/sl"
	"github.com/calderondev/package-quoter/internal/models"
)

// Handler управляет HTTP-запросами на списки снапшотов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списков снапшотов.
type Service interface {
	List(ctx context.Context) ([]*models.Snapshot, error)
	ListAll(ctx context.Context) ([]*models.Snapshot, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список снапшотов
// @Description Возвращает активные снапшоты; с параметром all=true — все.
// @Tags Snapshots
// @Produce  json
// @Param all query bool false "Включить неактивные снапшоты"
// @Success 200 {object} map[string]any "Список снапшотов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /snapshots [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.snapshot.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var result []*models.Snapshot
	var err error
	if r.URL.Query().Get("all") == "true" {
		result, err = h.service.ListAll(r.Context())
	} else {
		result, err = h.service.List(r.Context())
	}
	if err != nil {
		log.Error("failed to list snapshots", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list snapshots"))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
