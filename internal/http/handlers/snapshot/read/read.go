// Package read реализует HTTP-обработчик чтения одного снапшота по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/calderondev/package-quoter/internal/http/response"
	"github.com/calderondev/package-quoter/internal/lib/sl"
	"github.com/calderondev/package-quoter/internal/models"
	services "github.com/calderondev/package-quoter/internal/services/snapshot"
)

// Handler управляет HTTP-запросами на чтение снапшота.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения снапшота.
type Service interface {
	Read(ctx context.Context, id string) (*models.Snapshot, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить снапшот
// @Description Возвращает снапшот по его ID.
// @Tags Snapshots
// @Produce  json
// @Param id path string true "ID снапшота"
// @Success 200 {object} map[string]any "Снапшот"
// @Failure 404 {object} response.ErrorResponse "Снапшот не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /snapshots/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.snapshot.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing id in url"))
		return
	}

	snap, err := h.service.Read(r.Context(), id)
	if services.IsNotFound(err) {
		log.Info("snapshot not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("snapshot not found"))
		return
	}
	if err != nil {
		log.Error("failed to read snapshot", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read snapshot"))
		return
	}

	render.JSON(w, r, response.OKWithData(snap))
}
