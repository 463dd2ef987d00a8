// Package activate реализует HTTP-обработчик переключения флага публикации
// снапшота. Это отдельный узкий путь: флаг Active не меняется через общий
// поток редактирования.
package activate

import (
	"context"
	"encoding/json"
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

// Handler управляет HTTP-запросами на переключение публикации снапшота.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики переключения публикации.
type Service interface {
	SetActive(ctx context.Context, id string, active bool) (*models.Snapshot, error)
}

// request — тело запроса переключения.
type request struct {
	Active bool `json:"active"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить публикацию снапшота
// @Description Устанавливает флаг публикации снапшота и пересчитывает его стоимости.
// @Tags Snapshots
// @Accept  json
// @Produce  json
// @Param id path string true "ID снапшота"
// @Param request body object true "Флаг публикации"
// @Success 200 {object} map[string]any "Обновлённый снапшот"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Снапшот не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /snapshots/{id}/activate [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.snapshot.activate"
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

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	snap, err := h.service.SetActive(r.Context(), id, req.Active)
	if services.IsNotFound(err) {
		log.Info("snapshot not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("snapshot not found"))
		return
	}
	if err != nil {
		log.Error("failed to toggle snapshot activation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not toggle snapshot activation"))
		return
	}

	log.Info("snapshot activation toggled", slog.String("id", id), slog.Bool("active", snap.Active))
	render.JSON(w, r, response.OKWithData(snap))
}
