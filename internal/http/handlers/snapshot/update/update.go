// Package update реализует HTTP-обработчик полной замены снапшота.
//
// Обновление всегда присылает агрегат целиком: частичных патчей
// на уровне данных нет. Сервер пересчитывает стоимости и возвращает
// каноническую копию — она становится новой базой для автосохранения.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/calderondev/package-quoter/internal/http/response"
	"github.com/calderondev/package-quoter/internal/lib/sl"
	"github.com/calderondev/package-quoter/internal/models"
	services "github.com/calderondev/package-quoter/internal/services/snapshot"
)

// Handler управляет HTTP-запросами на обновление снапшота.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления снапшота.
type Service interface {
	Update(ctx context.Context, id string, req models.DummySnapshot) (*models.Snapshot, error)
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
// @Summary Обновить снапшот
// @Description Целиком заменяет снапшот по ID. Возвращает каноническую копию с пересчитанными стоимостями.
// @Tags Snapshots
// @Accept  json
// @Produce  json
// @Param id path string true "ID снапшота"
// @Param request body models.DummySnapshot true "Новое состояние снапшота"
// @Success 200 {object} map[string]any "Обновлённый снапшот"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Снапшот не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при обновлении"
// @Router /snapshots/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.snapshot.update"
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

	snap, err := h.service.Update(r.Context(), id, req)
	if services.IsNotFound(err) {
		log.Info("snapshot not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("snapshot not found"))
		return
	}
	if err != nil {
		log.Error("failed to update snapshot", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update snapshot"))
		return
	}

	log.Info("snapshot updated", slog.String("id", snap.ID))
	render.JSON(w, r, response.OKWithData(snap))
}
