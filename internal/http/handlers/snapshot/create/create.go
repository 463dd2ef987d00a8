// Package create реализует HTTP-обработчик для создания нового снапшота.
//
// Handler принимает JSON-черновик предложения, валидирует его, вызывает
// бизнес-логику создания и возвращает каноническую копию снапшота
// с назначенными сервером ID, датой создания и стоимостями.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/calderondev/package-quoter/internal/http/response"
	"github.com/calderondev/package-quoter/internal/lib/sl"
	"github.com/calderondev/package-quoter/internal/models"
)

// Handler управляет HTTP-запросами на создание снапшотов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики снапшотов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания снапшота.
type Service interface {
	Create(ctx context.Context, req models.DummySnapshot) (*models.Snapshot, error)
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
// @Summary Создать новый снапшот
// @Description Создает новую версию коммерческого предложения. Возвращает каноническую копию.
// @Tags Snapshots
// @Accept  json
// @Produce  json
// @Param request body models.DummySnapshot true "Черновик снапшота"
// @Success 200 {object} map[string]any "Созданный снапшот"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании"
// @Router /snapshots [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.snapshot.create"
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
	log.Info("request body decoded", slog.String("name", req.Name))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	snap, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create snapshot", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create snapshot"))
		return
	}

	log.Info("snapshot created", slog.String("id", snap.ID))
	render.JSON(w, r, response.OKWithData(snap))
}
