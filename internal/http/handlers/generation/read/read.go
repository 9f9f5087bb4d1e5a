// Package read реализует HTTP-обработчик чтения черновика мастера генерации.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/response"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
	generationservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/generation"
)

// Handler обрабатывает запросы на получение черновика по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения черновиков.
type Service interface {
	GetDraft(ctx context.Context, draftID string) (*models.Draft, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить черновик
// @Description Возвращает черновик мастера генерации со счётчиком перегенераций.
// @Tags Generation
// @Produce  json
// @Param id path string true "ID черновика"
// @Success 200 {object} response.Response "Черновик"
// @Failure 404 {object} response.ErrorResponse "Черновик не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/blog/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generation.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	draftID := chi.URLParam(r, "id")
	draft, err := h.service.GetDraft(r.Context(), draftID)
	if err != nil {
		if errors.Is(err, generationservice.ErrDraftNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("draft not found"))
			return
		}
		log.Error("failed to read draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(draft))
}
