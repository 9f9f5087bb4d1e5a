// Package publish реализует HTTP-обработчик публикации и снятия с публикации
// статьи в админ-панели. Ручная публикация кредиты генерации не расходует.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/response"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/sl"
	contentservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/content"
)

// Request — входные данные для переключения публикации.
type Request struct {
	Published bool `json:"published"`
}

// Handler управляет HTTP-запросами публикации статей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики публикации статьи.
type Service interface {
	SetPublished(ctx context.Context, id string, published bool) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Публикация статьи
// @Description Публикует или снимает с публикации статью по ID.
// @Tags Content
// @Accept  json
// @Produce  json
// @Param id path string true "ID статьи"
// @Param request body Request true "Флаг публикации"
// @Success 200 {object} response.Response "Статус изменён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/conteudos/{id}/publicar [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.publish"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.SetPublished(r.Context(), id, req.Published); err != nil {
		if errors.Is(err, contentservice.ErrArticleNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
			return
		}
		log.Error("failed to toggle publication", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update publication status"))
		return
	}

	log.Info("publication toggled", slog.String("id", id), slog.Bool("published", req.Published))
	render.JSON(w, r, response.OK())
}
