// Package read реализует публичный HTTP-обработчик чтения статьи блога по слагу.
// Неопубликованные статьи для публичного сайта не существуют.
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
	contentservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/content"
)

// Handler обрабатывает публичные запросы чтения статей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения опубликованных статей.
type Service interface {
	ReadBySlug(ctx context.Context, slug string) (*models.Article, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить опубликованную статью
// @Description Возвращает опубликованную статью блога по слагу.
// @Tags Articles
// @Produce  json
// @Param slug path string true "Слаг статьи"
// @Success 200 {object} response.Response "Статья"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /articles/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing slug"))
		return
	}

	article, err := h.service.ReadBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, contentservice.ErrArticleNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
			return
		}
		log.Error("failed to read article", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(article))
}
