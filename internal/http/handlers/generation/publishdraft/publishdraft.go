// Package publishdraft реализует HTTP-обработчик публикации черновика
// мастера генерации в блог. Публикация списывает один кредит подписки.
package publishdraft

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/response"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
	creditsservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/credits"
	generationservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/generation"
)

// Handler управляет HTTP-запросами публикации черновиков.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс публикации черновика.
type Service interface {
	Publish(ctx context.Context, userUID, draftID string) (*models.Article, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Опубликовать черновик
// @Description Переносит результат черновика в блог и списывает один кредит подписки.
// @Tags Generation
// @Produce  json
// @Param id path string true "ID черновика"
// @Success 200 {object} response.Response "Созданная статья"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет активной подписки"
// @Failure 404 {object} response.ErrorResponse "Черновик не найден"
// @Failure 409 {object} response.ErrorResponse "Черновик уже опубликован"
// @Failure 422 {object} response.ErrorResponse "Кредиты периода исчерпаны"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/blog/{id}/publicar [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generation.publishdraft"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	draftID := chi.URLParam(r, "id")
	article, err := h.service.Publish(r.Context(), userUID, draftID)
	if err != nil {
		switch {
		case errors.Is(err, creditsservice.ErrNoSubscription):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no active subscription"))
		case errors.Is(err, creditsservice.ErrNoCredits):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("no credits remaining"))
		case errors.Is(err, generationservice.ErrDraftNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("draft not found"))
		case errors.Is(err, generationservice.ErrDraftPublished):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("draft already published"))
		case errors.Is(err, generationservice.ErrDraftEmpty):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("draft has no generation result"))
		default:
			log.Error("failed to publish draft", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("draft published", slog.String("draft_id", draftID),
		slog.String("article_id", article.ID))
	render.JSON(w, r, response.OKWithData(article))
}
