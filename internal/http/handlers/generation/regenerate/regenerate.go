// Package regenerate реализует HTTP-обработчик перегенерации черновика статьи.
//
// Черновик можно перегенерировать не более пяти раз; превышение предела
// возвращает 422 с пояснением. Перегенерация расходует дневную квоту
// попыток, но не кредиты публикации.
package regenerate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/aiprovider"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/response"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
	creditsservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/credits"
	generationservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/generation"
)

// Handler управляет HTTP-запросами на перегенерацию черновиков.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс перегенерации черновика.
type Service interface {
	Regenerate(ctx context.Context, userUID, draftID string, params models.GenerationParams) (*models.Draft, error)
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
// @Summary Перегенерировать черновик
// @Description Повторно генерирует черновик с обновлёнными параметрами. Не более 5 перегенераций на черновик.
// @Tags Generation
// @Accept  json
// @Produce  json
// @Param id path string true "ID черновика"
// @Param request body models.GenerateRequest true "Обновлённые параметры генерации"
// @Success 200 {object} response.Response "Обновлённый черновик"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет активной подписки"
// @Failure 404 {object} response.ErrorResponse "Черновик не найден"
// @Failure 409 {object} response.ErrorResponse "Черновик уже опубликован"
// @Failure 422 {object} response.ErrorResponse "Предел перегенераций исчерпан"
// @Failure 429 {object} response.ErrorResponse "Превышена дневная квота генераций"
// @Failure 502 {object} response.ErrorResponse "Генерационный бэкенд недоступен"
// @Router /admin/blog/{id}/regenerar [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generation.regenerate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.GenerateRequest
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	draftID := chi.URLParam(r, "id")
	params := models.GenerationParams{
		Topic:        req.Topic,
		Audience:     req.Audience,
		Region:       req.Region,
		Keywords:     req.Keywords,
		Tone:         req.Tone,
		Length:       req.Length,
		CallToAction: req.CallToAction,
	}

	draft, err := h.service.Regenerate(r.Context(), userUID, draftID, params)
	if err != nil {
		switch {
		case errors.Is(err, creditsservice.ErrNoSubscription):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no active subscription"))
		case errors.Is(err, generationservice.ErrDailyLimit):
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.Error("daily generation limit reached"))
		case errors.Is(err, generationservice.ErrRegenLimit):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("regeneration limit reached"))
		case errors.Is(err, generationservice.ErrDraftNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("draft not found"))
		case errors.Is(err, generationservice.ErrDraftPublished):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("draft already published"))
		case errors.Is(err, aiprovider.ErrUpstream):
			log.Error("generation backend failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("generation backend unavailable"))
		default:
			log.Error("regeneration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("draft regenerated", slog.String("draft_id", draft.ID),
		slog.Int("regeneration_count", draft.RegenerationCount))
	render.JSON(w, r, response.OKWithData(draft))
}
