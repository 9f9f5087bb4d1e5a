// Package generate реализует HTTP-обработчик запуска мастера генерации статьи.
//
// Handler принимает параметры промпта, проверяет их и передаёт сервису,
// который следит за подпиской, дневной квотой и обращением к генерационному
// бэкенду. Отказы квот транслируются в выделенные HTTP-статусы.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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

// Handler управляет HTTP-запросами на генерацию статей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс мастера генерации.
type Service interface {
	Generate(ctx context.Context, userUID string, params models.GenerationParams) (*models.Draft, error)
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
// @Summary Сгенерировать черновик статьи
// @Description Запускает генерацию статьи по структурированным параметрам промпта.
// @Tags Generation
// @Accept  json
// @Produce  json
// @Param request body models.GenerateRequest true "Параметры генерации"
// @Success 200 {object} response.Response "Созданный черновик"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет активной подписки"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Превышена дневная квота генераций"
// @Failure 502 {object} response.ErrorResponse "Генерационный бэкенд недоступен"
// @Router /admin/blog/gerar [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generation.generate"

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

	params := models.GenerationParams{
		Topic:        req.Topic,
		Audience:     req.Audience,
		Region:       req.Region,
		Keywords:     req.Keywords,
		Tone:         req.Tone,
		Length:       req.Length,
		CallToAction: req.CallToAction,
	}

	draft, err := h.service.Generate(r.Context(), userUID, params)
	if err != nil {
		writeGenerationError(w, r, log, err)
		return
	}

	log.Info("draft generated", slog.String("draft_id", draft.ID))
	render.JSON(w, r, response.OKWithData(draft))
}

// writeGenerationError транслирует ошибки мастера генерации в HTTP-статусы.
// Используется обработчиками генерации и перегенерации.
func writeGenerationError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
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
		log.Error("generation failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
	}
}
