// Package submit реализует HTTP-обработчик приёма обращений с контактной формы.
//
// Обработчик декодирует и валидирует поля формы, определяет адрес источника
// и передаёт обращение сервису, который отвечает за фильтрацию автоматических
// отправок, ограничение частоты и пересылку письма в офис.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/response"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
	contactservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/contact"
)

// Handler обрабатывает HTTP-запросы контактной формы.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики приёма обращений.
type Service interface {
	Submit(ctx context.Context, req models.ContactRequest, sourceIP string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправка обращения с контактной формы
// @Description Принимает обращение посетителя сайта и пересылает его в офис.
// @Tags Contact
// @Accept  json
// @Produce  json
// @Param request body models.ContactRequest true "Данные обращения"
// @Success 200 {object} response.Response "Обращение принято"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или отклонённое содержимое"
// @Failure 429 {object} response.ErrorResponse "Слишком много отправок"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Failure 502 {object} response.ErrorResponse "Обращение сохранено, но рассылка недоступна"
// @Router /contact [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
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

	sourceIP := clientIP(r)
	err := h.service.Submit(r.Context(), req, sourceIP)
	switch {
	case err == nil:
		render.JSON(w, r, response.OKWithData(map[string]any{
			"message": "your message has been received",
		}))
	case errors.Is(err, contactservice.ErrTooFast):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("submission rejected"))
	case errors.Is(err, contactservice.ErrSpamContent):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("submission rejected"))
	case errors.Is(err, contactservice.ErrRateLimited):
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.Error("too many submissions, try again later"))
	case errors.Is(err, contactservice.ErrRelayFailed):
		log.Error("lead stored but relay failed", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("message stored but could not be relayed"))
	default:
		log.Error("failed to process submission", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
	}
}

// clientIP возвращает адрес источника: первый адрес из X-Forwarded-For,
// если прокси его проставил, иначе адрес соединения.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
