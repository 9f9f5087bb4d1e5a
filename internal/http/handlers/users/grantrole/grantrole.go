// Package grantrole реализует HTTP-обработчик назначения роли пользователю.
// Роли аддитивны: назначение не снимает уже выданных ролей.
package grantrole

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

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/response"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/models"
	usersservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/users"
)

// Handler управляет HTTP-запросами назначения ролей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс назначения ролей.
type Service interface {
	GrantRole(ctx context.Context, userUID, role string) error
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
// @Summary Назначить роль
// @Description Назначает пользователю роль из перечня допустимых.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param uid path string true "Идентификатор пользователя"
// @Param request body models.GrantRoleRequest true "Назначаемая роль"
// @Success 200 {object} response.Response "Роль назначена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Неизвестная роль"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/usuarios/{uid}/roles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.grantrole"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.GrantRoleRequest
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

	uid := chi.URLParam(r, "uid")
	if err := h.service.GrantRole(r.Context(), uid, req.Role); err != nil {
		if errors.Is(err, usersservice.ErrUnknownRole) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown role"))
			return
		}
		log.Error("failed to grant role", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not grant role"))
		return
	}

	log.Info("role granted", slog.String("uid", uid), slog.String("role", req.Role))
	render.JSON(w, r, response.OK())
}
