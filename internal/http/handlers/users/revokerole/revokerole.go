// Package revokerole реализует HTTP-обработчик отзыва роли у пользователя.
package revokerole

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
	usersservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/users"
)

// Handler управляет HTTP-запросами отзыва ролей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс отзыва ролей.
type Service interface {
	RevokeRole(ctx context.Context, userUID, role string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отозвать роль
// @Description Отзывает у пользователя указанную роль.
// @Tags Users
// @Produce  json
// @Param uid path string true "Идентификатор пользователя"
// @Param role path string true "Отзываемая роль"
// @Success 200 {object} response.Response "Роль отозвана"
// @Failure 404 {object} response.ErrorResponse "Роль не была назначена"
// @Failure 422 {object} response.ErrorResponse "Неизвестная роль"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/usuarios/{uid}/roles/{role} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.revokerole"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	role := chi.URLParam(r, "role")

	if err := h.service.RevokeRole(r.Context(), uid, role); err != nil {
		switch {
		case errors.Is(err, usersservice.ErrUnknownRole):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown role"))
		case errors.Is(err, usersservice.ErrRoleNotGranted):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("role not granted"))
		default:
			log.Error("failed to revoke role", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not revoke role"))
		}
		return
	}

	log.Info("role revoked", slog.String("uid", uid), slog.String("role", role))
	render.JSON(w, r, response.OK())
}
