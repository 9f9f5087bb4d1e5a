package middlewarectx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/access"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/response"
)

// AccessGuardMiddleware создает middleware, которое проверяет доступ к путям
// админ-панели по таблице префиксов. Префикс API отрезается от пути запроса,
// так что таблица описывает пути в виде /admin/....
func AccessGuardMiddleware(apiPrefix string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "auth.AccessGuardMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			identity, _ := r.Context().Value(User).(string)
			roles, _ := r.Context().Value(Roles).([]string)
			path := strings.TrimPrefix(r.URL.Path, apiPrefix)

			result := access.Resolve(identity, roles, path)
			switch result.Decision {
			case access.Allow:
				next.ServeHTTP(w, r)
			case access.DenyUnauthenticated:
				log.Warn("unauthenticated access attempt", slog.String("path", path))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.ErrorWithRedirect("authentication required", result.RedirectTo))
			case access.DenyNoAccess:
				log.Warn("no backoffice roles", slog.String("path", path))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
			case access.DenyPath:
				log.Warn("roles do not permit path",
					slog.String("path", path), slog.Any("roles", roles))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.ErrorWithRedirect("access denied", result.RedirectTo))
			}
		})
	}
}
