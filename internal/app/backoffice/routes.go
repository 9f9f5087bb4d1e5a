// Package backoffice предоставляет маршруты для основного приложения.
package backoffice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	articlesread "github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/articles/read"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/contact/submit"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/content/create"
	contentlist "github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/content/list"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/content/publish"
	contentread "github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/content/read"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/content/remove"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/content/update"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/generation/generate"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/generation/publishdraft"
	draftread "github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/generation/read"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/generation/regenerate"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/health"
	leadslist "github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/leads/list"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/subscription/plans"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/subscription/status"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/subscription/subscribe"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/users/grantrole"
	userslist "github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/handlers/users/revokerole"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/auth"
	contactservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/contact"
	contentservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/content"
	creditsservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/credits"
	generationservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/generation"
	usersservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/users"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	db *repository.Storage,
	authService *authservice.AuthService,
	ledgerService *creditsservice.LedgerService,
	generationService *generationservice.GenerationService,
	contentService *contentservice.ContentService,
	contactService *contactservice.ContactService,
	userAdminService *usersservice.UserAdminService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/contact", submit.New(logger, contactService).ServeHTTP)
		r.Get("/articles/{slug}", articlesread.New(logger, contentService).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа административной части: JWT, предикат доступа по ролям,
		// ограничение частоты запросов
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.AccessGuardMiddleware("/api/v1", logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/admin/conteudos", create.New(logger, contentService).ServeHTTP)
			r.Get("/admin/conteudos", contentlist.New(logger, contentService).ServeHTTP)
			r.Get("/admin/conteudos/{id}", contentread.New(logger, contentService).ServeHTTP)
			r.Put("/admin/conteudos/{id}", update.New(logger, contentService).ServeHTTP)
			r.Delete("/admin/conteudos/{id}", remove.New(logger, contentService).ServeHTTP)
			r.Post("/admin/conteudos/{id}/publicar", publish.New(logger, contentService).ServeHTTP)

			r.Post("/admin/blog/gerar", generate.New(logger, generationService).ServeHTTP)
			r.Get("/admin/blog/{id}", draftread.New(logger, generationService).ServeHTTP)
			r.Post("/admin/blog/{id}/regenerar", regenerate.New(logger, generationService).ServeHTTP)
			r.Post("/admin/blog/{id}/publicar", publishdraft.New(logger, generationService).ServeHTTP)

			r.Get("/admin/assinatura", status.New(logger, ledgerService).ServeHTTP)
			r.Post("/admin/assinatura", subscribe.New(logger, ledgerService).ServeHTTP)
			r.Get("/admin/assinatura/planos", plans.New(logger, ledgerService).ServeHTTP)

			r.Get("/admin/usuarios", userslist.New(logger, userAdminService).ServeHTTP)
			r.Post("/admin/usuarios/{uid}/roles", grantrole.New(logger, userAdminService).ServeHTTP)
			r.Delete("/admin/usuarios/{uid}/roles/{role}", revokerole.New(logger, userAdminService).ServeHTTP)

			r.Get("/admin/leads", leadslist.New(logger, contactService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
