// Package backoffice собирает и запускает основное HTTP-приложение админ-панели.
package backoffice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lawfirm-backoffice/internal/aiprovider"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/cache"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/config"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/jwt"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/migrations"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/auth"
	contactservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/contact"
	contentservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/content"
	creditsservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/credits"
	generationservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/generation"
	usersservice "github.com/magabrotheeeer/lawfirm-backoffice/internal/services/users"
	"github.com/magabrotheeeer/lawfirm-backoffice/internal/storage/repository"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	rabbitCh *amqp.Channel
	rabbit   *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetLeadQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	generatorClient := aiprovider.NewClient(cfg.GenerationBaseURL, cfg.GenerationAPIKey, cfg.GenerationTimeout)

	authService := authservice.NewAuthService(db, jwtMaker)
	ledgerService := creditsservice.NewLedgerService(db, logger)
	generationService := generationservice.NewGenerationService(db, ledgerService, generatorClient, logger)
	contentService := contentservice.NewContentService(db, cacheRedis, logger)
	contactService := contactservice.NewContactService(db, cacheRedis, ch,
		cfg.ContactRateLimit, cfg.ContactRateWindow, cfg.ContactMinFillin, logger)
	userAdminService := usersservice.NewUserAdminService(db, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, db, authService, ledgerService,
		generationService, contentService, contactService, userAdminService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		rabbitCh: ch,
		rabbit:   conn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.rabbitCh.Close(); cerr != nil {
			a.logger.Error("failed to close rabbitmq channel", sl.Err(cerr))
		}
		if cerr := a.rabbit.Close(); cerr != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(cerr))
		}
		a.db.DB.Close()
		return err
	}
}
