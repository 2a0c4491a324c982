package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/quote-service/internal/api/http"
	"github.com/spec-kit/quote-service/internal/api/http/handlers"
	"github.com/spec-kit/quote-service/internal/auth"
	"github.com/spec-kit/quote-service/internal/blob"
	"github.com/spec-kit/quote-service/internal/config"
	"github.com/spec-kit/quote-service/internal/events"
	"github.com/spec-kit/quote-service/internal/observability"
	"github.com/spec-kit/quote-service/internal/persistence"
	"github.com/spec-kit/quote-service/internal/repository"
	"github.com/spec-kit/quote-service/internal/service"
	"github.com/spec-kit/quote-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(pg.DB, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	store, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init blob store", zap.Error(err))
	}
	logger.Info("blob store ready", zap.String("backend", store.Name()), zap.String("base_dir", cfg.Storage.BaseDir))

	userRepo := repository.NewUserRepository(pg.DB)
	quoteRepo := repository.NewQuoteRepository(pg.DB)
	objectRepo := repository.NewBlobObjectRepository(pg.DB)

	sessions := auth.NewRedisSessionStore(redis.Client, cfg.Auth.SessionTTL)
	cookies := auth.NewCookieSigner(cfg.Auth.SessionSecret, cfg.Auth.CookieName, cfg.Auth.CookieSecure, cfg.Auth.SessionTTL)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(dispatcher, cfg.Notification, logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Sessions: sessions,
		Logger:   logger,
	})
	quoteService := service.NewQuoteService(service.QuoteDependencies{
		QuoteRepo:         quoteRepo,
		UserRepo:          userRepo,
		Dispatcher:        dispatcher,
		StrictTransitions: cfg.Quotes.StrictTransitions,
		Logger:            logger.Named("quotes"),
	})
	uploadService := service.NewUploadService(service.UploadDependencies{
		Store:          store,
		ObjectRepo:     objectRepo,
		BaseDir:        cfg.Storage.BaseDir,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		Logger:         logger.Named("uploads"),
	})
	reportService := service.NewReportService()

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:        handlers.NewAuthHandler(authService, cookies),
		Quotes:      handlers.NewQuotesHandler(quoteService, uploadService, reportService),
		AdminQuotes: handlers.NewAdminQuotesHandler(quoteService, uploadService, reportService),
		Objects:     handlers.NewObjectsHandler(uploadService),
		Sessions:    auth.NewSessionMiddleware(sessions, cookies, userRepo, logger.Named("sessions")),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("graceful shutdown incomplete", zap.Error(err))
	}
	logger.Info("request counters at shutdown", zap.Any("metrics", metrics.Snapshot()))
}

func newBlobStore(ctx context.Context, cfg config.StorageConfig) (blob.Store, error) {
	switch cfg.Backend {
	case config.StorageWebDAV:
		return blob.NewWebDAVStore(blob.WebDAVConfig{
			URL:      cfg.WebDAV.URL,
			Username: cfg.WebDAV.Username,
			Password: cfg.WebDAV.Password,
			Timeout:  cfg.WebDAV.Timeout,
		}), nil
	case config.StorageS3:
		return blob.NewS3Store(ctx, blob.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
