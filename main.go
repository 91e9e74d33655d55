package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"sals-backend/internal/config"
	"sals-backend/internal/cvanalysis"
	"sals-backend/internal/database"
	"sals-backend/internal/handlers"
	"sals-backend/internal/logging"
	"sals-backend/internal/middleware"
	"sals-backend/internal/payments"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.Load(); err != nil {
		log.Fatal(err)
	}
	cfg := config.AppEnv

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger := logging.WithModule("main")

	if err := cfg.CollaboratorWarnings(); err != nil {
		logger.Warn(err)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			AttachStacktrace: true,
		}); err != nil {
			logger.WithError(err).Warn("sentry initialization failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.WithError(err).Fatal("store unavailable")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.WithError(err).Warn("store close failed")
		}
	}()

	analyzer := cvanalysis.NewAnalyzer(
		cvanalysis.NewOCRClient(cfg.OCRURL, cfg.OCRAPIKey),
		cvanalysis.NewLLMClient(cvanalysis.LLMConfig{
			BaseURL: cfg.OpenAIAPIBase,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.LLMTimeout,
		}),
	)
	gateway := payments.NewTapClient(payments.TapConfig{
		BaseURL:         cfg.TapBaseURL,
		APIKey:          cfg.TapAPIKey,
		Currency:        cfg.PaymentCurrency,
		Timeout:         cfg.PaymentTimeout,
		WebhookBaseURL:  cfg.WebhookBaseURL,
		RedirectBaseURL: cfg.SuccessRedirectBaseURL,
	})

	r := gin.New()
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Sentry())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.RateLimitEnabled {
		r.Use(middleware.NewRateLimiter().Middleware())
	}

	api := r.Group("/api")
	handlers.RegisterRoutes(api, handlers.NewDeps(store, analyzer, gateway))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", srv.Addr).WithField("store", cfg.StoreDriver).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func openStore(cfg config.Config) (database.Store, error) {
	if cfg.StoreDriver != config.StoreMongo {
		logging.WithModule("main").WithField("path", cfg.DBFile).Info("using file store")
		return database.NewFileStore(cfg.DBFile), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}

	coll := client.Database(cfg.DBName).Collection(cfg.DocumentCollection)
	if err := database.EnsureDocument(ctx, coll); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logging.WithModuleAndCollection("main", coll.Name()).Info("MongoDB connected to: " + cfg.DBName)
	return database.NewMongoStore(client, coll), nil
}
