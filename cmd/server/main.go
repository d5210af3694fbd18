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

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	httpAdapter "github.com/khoahotran/portfolio-builder/adapters/http"
	"github.com/khoahotran/portfolio-builder/adapters/media_storage"
	"github.com/khoahotran/portfolio-builder/adapters/persistence"
	"github.com/khoahotran/portfolio-builder/adapters/provider"
	"github.com/khoahotran/portfolio-builder/internal/application/service"
	authUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/auth"
	integrationUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/integration"
	mediaUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/media"
	portfolioUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/portfolio"
	profileUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/profile"
	projectUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/project"
	seoUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/seo"
	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/internal/domain/integration"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/internal/domain/project"
	"github.com/khoahotran/portfolio-builder/pkg/auth"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
	"github.com/khoahotran/portfolio-builder/pkg/metrics"
	"github.com/khoahotran/portfolio-builder/pkg/tracing"
)

const serviceName = "portfolio-builder-api"

type repositories struct {
	profiles     profile.Repository
	projects     project.Repository
	integrations integration.Repository
}

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, serviceName)
	defer func() { _ = appLogger.Sync() }()

	if cfg.Auth.JWTSecret == "" {
		appLogger.Fatal("JWT secret is not configured", errors.New("auth.jwt_secret is empty"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", err)
		}
	}()

	// Storage
	repos, closeStore := openStore(ctx, cfg, appLogger)
	defer closeStore()

	var rateCounter httpAdapter.RateCounter = persistence.NewMemoryRateCounter()
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
		rateCounter = persistence.NewRedisRateCounter(redisClient)
	}

	// Events
	var publisher event.Publisher = event.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	var uploader service.Uploader
	if u, err := media_storage.NewCloudinaryAdapter(cfg, appLogger); err != nil {
		appLogger.Warn("Uploads disabled", zap.Error(err))
	} else {
		uploader = u
	}
	providerAPI := provider.NewClient()

	// Use cases
	profileUseCase := profileUC.NewProfileUseCase(repos.profiles, publisher, appLogger)
	handlers := httpAdapter.Handlers{
		Auth: httpAdapter.NewAuthHandler(
			authUC.NewRegisterUseCase(repos.profiles, jwtSvc, publisher, cfg.Auth.BcryptCost, appLogger),
			authUC.NewLoginUseCase(repos.profiles, jwtSvc, appLogger),
		),
		Profile: httpAdapter.NewProfileHandler(profileUseCase, appLogger),
		Portfolio: httpAdapter.NewPortfolioHandler(
			portfolioUC.NewPortfolioUseCase(repos.profiles, repos.projects, cfg.App.PublicURL, appLogger),
			profileUseCase,
			appLogger,
		),
		Project: httpAdapter.NewProjectHandler(
			projectUC.NewCreateProjectUseCase(repos.projects, publisher, appLogger),
			projectUC.NewListProjectsUseCase(repos.projects),
			projectUC.NewGetProjectUseCase(repos.projects),
			projectUC.NewUpdateProjectUseCase(repos.projects, publisher, appLogger),
			projectUC.NewDeleteProjectUseCase(repos.projects, publisher, appLogger),
			appLogger,
		),
		Integration: httpAdapter.NewIntegrationHandler(integrationUC.NewIntegrationUseCase(
			repos.integrations,
			repos.profiles,
			integrationUC.OAuthConfigs(cfg),
			providerAPI,
			publisher,
			appLogger,
		)),
		SEO:    httpAdapter.NewSEOHandler(seoUC.NewSEOUseCase(repos.profiles, publisher, cfg.App.PublicURL, appLogger)),
		Upload: httpAdapter.NewUploadHandler(mediaUC.NewUploadAssetUseCase(repos.profiles, uploader, publisher, appLogger), appLogger),
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Config:      cfg,
		Logger:      appLogger,
		JWT:         jwtSvc,
		RateCounter: rateCounter,
		Metrics:     metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Gatherer:    prometheus.DefaultGatherer,
		Handlers:    handlers,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}

// openStore picks Postgres, or the in-process store when db.driver is
// "memory".
func openStore(ctx context.Context, cfg config.Config, log logger.Logger) (repositories, func()) {
	if cfg.DB.Driver == "memory" {
		log.Warn("Using in-memory store, data is lost on restart")
		store := persistence.NewMemoryStore()
		return repositories{
			profiles:     store.Profiles(),
			projects:     store.Projects(),
			integrations: store.Integrations(),
		}, func() {}
	}

	dbPool, err := persistence.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal("Cannot connect Postgres", err)
	}
	timeout := cfg.DB.QueryTimeout
	return repositories{
		profiles:     persistence.NewPostgresProfileRepo(dbPool, log, timeout),
		projects:     persistence.NewPostgresProjectRepo(dbPool, log, timeout),
		integrations: persistence.NewPostgresIntegrationRepo(dbPool, log, timeout),
	}, dbPool.Close
}
