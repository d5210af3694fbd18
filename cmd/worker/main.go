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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/adapters/persistence"
	seoUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/seo"
	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
	"github.com/khoahotran/portfolio-builder/pkg/metrics"
	"github.com/khoahotran/portfolio-builder/pkg/tracing"
)

const (
	serviceName = "portfolio-builder-worker"
	groupID     = "seo-score-group"
	metricsAddr = ":9102"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, serviceName)
	defer func() { _ = appLogger.Sync() }()

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs Kafka", errors.New("kafka.brokers is empty"))
	}
	if cfg.DB.Driver == "memory" {
		appLogger.Fatal("Worker needs a shared store", errors.New("db.driver=memory is not supported by the worker"))
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

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger, cfg.DB.QueryTimeout)

	// Publishing from the worker would loop back into its own topic.
	seoUseCase := seoUC.NewSEOUseCase(profileRepo, event.NopPublisher{}, cfg.App.PublicURL, appLogger)
	processEventUC := seoUC.NewProcessEventUseCase(seoUseCase)
	eventMetrics := metrics.NewEventMetrics(prometheus.DefaultRegisterer)

	metricsSrv := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Metrics server stopped", err)
		}
	}()
	defer func() { _ = metricsSrv.Shutdown(context.Background()) }()

	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range []string{event.TopicProfileEvents, event.TopicProjectEvents} {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		})
		g.Go(func() error {
			defer reader.Close()
			return consume(gctx, reader, processEventUC, eventMetrics, appLogger.With(zap.String("topic", topic)))
		})
	}

	appLogger.Info("Worker listening", zap.Strings("topics", []string{event.TopicProfileEvents, event.TopicProjectEvents}))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Worker stopped", err)
	}
}

// consume handles messages one at a time. Failures are retried with backoff.
// A message that still fails is counted as failed, logged and committed.
func consume(ctx context.Context, reader *kafka.Reader, uc *seoUC.ProcessEventUseCase, m *metrics.EventMetrics, log logger.Logger) error {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("Failed to read message from Kafka", err)
			continue
		}

		out, err := uc.ExecuteWithRetry(ctx, seoUC.ProcessEventInput{Topic: msg.Topic, Value: msg.Value}, seoUC.NewEventBackoff())
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			m.Inc(msg.Topic, "", metrics.OutcomeFailed)
			log.Error("Dropping event after retries", err, zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))
		} else {
			m.Inc(msg.Topic, string(out.EventType), out.Outcome)
			log.Debug("Event handled",
				zap.String("event_type", string(out.EventType)),
				zap.String("outcome", out.Outcome),
				zap.Int64("offset", msg.Offset),
			)
		}

		if err := reader.CommitMessages(context.Background(), msg); err != nil {
			log.Error("Failed to commit message", err)
		}
	}
}
