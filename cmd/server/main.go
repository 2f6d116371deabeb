package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scholarsearch/retrieval-platform/internal/analytics"
	"github.com/scholarsearch/retrieval-platform/internal/corpus"
	"github.com/scholarsearch/retrieval-platform/internal/engine"
	"github.com/scholarsearch/retrieval-platform/internal/server/cache"
	"github.com/scholarsearch/retrieval-platform/internal/server/handler"
	"github.com/scholarsearch/retrieval-platform/pkg/config"
	"github.com/scholarsearch/retrieval-platform/pkg/health"
	"github.com/scholarsearch/retrieval-platform/pkg/kafka"
	"github.com/scholarsearch/retrieval-platform/pkg/logger"
	"github.com/scholarsearch/retrieval-platform/pkg/metrics"
	"github.com/scholarsearch/retrieval-platform/pkg/middleware"
	"github.com/scholarsearch/retrieval-platform/pkg/postgres"
	pkgredis "github.com/scholarsearch/retrieval-platform/pkg/redis"
	"github.com/scholarsearch/retrieval-platform/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting retrieval service", "port", cfg.Server.Port, "corpus_source", cfg.Corpus.Source)

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownMetrics(ctx)
		}()
	}

	docs, err := loadCorpus(cfg)
	if err != nil {
		slog.Error("failed to load corpus", "error", err)
		os.Exit(1)
	}
	slog.Info("corpus loaded", "documents", len(docs))

	buildStart := time.Now()
	eng := engine.Load(docs)
	m.IndexBuildDuration.Observe(time.Since(buildStart).Seconds())
	m.DocumentsLoaded.Set(float64(len(docs)))

	var queryCache *cache.RankedCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var collector *analytics.Collector
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.SearchEvents)
		defer producer.Close()
		collector = analytics.NewCollector(producer, 10000)
		collector.Start(ctx)
		defer collector.Close()
		slog.Info("search analytics enabled", "topic", cfg.Kafka.SearchEvents)
	}

	checker := health.NewChecker()
	checker.Register("engine", func(ctx context.Context) health.ComponentHealth {
		stats := eng.Stats()
		if stats.DocumentCount == 0 {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "empty corpus"}
		}
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents indexed", stats.DocumentCount),
		}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(eng, queryCache, collector, m, cfg.Search)
	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("retrieval service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	// ListenAndServe returns as soon as Shutdown is called; wait for it to
	// finish so in-flight handlers complete before the deferred teardown of
	// the collector and clients runs.
	<-shutdownDone
	slog.Info("retrieval service stopped")
}

// loadCorpus reads the document collection from the configured source. A
// missing corpus directory is seeded with sample documents when configured,
// so a fresh checkout serves something out of the box.
func loadCorpus(cfg *config.Config) ([]engine.InputDocument, error) {
	switch cfg.Corpus.Source {
	case config.CorpusSourcePostgres:
		var client *postgres.Client
		err := resilience.Retry(context.Background(), "postgres-connect", resilience.RetryConfig{}, func() error {
			var err error
			client, err = postgres.New(cfg.Postgres)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres corpus: %w", err)
		}
		defer client.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return corpus.LoadPostgres(ctx, client, cfg.Corpus.Table)
	default:
		if _, err := os.Stat(cfg.Corpus.Dir); os.IsNotExist(err) && cfg.Corpus.SeedSamples {
			slog.Info("corpus directory missing, seeding sample documents", "dir", cfg.Corpus.Dir)
			if err := corpus.WriteSampleDocuments(cfg.Corpus.Dir); err != nil {
				return nil, err
			}
		}
		return corpus.LoadDirectory(cfg.Corpus.Dir)
	}
}
