package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/studystream/internal/api/handler"
	"github.com/hszk-dev/studystream/internal/api/middleware"
	"github.com/hszk-dev/studystream/internal/captions"
	"github.com/hszk-dev/studystream/internal/config"
	"github.com/hszk-dev/studystream/internal/domain/repository"
	"github.com/hszk-dev/studystream/internal/generator"
	"github.com/hszk-dev/studystream/internal/infrastructure/cache"
	"github.com/hszk-dev/studystream/internal/infrastructure/metrics"
	"github.com/hszk-dev/studystream/internal/infrastructure/postgres"
	"github.com/hszk-dev/studystream/internal/infrastructure/queue"
	"github.com/hszk-dev/studystream/internal/infrastructure/storage"
	"github.com/hszk-dev/studystream/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	db, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	artifactCache, cacheType, err := setupCache(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("cache backend selected", slog.String("type", cacheType))

	// The queue is optional. Connection failure degrades the API to
	// synchronous generation instead of refusing to start.
	var generationQueue repository.GenerationQueue
	if cfg.RabbitMQ.Enabled {
		queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
		if err != nil {
			logger.Warn("generation queue unavailable, running degraded",
				slog.String("error", err.Error()))
		} else {
			generationQueue = queueClient
			defer queueClient.Close()
		}
	}

	captionStorage, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to object storage: %w", err)
	}

	gen := generator.NewOpenAIGenerator(generator.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	})

	subjects := postgres.NewSubjectRepository(db.Pool())
	transcripts := postgres.NewTranscriptRepository(db.Pool())
	artifacts := postgres.NewArtifactRepository(db.Pool())
	cumulatives := postgres.NewCumulativeRepository(db.Pool())

	artifactService := usecase.NewArtifactService(subjects, transcripts, artifacts, gen, artifactCache, usecase.ArtifactServiceConfig{
		CacheTTL:  cfg.Cache.ArtifactTTL,
		CacheType: cacheType,
	})
	cumulativeService := usecase.NewCumulativeService(subjects, usecase.NewSeriesService(subjects), artifacts, cumulatives, artifactCache, usecase.CumulativeServiceConfig{
		CacheTTL:               cfg.Cache.CumulativeTTL,
		MemberFetchConcurrency: 4,
	})
	transcriptService := usecase.NewTranscriptService(subjects, transcripts, captionStorage, captions.NewParser())
	jobService := usecase.NewJobService(generationQueue, artifactService, cumulativeService)

	r := setupRouter(logger, db, artifactCache, artifactService, cumulativeService, transcriptService, jobService)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupCache(ctx context.Context, cfg *config.Config) (cache.ArtifactCache, string, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(cache.MemoryCacheConfig{
			SweepInterval: cfg.Cache.SweepInterval,
		}), metrics.CacheTypeMemory, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, "", fmt.Errorf("failed to ping redis: %w", err)
	}
	return cache.NewRedisCache(client), metrics.CacheTypeRedis, nil
}

func setupRouter(
	logger *slog.Logger,
	db *postgres.Client,
	artifactCache cache.ArtifactCache,
	artifactService usecase.ArtifactService,
	cumulativeService usecase.CumulativeService,
	transcriptService usecase.TranscriptService,
	jobService *usecase.JobService,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Readiness(db))
	r.Handle("/metrics", promhttp.Handler())

	artifactHandler := handler.NewArtifactHandler(artifactService, jobService)
	cumulativeHandler := handler.NewCumulativeHandler(cumulativeService, jobService)
	transcriptHandler := handler.NewTranscriptHandler(transcriptService)
	adminHandler := handler.NewAdminHandler(artifactCache, jobService)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/subjects/{id}", func(r chi.Router) {
			r.Route("/transcripts", func(r chi.Router) {
				r.Delete("/", transcriptHandler.DeleteBySubject)
				r.Get("/{lang}", transcriptHandler.Get)
				r.Put("/{lang}", transcriptHandler.Upload)
				r.Post("/{lang}/extract", transcriptHandler.Extract)
				r.Delete("/{lang}", transcriptHandler.Delete)
			})

			r.Route("/artifacts/{kind}", func(r chi.Router) {
				r.Get("/", artifactHandler.Get)
				r.Post("/generate", artifactHandler.Generate)
				r.Post("/moderation", artifactHandler.Moderate)
				r.Delete("/", artifactHandler.Delete)
			})

			r.Route("/cumulative-quiz", func(r chi.Router) {
				r.Get("/", cumulativeHandler.Get)
				r.Post("/generate", cumulativeHandler.Generate)
				r.Post("/moderation", cumulativeHandler.Moderate)
				r.Delete("/", cumulativeHandler.Delete)
			})
		})

		r.Delete("/artifacts/{kind}", artifactHandler.DeleteAll)
		r.Delete("/cumulative-quizzes", cumulativeHandler.DeleteAll)

		r.Get("/cache/stats", adminHandler.CacheStats)
		r.Post("/cache/clear", adminHandler.CacheClear)
		r.Get("/queue/stats", adminHandler.QueueStats)
	})

	return r
}
