package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/studystream/internal/config"
	"github.com/hszk-dev/studystream/internal/generator"
	"github.com/hszk-dev/studystream/internal/infrastructure/cache"
	"github.com/hszk-dev/studystream/internal/infrastructure/metrics"
	"github.com/hszk-dev/studystream/internal/infrastructure/postgres"
	"github.com/hszk-dev/studystream/internal/infrastructure/queue"
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

	if !cfg.RabbitMQ.Enabled {
		return fmt.Errorf("worker requires the generation queue; set RABBITMQ_ENABLED=true")
	}

	ctx := context.Background()

	db, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	queueCfg := queue.DefaultClientConfig(cfg.RabbitMQ.URL())
	queueCfg.MaxRetries = cfg.Worker.MaxRetries
	queueClient, err := queue.NewClient(ctx, queueCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to queue: %w", err)
	}
	defer queueClient.Close()

	artifactCache, cacheType, err := setupCache(ctx, cfg)
	if err != nil {
		return err
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
	jobService := usecase.NewJobService(queueClient, artifactService, cumulativeService)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("worker consuming generation tasks")
		errCh <- jobService.Run(runCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("consumer error: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))
	}

	cancel()

	select {
	case <-errCh:
	case <-time.After(cfg.Worker.ShutdownTimeout):
		logger.Warn("shutdown timeout exceeded, exiting")
	}

	logger.Info("worker stopped")
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
