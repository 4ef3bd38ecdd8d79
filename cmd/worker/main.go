package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/clipbrief/clipbrief/internal/cache"
	"github.com/clipbrief/clipbrief/internal/config"
	"github.com/clipbrief/clipbrief/internal/database"
	"github.com/clipbrief/clipbrief/internal/media"
	"github.com/clipbrief/clipbrief/internal/queue"
	"github.com/clipbrief/clipbrief/internal/queue/workers"
	"github.com/clipbrief/clipbrief/internal/quota"
	"github.com/clipbrief/clipbrief/internal/stt"
	"github.com/clipbrief/clipbrief/internal/transcribe"
	"github.com/clipbrief/clipbrief/internal/uploads"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pipeline := transcribe.NewPipeline(
		media.NewFFmpeg(cfg.Media.FFmpegPath),
		stt.NewWhisper(cfg.STT),
		cfg.Transcribe.SegmentSeconds,
		cfg.Transcribe.MaxChars,
		cfg.Media.WorkDir,
	)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	gate := quota.NewGate(quota.NewPGStore(db), cache.New(rdb), cfg.Quota.FreeUploadLimit)
	transcriber := workers.NewTranscriber(pipeline, uploads.NewService(db), gate)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// Transcription runs ffmpeg plus one STT call per segment;
			// keep concurrency modest.
			Concurrency: 4,
		},
	)

	registry := queue.NewRegistry()
	registry.Register(queue.TypeVideoTranscribe, asynq.HandlerFunc(transcriber.ProcessTask))

	slog.Info("starting worker", "concurrency", 4)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
