package main

import (
	"context"
	"path/filepath"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"nicecatcher/internal/auth"
	"nicecatcher/internal/config"
	"nicecatcher/internal/database"
	handlers "nicecatcher/internal/http/handler"
	"nicecatcher/internal/http/middleware"
	"nicecatcher/internal/otel"
	"nicecatcher/internal/repository"
	"nicecatcher/internal/repository/localfile"
	"nicecatcher/internal/repository/postgres"
	"nicecatcher/internal/service"
	"nicecatcher/internal/storage"
	"nicecatcher/internal/transcriber"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()
	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing(ctx)

	// The deployment mode decides every adapter once, here. Nothing below
	// this block branches on it again.
	var (
		memos      repository.MemoRepository
		projects   repository.ProjectRepository
		audioStore storage.Storage
		mediaStore storage.Storage
		verifier   auth.Verifier
		stt        transcriber.Transcriber
	)
	if cfg.UseMock {
		memoStore, err := localfile.NewMemoStore(cfg.DataDir)
		if err != nil {
			logger.Fatal("failed to open memo store", zap.Error(err))
		}
		projectStore, err := localfile.NewProjectStore(cfg.DataDir)
		if err != nil {
			logger.Fatal("failed to open project store", zap.Error(err))
		}
		audioStore, err = storage.NewLocalDisk(filepath.Join(cfg.DataDir, "audio"))
		if err != nil {
			logger.Fatal("failed to open audio directory", zap.Error(err))
		}
		mediaStore, err = storage.NewLocalDisk(filepath.Join(cfg.DataDir, "media"))
		if err != nil {
			logger.Fatal("failed to open media directory", zap.Error(err))
		}

		memos = memoStore
		projects = projectStore
		verifier = auth.NewJWTVerifier(cfg.LocalJWTSecret)
		stt = transcriber.NewMock()
		logger.Info("running in mock mode", zap.String("data_dir", cfg.DataDir))
	} else {
		// Initialize PostgreSQL connection (with pooling via database/sql)
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}

		// One S3-compatible client serves both buckets (MinIO-supported)
		minioClient, err := storage.NewMinIOClient(cfg.MinIO)
		if err != nil {
			logger.Fatal("failed to initialize object storage", zap.Error(err))
		}
		audioStore, err = storage.NewMinIO(minioClient, cfg.MinIO.AudioBucket)
		if err != nil {
			logger.Fatal("failed to open audio bucket", zap.Error(err))
		}
		mediaStore, err = storage.NewMinIO(minioClient, cfg.MinIO.MediaBucket)
		if err != nil {
			logger.Fatal("failed to open media bucket", zap.Error(err))
		}

		memos = postgres.NewMemoPostgres(db)
		projects = postgres.NewProjectPostgres(db)
		verifier = auth.NewSupabaseVerifier(cfg.Supabase.URL, cfg.Supabase.Key)
		stt = transcriber.NewClient(
			cfg.Transcription.Token,
			cfg.Transcription.BaseURL,
			cfg.Transcription.FileField,
			cfg.Transcription.Model,
		)
	}

	memoSvc := service.NewMemoService(service.Deps{
		Memos:       memos,
		Projects:    projects,
		AudioStore:  audioStore,
		MediaStore:  mediaStore,
		Transcriber: stt,
		SignTTL:     cfg.SignedURLTTL,
		Logger:      logger,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Five 50 MiB media files plus multipart overhead must fit in one
		// request.
		BodyLimit: 260 << 20,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(otelfiber.Middleware())

	registry := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}
	app.Use(promMiddleware.Handler())

	// Registered before RegisterRoutes: the SPA fallback there claims every
	// remaining GET.
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, memoSvc, verifier, cfg.StaticDir)

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
