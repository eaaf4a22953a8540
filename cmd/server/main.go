package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amie-dev/cloudinary-saas/internal/api"
	"github.com/Amie-dev/cloudinary-saas/internal/auth"
	"github.com/Amie-dev/cloudinary-saas/internal/config"
	"github.com/Amie-dev/cloudinary-saas/internal/logger"
	"github.com/Amie-dev/cloudinary-saas/internal/metrics"
	"github.com/Amie-dev/cloudinary-saas/internal/repository"
	"github.com/Amie-dev/cloudinary-saas/internal/repository/mongo"
	"github.com/Amie-dev/cloudinary-saas/internal/repository/sqldb"
	"github.com/Amie-dev/cloudinary-saas/internal/service"
	"github.com/Amie-dev/cloudinary-saas/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title Cloudinary SaaS API
// @version 1.0
// @description Upload videos for compression and images for social media exports.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name __session
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "cloudinary-saas",
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
	})
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		log.Fatal(ctx, "invalid configuration", err)
	}
	log.Info(log.WithFields(ctx, map[string]any{
		"db_driver":      cfg.Database.Driver,
		"media_provider": cfg.Media.Provider,
		"compensation":   cfg.Media.Compensation,
	}), "configuration loaded")

	// --- Video store ---
	videoRepo, err := openVideoRepository(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(ctx, "could not open video store", err)
	}
	defer func() {
		if err := videoRepo.Close(context.Background()); err != nil {
			log.Error(ctx, "failed to close video store", err)
		}
	}()

	// --- Media service ---
	media, err := openMediaStorage(ctx, cfg.Media, log)
	if err != nil {
		log.Fatal(ctx, "could not initialize media storage", err)
	}
	if !media.Configured() {
		log.Warn(ctx, "media service credentials not found; uploads will fail until they are set")
	}

	// --- Session verification ---
	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		log.Fatal(ctx, "could not initialize session verifier", err)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	uploadMetrics := metrics.NewUploadMetrics(registry)

	// --- Services ---
	videoService := service.NewVideoService(videoRepo, media, uploadMetrics, log, cfg.Media)
	imageService := service.NewImageService(media, uploadMetrics, log, cfg.Media.ImageFolder)

	// --- HTTP ---
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewRouter(api.Dependencies{
		Config:       cfg,
		Log:          log,
		Verifier:     verifier,
		VideoService: videoService,
		ImageService: imageService,
		Health:       videoRepo,
		Gatherer:     registry,
	})
	if err != nil {
		log.Fatal(ctx, "could not build router", err)
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// --- Graceful Shutdown ---
	go func() {
		log.Info(log.WithField(ctx, "addr", cfg.Server.Address), "server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(ctx, "listen and serve", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info(ctx, "shutting down server")

	// The server has 5 seconds to finish the requests it is currently handling
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error(ctx, "server forced to shutdown", err)
	}
	log.Info(ctx, "server exited")
}

func openVideoRepository(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (repository.VideoRepository, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(ctx, cfg.URI)
		if err != nil {
			return nil, err
		}
		appDB := client.Database(cfg.Name)

		indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongo.EnsureVideoIndexes(indexCtx, appDB.Collection("videos")); err != nil {
			// Serving without the index is slower, not wrong.
			log.Error(ctx, "failed to ensure video indexes", err)
		}
		return mongo.NewMongoVideoRepository(client, appDB), nil

	default:
		conn, err := sqldb.Open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := sqldb.Migrate(ctx, conn, cfg.Driver); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
			log.Info(ctx, "database migrations applied")
		}
		return sqldb.NewVideoRepository(conn), nil
	}
}

func openMediaStorage(ctx context.Context, cfg config.MediaConfig, log *logger.Logger) (storage.MediaStorage, error) {
	if cfg.Provider == config.ProviderS3 {
		return storage.NewS3Storage(ctx, cfg.S3, log)
	}
	return storage.NewCloudinaryStorage(cfg.Cloudinary, cfg.Timeout)
}
