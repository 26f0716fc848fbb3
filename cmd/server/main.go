package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/jhaash925/WanderLust/internal/adapter/geocoding"
	"github.com/jhaash925/WanderLust/internal/adapter/httpapi"
	natsadapter "github.com/jhaash925/WanderLust/internal/adapter/messaging/nats"
	"github.com/jhaash925/WanderLust/internal/adapter/repository/cache"
	"github.com/jhaash925/WanderLust/internal/adapter/repository/mongodb"
	"github.com/jhaash925/WanderLust/internal/adapter/storage/s3"
	"github.com/jhaash925/WanderLust/internal/config"
	"github.com/jhaash925/WanderLust/internal/platform/logger"
	"github.com/jhaash925/WanderLust/internal/platform/metrics"
	"github.com/jhaash925/WanderLust/internal/platform/tracer"
	"github.com/jhaash925/WanderLust/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine in containerized deployments.
		if !os.IsNotExist(err) {
			os.Stderr.WriteString("Error loading .env file: " + err.Error() + "\n")
		}
	}

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	tp := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	metricsManager := metrics.NewManager(cfg.ServiceName)
	go func() {
		if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			appLogger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDatabase)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Warn("Failed to ping Redis, caching disabled", zap.Error(err), zap.String("addr", cfg.RedisAddr))
		redisClient = nil
	} else {
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
		defer redisClient.Close()
	}

	natsPublisher, err := natsadapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
	if err != nil {
		appLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsPublisher.Close()

	imageStorage, err := s3.NewImageStorage(
		cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
		cfg.MinioBucket, cfg.MinioUseSSL, appLogger,
	)
	if err != nil {
		appLogger.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	var geocodeCache geocoding.Cache
	var listingCache usecase.ListingCache
	if redisClient != nil {
		geocodeCache = cache.NewGeocodeCache(redisClient)
		listingCache = cache.NewListingCache(redisClient)
	}
	geocoder := geocoding.NewMapTilerClientWithOptions(
		cfg.MapTilerToken, geocodeCache, cfg.MapTilerURL, nil, appLogger,
	)

	listingRepo, err := mongodb.NewListingRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize listing repository", zap.Error(err))
	}
	reviewRepo, err := mongodb.NewReviewRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize review repository", zap.Error(err))
	}

	listingUC := usecase.NewListingUsecase(
		listingRepo, reviewRepo, geocoder, imageStorage,
		natsPublisher, listingCache, metricsManager, appLogger,
	)
	reviewUC := usecase.NewReviewUsecase(
		reviewRepo, listingRepo, natsPublisher, listingCache, metricsManager, appLogger,
	)

	router := httpapi.NewRouter(listingUC, reviewUC, cfg.JWTSecret, metricsManager, appLogger)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server starting", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped gracefully")
}
