package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hoopmetrics/prediction-engine/internal/services"
	"github.com/hoopmetrics/prediction-engine/pkg/config"
	"github.com/hoopmetrics/prediction-engine/pkg/database"
	"github.com/hoopmetrics/prediction-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	cacheTTL := time.Duration(cfg.PredictionCacheTTL) * time.Second

	ratingService := services.NewRatingService(db, log)
	metricsService := services.NewMetricsService(db, log)
	predictionService := services.NewPredictionService(db, cacheService, cacheTTL, log)
	liveService := services.NewLiveService(db, cacheService, cacheTTL, log)

	pipeline := services.NewPipeline(db, ratingService, metricsService, predictionService, liveService, cfg.SupportedSports, log)

	// One-shot season rollover, then exit.
	if len(os.Args) > 1 && os.Args[1] == "roll-season" {
		if err := pipeline.RollSeason(context.Background()); err != nil {
			log.Fatalf("Season rollover failed: %v", err)
		}
		return
	}

	if cfg.EnableBackgroundJobs {
		if err := pipeline.Start(cfg.RecomputeEvery(), cfg.LiveRefreshEvery()); err != nil {
			log.Fatalf("Failed to start pipeline: %v", err)
		}
		defer pipeline.Stop()
	} else {
		log.Warn("Background jobs disabled, engine will not recompute")
	}

	log.WithFields(logrus.Fields{
		"sports":          cfg.SupportedSports,
		"recompute_every": cfg.RecomputeEvery().String(),
		"live_refresh":    cfg.LiveRefreshEvery().String(),
		"background_jobs": cfg.EnableBackgroundJobs,
	}).Info("Prediction engine started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
}
