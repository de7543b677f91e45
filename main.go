package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"franchise-api/config"
	"franchise-api/database"
	"franchise-api/handlers"
	"franchise-api/logger"
	"franchise-api/middleware"
	"franchise-api/routes"
	"franchise-api/services"
	"franchise-api/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer zlog.Sync()

	gin.SetMode(cfg.GinMode)

	// Storage
	var (
		repo       store.Repository
		db         *gorm.DB
		redisCache *store.RedisCache
	)
	if cfg.StoreDriver == config.DriverMemory {
		zlog.Warn("using in-memory store, data is lost on restart")
		repo = store.NewMemoryRepository()
	} else {
		db, err = database.Connect(cfg, zlog)
		if err != nil {
			zlog.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			zlog.Fatal("failed to run migrations", zap.Error(err))
		}
		repo = store.NewGormRepository(db)
	}

	if cfg.RedisURL != "" {
		redisCache, err = connectCache(cfg.RedisURL)
		if err != nil {
			zlog.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			repo = store.NewCachedRepository(repo, redisCache, cfg.CacheTTL, zlog)
			zlog.Info("franchise cache enabled", zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	service := services.NewFranchiseService(repo, zlog)
	franchiseHandler := handlers.NewFranchiseHandler(service, zlog)

	// Setup Gin router
	metrics := middleware.NewMetrics()
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zlog))
	r.Use(metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	routes.SetupRoutes(r, franchiseHandler, metrics, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	limiter.Stop()

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			zlog.Warn("error closing redis client", zap.Error(err))
		}
	}

	// Close database connection
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				zlog.Error("error closing database connection", zap.Error(err))
			} else {
				zlog.Info("database connection closed")
			}
		}
	}

	zlog.Info("server exited gracefully")
}

func connectCache(url string) (*store.RedisCache, error) {
	cache, err := store.NewRedisCache(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		cache.Close()
		return nil, err
	}
	return cache, nil
}
