// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Marga-Ghale/softdesk-backend/internal/api"
	"github.com/Marga-Ghale/softdesk-backend/internal/config"
	"github.com/Marga-Ghale/softdesk-backend/internal/db"
	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
	"github.com/Marga-Ghale/softdesk-backend/internal/seed"
	"github.com/Marga-Ghale/softdesk-backend/internal/service"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	envErr := godotenv.Load()

	cfg := config.Load()
	log := setupLogger(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug("No .env file found, using environment variables")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Info("[DB] Running database migrations...")
	if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.WithError(err).Fatal("[DB] Migration failed")
	}

	// ============================================
	// Initialize PostgreSQL (pgxpool + sql.DB)
	// ============================================
	ctx := context.Background()

	pg, err := db.NewPostgresDB(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("[DB] Failed to connect to PostgreSQL")
	}
	defer pg.Close()

	// ============================================
	// Initialize Redis (optional refresh-token store)
	// ============================================
	health := map[string]api.Pinger{"database": pg, "redis": nil}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisDB, err := db.NewRedisDB(ctx, cfg.RedisURL, log)
		if err != nil {
			log.WithError(err).Warn("[Redis] Unavailable, storing refresh tokens in PostgreSQL")
		} else {
			defer redisDB.Close()
			redisClient = redisDB.Client
			health["redis"] = redisDB
		}
	}

	repos := repository.NewRepositories(pg.DB, redisClient)

	services := service.NewServices(&service.ServiceDeps{
		Config: cfg,
		Repos:  repos,
		Logger: log,
	})

	if cfg.SeedData && !cfg.IsProduction() {
		if err := seed.SeedData(ctx, services, log); err != nil {
			log.WithError(err).Error("[Seed] Failed to seed development data")
		}
	}

	router := api.NewRouter(api.RouterDeps{
		Services:    services,
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
		Health:      health,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("[HTTP] Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("[HTTP] Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("[HTTP] Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("[HTTP] Server forced to shutdown")
	}

	log.Info("[HTTP] Server exited")
}

func setupLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}
