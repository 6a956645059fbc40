package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theodore333/vayne-study-sub002/internal/config"
	"github.com/theodore333/vayne-study-sub002/internal/handlers"
	"github.com/theodore333/vayne-study-sub002/internal/platform/envutil"
	"github.com/theodore333/vayne-study-sub002/internal/platform/logger"
	"github.com/theodore333/vayne-study-sub002/internal/server"
	"github.com/theodore333/vayne-study-sub002/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration...")
	cfg, err := config.Load(envutil.String("CONFIG_FILE", "config.yaml"))
	if err != nil {
		log.Fatal("Config load failed", "error", err)
	}

	// Plan cache
	cache := services.NewPlanCache(log, cfg.RedisAddr, time.Duration(cfg.PlanCacheTTL)*time.Second)
	if cache.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cache.Ping(ctx); err != nil {
			log.Warn("Redis unreachable, continuing without plan cache", "error", err)
		}
		cancel()
		defer cache.Close()
	}

	// Services
	log.Info("Setting up Services from main...")
	studySvc := services.NewStudyService(log, cache, cfg.Prediction, cfg.Goals)

	// Handlers
	log.Info("Setting up Handlers from main...")
	studyHandler := handlers.NewStudyHandler(log, studySvc)
	healthHandler := handlers.NewHealthHandler(cache)

	// Router
	router := server.NewRouter(server.RouterConfig{
		CORSOrigins:   cfg.CORSOrigins,
		StudyHandler:  studyHandler,
		HealthHandler: healthHandler,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("Starting server", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server exited", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}
