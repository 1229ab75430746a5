package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ivannnito/AstroViewingConditions/internal/api"
	"github.com/ivannnito/AstroViewingConditions/internal/astro"
	"github.com/ivannnito/AstroViewingConditions/internal/conditions"
	"github.com/ivannnito/AstroViewingConditions/internal/config"
	"github.com/ivannnito/AstroViewingConditions/internal/satellite"
	"github.com/ivannnito/AstroViewingConditions/internal/scheduler"
	"github.com/ivannnito/AstroViewingConditions/internal/storage/sqlite"
	"github.com/ivannnito/AstroViewingConditions/internal/weather"
	"github.com/ivannnito/AstroViewingConditions/internal/websocket"
	"github.com/ivannnito/AstroViewingConditions/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	// Optional .env for secrets like N2YO_API_KEY
	_ = godotenv.Load()

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting astro viewing conditions server",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
	)

	// Snapshot persistence
	dbDir := filepath.Dir(cfg.Storage.SQLitePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Error("Failed to create database directory", logger.Error(err), logger.String("path", dbDir))
		os.Exit(1)
	}

	snapshotStorage, err := sqlite.NewSnapshotStorage(cfg.Storage.SQLitePath, log)
	if err != nil {
		log.Error("Failed to create snapshot storage", logger.Error(err))
		os.Exit(1)
	}
	defer snapshotStorage.Close()

	// Provider adapters
	forecastClient := weather.NewClient(
		cfg.Forecast.APIBaseURL,
		time.Duration(cfg.Forecast.RequestTimeoutSeconds)*time.Second,
		log,
	)

	astroCalculator := astro.NewCalculator(log)

	// The satellite provider is optional: without a key it is not
	// constructed and snapshots carry an empty pass list.
	var passProvider conditions.PassProvider
	if cfg.Satellite.APIKey != "" {
		passProvider = satellite.NewClient(
			cfg.Satellite.APIBaseURL,
			cfg.Satellite.APIKey,
			cfg.Satellite.NoradID,
			cfg.Satellite.MinVisibilitySeconds,
			time.Duration(cfg.Satellite.RequestTimeoutSeconds)*time.Second,
			log,
		)
		log.Info("Satellite pass provider enabled", logger.Int("norad_id", cfg.Satellite.NoradID))
	} else {
		log.Info("No satellite API key configured, pass fetching disabled")
	}

	orchestrator := conditions.NewOrchestrator(forecastClient, astroCalculator, passProvider, log)

	manager := conditions.NewManager(
		orchestrator,
		snapshotStorage,
		time.Duration(cfg.Cache.StalenessThresholdSeconds)*time.Second,
		cfg.Forecast.HorizonDays,
		log,
	)

	// WebSocket hub for conditions push
	wsServer := websocket.NewServer(log)
	go wsServer.Run()
	manager.SetNotifier(wsServer)

	// Restore the persisted snapshot before serving traffic
	manager.EnsureLoaded(context.Background())

	// Background refresh of the default location
	var refreshScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		defaultLoc := cfg.DefaultLocation()
		refreshScheduler = scheduler.New(
			manager,
			conditions.Location{
				Name:      defaultLoc.Name,
				Latitude:  defaultLoc.Latitude,
				Longitude: defaultLoc.Longitude,
				Elevation: defaultLoc.Elevation,
			},
			time.Duration(cfg.Scheduler.RefreshIntervalMinutes)*time.Minute,
			log,
		)
		if err := refreshScheduler.Start(); err != nil {
			log.Error("Failed to start refresh scheduler", logger.Error(err))
			os.Exit(1)
		}
	}

	router := api.NewRouter(manager, wsServer, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", logger.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error on startup", logger.String("addr", addr), logger.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")

	if refreshScheduler != nil {
		log.Info("Stopping refresh scheduler...")
		refreshScheduler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.Error(err))
	}

	log.Info("Server fully stopped")
}
