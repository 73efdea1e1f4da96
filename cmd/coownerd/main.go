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

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"coowner-backend/config"
	"coowner-backend/internal/api"
	"coowner-backend/internal/db"
	"coowner-backend/internal/directory"
	"coowner-backend/internal/engine"
	"coowner-backend/internal/store"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not load .env file")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.WithError(err).Fatalf("failed to load configuration from %s", configPath)
	}
	logrus.Infof("configuration loaded from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}

	appStore := store.NewGormStore(gormDB)
	logrus.Info("data store initialized")

	directoryClient := directory.NewClient(&cfg.Directory)

	engineService := engine.NewService(engine.Config{
		PenaltyFactor:             cfg.Engine.PenaltyFactor,
		PriorityThreshold:         cfg.Engine.PriorityThreshold,
		ImbalanceThreshold:        cfg.Engine.ImbalanceThreshold,
		CancellationRateThreshold: cfg.Engine.CancellationRateThreshold,
		GroupCriticalBelow:        cfg.Engine.GroupCriticalBelow,
		GroupHealthyAbove:         cfg.Engine.GroupHealthyAbove,
		DefaultBookingHours:       cfg.Engine.DefaultBookingHours,
		MinWindowHours:            cfg.Engine.MinWindowHours,
		MaxAlternatives:           cfg.Engine.MaxAlternatives,
	}, appStore, appStore, directoryClient)

	router := api.NewRouter(appStore, engineService, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server ListenAndServe")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logrus.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("HTTP server shutdown")
	}

	logrus.Info("server gracefully stopped")
}
