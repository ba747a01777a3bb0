package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheNopenator/EcoVision/internal/config"
	"github.com/TheNopenator/EcoVision/pkg/log"
	"github.com/joho/godotenv"
)

func main() {
	bootLogger := log.NewLogger(log.WithFileOutput(false))
	if err := godotenv.Load(); err != nil {
		bootLogger.Debugf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatalf("Invalid configuration: %v", err)
	}

	logger := log.NewLogger(cfg.LoggerOptions()...)

	store, err := cfg.NewStorage()
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	fiberApp := config.NewFiber(cfg.App, logger)
	validator := config.NewValidator()
	metricsManager := cfg.NewMetrics()

	server, err := config.NewServer(cfg,
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithMetrics(metricsManager),
		config.WithDatabase(),
		config.WithCache(cfg.NewCache(logger)),
		config.WithStorage(store),
		config.WithMailer(cfg.NewMailer()),
		config.WithDispatcher(nil),
		config.WithPipeline(),
		config.WithMiddleware(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Infof("Server started successfully on port %d", cfg.App.Port)

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
