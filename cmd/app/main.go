package main

import (
	"VisionAPI/internal/config"
	"VisionAPI/pkg/log"
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	logger := log.NewLogger()
	if err := config.LoadEnv(); err != nil {
		logger.Fatalf("Error loading .env file: %v", err)
	}

	settings, err := config.LoadSettings(os.Getenv)
	if err != nil {
		logger.Fatal(err)
	}

	detectionService, closeClients, err := config.BuildDetectionService(context.Background(), logger, settings)
	if err != nil {
		logger.Fatal(err)
	}
	defer closeClients()

	server, err := config.NewServer(
		config.WithFiber(config.NewFiber(logger)),
		config.WithLogger(logger),
		config.WithSettings(settings),
		config.WithMiddleware(),
		config.WithRequestValidator(config.NewRequestValidator(settings)),
		config.WithDetectionService(detectionService),
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

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error shutting down server: %v", err)
	}
}
