package main

import (
	"VisionAPI/internal/config"
	"VisionAPI/pkg/log"
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	logger := log.NewLogger()
	if err := config.LoadEnv(); err != nil {
		logger.Warnf("Ignoring .env file: %v", err)
	}

	router, closeClients := config.NewLambdaRouter(context.Background(), logger, os.Getenv)
	defer closeClients()

	lambda.Start(router.Handle)
}
