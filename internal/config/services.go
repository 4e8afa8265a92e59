package config

import (
	"VisionAPI/internal/api/detection"
	detectionHandler "VisionAPI/internal/api/detection/handler"
	detectionService "VisionAPI/internal/api/detection/service"
	"VisionAPI/internal/gateway"
	"VisionAPI/internal/middleware"
	"VisionAPI/pkg/awsclient"
	"VisionAPI/pkg/bedrock"
	"VisionAPI/pkg/gemini"
	"VisionAPI/pkg/openai"
	"VisionAPI/pkg/redis"
	"VisionAPI/pkg/rekognition"
	"VisionAPI/pkg/response"
	"VisionAPI/pkg/s3"
	"VisionAPI/pkg/utils"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// Closer releases clients opened while building the service.
type Closer func()

// BuildDetectionService opens every collaborator client described by
// settings and wires them into the detection pipeline.
func BuildDetectionService(ctx context.Context, logger *logrus.Logger, settings *Settings) (detectionService.IDetectionService, Closer, error) {
	sess, err := awsclient.NewSession(settings.AWS)
	if err != nil {
		return nil, nil, response.Wrap(detection.ErrNotConfigured, err)
	}

	var closers []func() error

	var generator detectionService.Generator
	switch settings.GenerativeProvider {
	case ProviderGemini:
		client, err := gemini.NewGeminiClient(ctx, settings.GeminiAPIKey, settings.GeminiModel)
		if err != nil {
			logger.Errorf("Failed to create Gemini client: %v", err)
			return nil, nil, err
		}
		closers = append(closers, client.Close)
		generator = client
	case ProviderOpenAI:
		client, err := openai.NewChatGPT(settings.OpenAIAPIKey, settings.OpenAIChatModel, settings.OpenAIImageModel)
		if err != nil {
			logger.Errorf("Failed to create OpenAI client: %v", err)
			return nil, nil, err
		}
		generator = client
	default:
		generator = bedrock.New(sess, settings.BedrockTextModel, settings.BedrockImageModel)
	}

	if settings.CacheEnabled() {
		cache := redis.New(settings.Redis)
		closers = append(closers, cache.Close)
		generator = detectionService.NewCachedGenerator(logger, generator, cache)
	}

	closer := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warnf("Failed to close client: %v", err)
			}
		}
	}

	svc := detectionService.NewDetectionService(
		logger,
		detectionService.Config{
			KeyPrefix:             settings.KeyPrefix,
			GeneratedImagesBucket: settings.GeneratedImagesBucket,
		},
		detection.NewNormalizer(settings.PublicURLDomain, settings.Location),
		s3.New(sess),
		rekognition.New(sess),
		generator,
		utils.New(),
	)

	logger.WithFields(logrus.Fields{
		"region":   settings.AWS.Region,
		"provider": settings.GenerativeProvider,
		"cache":    settings.CacheEnabled(),
	}).Info("Detection service configured")

	return svc, closer, nil
}

// NewRequestValidator builds the input validator for the configured
// allow-list.
func NewRequestValidator(settings *Settings) *detection.RequestValidator {
	return detection.NewRequestValidator(NewValidator(), settings.BucketAllowlist)
}

// NewLambdaRouter loads the configuration and builds the API Gateway router.
// Configuration failures produce a router that answers every request with a
// ConfigurationError envelope.
func NewLambdaRouter(ctx context.Context, logger *logrus.Logger, getenv func(string) string) (*gateway.Router, Closer) {
	noop := func() {}

	settings, err := LoadSettings(getenv)
	if err != nil {
		logger.WithField("error", err.Error()).Error("Invalid configuration")
		return gateway.NewFailing(logger, err), noop
	}

	svc, closer, err := BuildDetectionService(ctx, logger, settings)
	if err != nil {
		logger.WithField("error", err.Error()).Error("Failed to build detection service")
		return gateway.NewFailing(logger, asConfigurationError(err)), noop
	}

	h := detectionHandler.New(logger, NewRequestValidator(settings), middleware.New(logger, settings.RateLimit), svc)
	return gateway.New(logger, h.Routes()), closer
}

func asConfigurationError(err error) error {
	var respErr *response.Error
	if errors.As(err, &respErr) && respErr.Kind == response.KindConfiguration {
		return err
	}
	return response.Wrap(detection.ErrNotConfigured, err)
}
