package config

import (
	"VisionAPI/internal/api/detection"
	detectionHandler "VisionAPI/internal/api/detection/handler"
	detectionService "VisionAPI/internal/api/detection/service"
	"VisionAPI/internal/middleware"
	"VisionAPI/pkg/handlerUtil"
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine           *fiber.App
	log              *logrus.Logger
	settings         *Settings
	middleware       middleware.Middleware
	requestValidator *detection.RequestValidator
	detectionService detectionService.IDetectionService
	handlers         []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.settings == nil {
		return nil, fmt.Errorf("settings are required")
	}
	if server.detectionService == nil {
		return nil, fmt.Errorf("detection service is required")
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, server.settings.RateLimit)
	}
	if server.requestValidator == nil {
		server.requestValidator = NewRequestValidator(server.settings)
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithSettings(settings *Settings) ServerOption {
	return func(s *Server) error {
		s.settings = settings
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.settings == nil {
			return fmt.Errorf("settings must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.settings.RateLimit)
		return nil
	}
}

func WithRequestValidator(v *detection.RequestValidator) ServerOption {
	return func(s *Server) error {
		s.requestValidator = v
		return nil
	}
}

func WithDetectionService(svc detectionService.IDetectionService) ServerOption {
	return func(s *Server) error {
		s.detectionService = svc
		return nil
	}
}

func (s *Server) RegisterHandler() {
	detectionHandlers := detectionHandler.New(s.log, s.requestValidator, s.middleware, s.detectionService)
	s.handlers = append(s.handlers, detectionHandlers)
}

// App applies the middleware chain and mounts every handler on the engine.
func (s *Server) App() *fiber.App {
	s.engine.Use(fiberRecover.New(fiberRecover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(ctx *fiber.Ctx, e interface{}) {
			s.log.WithFields(logrus.Fields{
				"request_id": s.middleware.GetRequestID(ctx),
				"path":       ctx.Path(),
				"panic":      fmt.Sprintf("%v", e),
				"stack":      string(debug.Stack()),
			}).Error("Recovered from panic")
		},
	}))
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	s.engine.Use(s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(s.engine)
	}

	s.engine.Use(func(ctx *fiber.Ctx) error {
		requestID := s.middleware.GetRequestID(ctx)
		return handlerUtil.New(s.log).Handle(ctx, requestID, detection.ErrRouteNotFound, ctx.Path(), "route")
	})

	return s.engine
}

func (s *Server) Run() error {
	return s.App().Listen(fmt.Sprintf(":%s", s.settings.AppPort))
}

func (s *Server) Shutdown() error {
	return s.engine.Shutdown()
}
