package config

import (
	"VisionAPI/internal/api/detection"
	"VisionAPI/internal/middleware"
	"VisionAPI/pkg/handlerUtil"
	"VisionAPI/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:           "Vision API",
			BodyLimit:         6 * 1024 * 1024,
			DisableKeepalive:  false,
			StrictRouting:     false,
			CaseSensitive:     true,
			EnablePrintRoutes: logger.IsLevelEnabled(logrus.DebugLevel),
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			ErrorHandler:      errorHandler(logger),
		})

	return app
}

// errorHandler renders errors that escape the handlers, including recovered
// panics and fiber's own errors, as envelopes.
func errorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		requestID, _ := ctx.Locals(middleware.RequestIDKey).(string)

		var fiberErr *fiber.Error
		var respErr *response.Error
		switch {
		case errors.As(err, &respErr):
		case errors.As(err, &fiberErr):
			err = response.NewError(kindForStatus(fiberErr.Code), fiberErr.Code, fiberErr.Message)
		default:
			err = response.Wrap(detection.ErrInternalServerErr, err)
		}

		return handlerUtil.New(logger).Handle(ctx, requestID, err, ctx.Path(), "fiber")
	}
}

func kindForStatus(code int) response.Kind {
	switch {
	case code >= fiber.StatusInternalServerError:
		return response.KindInternal
	case code == fiber.StatusNotFound:
		return response.KindNotFound
	default:
		return response.KindValidation
	}
}
