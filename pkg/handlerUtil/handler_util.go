package handlerUtil

import (
	"VisionAPI/pkg/log"
	"VisionAPI/pkg/response"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Envelope struct {
	StatusCode int               `json:"statusCode"`
	Code       response.Kind     `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	TraceID    string            `json:"trace_id,omitempty"`
}

// Classify turns any error into the envelope the client sees. Only
// *response.Error values carry a client-facing message; everything else is
// reported as an internal error without its text.
func Classify(err error) Envelope {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return Envelope{
			StatusCode: respErr.Code,
			Code:       respErr.Kind,
			Message:    respErr.Error(),
			Details:    respErr.Details,
		}
	}

	return Envelope{
		StatusCode: http.StatusInternalServerError,
		Code:       response.KindInternal,
		Message:    "internal server error",
	}
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Envelope classifies err and logs it with the request context. Server side
// failures get a trace id so the client can report it.
func (h *ErrorHandler) Envelope(requestID string, err error, path string, operation string) Envelope {
	env := Classify(err)

	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"code":       env.StatusCode,
		"kind":       env.Code,
		"path":       path,
		"operation":  operation,
	}

	var respErr *response.Error
	if errors.As(err, &respErr) && respErr.Cause() != nil {
		fields["cause"] = respErr.Cause().Error()
	}

	if env.StatusCode >= http.StatusInternalServerError {
		env.TraceID = h.traceID(requestID)
		fields["trace_id"] = env.TraceID
		h.logger.WithFields(fields).Error("Operation failed")
		return env
	}

	h.logger.WithFields(fields).Warn("Operation failed with error response")
	return env
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	env := h.Envelope(requestID, err, path, operation)
	return c.Status(env.StatusCode).JSON(env)
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}

func (h *ErrorHandler) traceID(requestID string) string {
	if requestID != "" && requestID != "unknown" {
		return requestID
	}
	return log.NewTraceID()
}
