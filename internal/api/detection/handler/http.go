package detectionHandler

import (
	"VisionAPI/internal/api/detection"
	detectionService "VisionAPI/internal/api/detection/service"
	"VisionAPI/internal/middleware"
	contextPkg "VisionAPI/pkg/context"
	"VisionAPI/pkg/handlerUtil"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// Input is what every transport hands to an endpoint: the raw body and the
// raw event it received, echoed back by the health check.
type Input struct {
	Body  []byte
	Event interface{}
}

type Endpoint func(ctx context.Context, in Input) (interface{}, error)

type Route struct {
	Method    string
	Path      string
	Operation string
	Endpoint  Endpoint
}

type DetectionHandler struct {
	log              *logrus.Logger
	validator        *detection.RequestValidator
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
}

func New(
	log *logrus.Logger,
	validator *detection.RequestValidator,
	middleware middleware.Middleware,
	ds detectionService.IDetectionService,
) *DetectionHandler {
	return &DetectionHandler{
		detectionService: ds,
		log:              log,
		validator:        validator,
		middleware:       middleware,
	}
}

// Routes is the route table shared by the HTTP server and the Lambda gateway.
func (h *DetectionHandler) Routes() []Route {
	return []Route{
		{Method: fiber.MethodGet, Path: "/", Operation: "health", Endpoint: h.Health},
		{Method: fiber.MethodGet, Path: "/v1", Operation: "describe_v1", Endpoint: h.DescribeV1},
		{Method: fiber.MethodGet, Path: "/v2", Operation: "describe_v2", Endpoint: h.DescribeV2},
		{Method: fiber.MethodPost, Path: "/v1/vision", Operation: "detect_faces", Endpoint: h.DetectFaces},
		{Method: fiber.MethodPost, Path: "/v1/vision/narrative", Operation: "detect_faces_narrative", Endpoint: h.DetectFacesWithNarrative},
		{Method: fiber.MethodPost, Path: "/v2/vision", Operation: "detect_pets", Endpoint: h.DetectPets},
		{Method: fiber.MethodPost, Path: "/v1/generate", Operation: "generate", Endpoint: h.Generate},
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	for _, route := range h.Routes() {
		srv.Add(route.Method, route.Path, h.serve(route))
	}
}

func (h *DetectionHandler) serve(route Route) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		requestID := h.middleware.GetRequestID(ctx)
		errHandler := handlerUtil.New(h.log)

		c := contextPkg.WithRequestID(ctx.UserContext(), requestID)

		out, err := route.Endpoint(c, Input{
			Body:  ctx.Body(),
			Event: fiberEvent(ctx),
		})
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), route.Operation)
		}

		return errHandler.HandleSuccess(ctx, fiber.StatusOK, out)
	}
}

func fiberEvent(ctx *fiber.Ctx) fiber.Map {
	return fiber.Map{
		"httpMethod":            ctx.Method(),
		"path":                  ctx.Path(),
		"queryStringParameters": ctx.Queries(),
		"body":                  string(ctx.Body()),
	}
}
