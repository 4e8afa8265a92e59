package gateway

import (
	"VisionAPI/internal/api/detection"
	detectionHandler "VisionAPI/internal/api/detection/handler"
	contextPkg "VisionAPI/pkg/context"
	"VisionAPI/pkg/handlerUtil"
	"VisionAPI/pkg/response"
	"VisionAPI/pkg/utils"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const requestIDHeader = "X-Request-ID"

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Router dispatches API Gateway proxy events to the shared route table. It
// never returns an error to the Lambda runtime: every failure becomes an
// error envelope.
type Router struct {
	log     *logrus.Logger
	routes  map[string]detectionHandler.Route
	initErr error
	utils   utils.IUtils
}

func New(log *logrus.Logger, routes []detectionHandler.Route) *Router {
	table := make(map[string]detectionHandler.Route, len(routes))
	for _, route := range routes {
		table[routeKey(route.Method, route.Path)] = route
	}

	return &Router{
		log:    log,
		routes: table,
		utils:  utils.New(),
	}
}

// NewFailing answers every request with the classification of err. It is
// used when the function could not be configured at cold start.
func NewFailing(log *logrus.Logger, err error) *Router {
	return &Router{
		log:     log,
		routes:  map[string]detectionHandler.Route{},
		initErr: err,
		utils:   utils.New(),
	}
}

func (r *Router) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	requestID := r.requestID(req)
	path := normalizePath(req.Path)
	errHandler := handlerUtil.New(r.log)

	defer func() {
		if rec := recover(); rec != nil {
			resp = r.respond(requestID, errHandler.Envelope(requestID,
				response.Wrap(detection.ErrInternalServerErr, fmt.Errorf("panic: %v", rec)), path, "recover"))
			err = nil
		}
	}()

	if r.initErr != nil {
		return r.respond(requestID, errHandler.Envelope(requestID, r.initErr, path, "configure")), nil
	}

	route, ok := r.routes[routeKey(req.HTTPMethod, path)]
	if !ok {
		return r.respond(requestID, errHandler.Envelope(requestID, detection.ErrRouteNotFound, path, "route")), nil
	}

	body, err := decodeBody(req)
	if err != nil {
		return r.respond(requestID, errHandler.Envelope(requestID, err, path, route.Operation)), nil
	}

	c := contextPkg.WithRequestID(ctx, requestID)

	out, err := route.Endpoint(c, detectionHandler.Input{Body: body, Event: req})
	if err != nil {
		return r.respond(requestID, errHandler.Envelope(requestID, err, path, route.Operation)), nil
	}

	return r.success(requestID, path, out), nil
}

func (r *Router) success(requestID string, path string, out interface{}) events.APIGatewayProxyResponse {
	raw, err := jsonCodec.Marshal(out)
	if err != nil {
		env := handlerUtil.New(r.log).Envelope(requestID, response.Wrap(detection.ErrInternalServerErr, err), path, "encode")
		return r.respond(requestID, env)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers(requestID),
		Body:       string(raw),
	}
}

func (r *Router) respond(requestID string, env handlerUtil.Envelope) events.APIGatewayProxyResponse {
	raw, err := jsonCodec.Marshal(env)
	if err != nil {
		raw = []byte(`{"statusCode":500,"code":"InternalError","message":"internal server error"}`)
		env.StatusCode = http.StatusInternalServerError
	}

	return events.APIGatewayProxyResponse{
		StatusCode: env.StatusCode,
		Headers:    headers(requestID),
		Body:       string(raw),
	}
}

func (r *Router) requestID(req events.APIGatewayProxyRequest) string {
	if id := req.RequestContext.RequestID; id != "" {
		return id
	}
	if id, err := r.utils.NewULIDFromTimestamp(time.Now()); err == nil {
		return id
	}
	return "unknown"
}

func decodeBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}

	raw, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, response.Wrap(detection.ErrInvalidBody, err)
	}
	return raw, nil
}

func headers(requestID string) map[string]string {
	return map[string]string{
		"Content-Type":  "application/json",
		requestIDHeader: requestID,
	}
}

func routeKey(method string, path string) string {
	return strings.ToUpper(method) + " " + path
}

func normalizePath(path string) string {
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "/"
	}
	return path
}
