package detectionHandler

import (
	"VisionAPI/internal/api/detection"
	"VisionAPI/internal/entity"
	"VisionAPI/internal/middleware"
	"VisionAPI/pkg/awsclient"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type MockDetectionService struct {
	mock.Mock
}

func (m *MockDetectionService) DetectFaces(ctx context.Context, req detection.DetectionRequest) (*entity.DetectionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DetectionResponse), args.Error(1)
}

func (m *MockDetectionService) DetectFacesWithNarrative(ctx context.Context, req detection.DetectionRequest) (*detection.NarrativeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*detection.NarrativeResponse), args.Error(1)
}

func (m *MockDetectionService) DetectPets(ctx context.Context, req detection.DetectionRequest) (*detection.PetResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*detection.PetResponse), args.Error(1)
}

func (m *MockDetectionService) Generate(ctx context.Context, req detection.GenerateRequest) (*entity.GenerationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GenerationResult), args.Error(1)
}

func setupTestApp(svc *MockDetectionService, allowed ...string) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mw := middleware.New(logger, middleware.Config{})
	h := New(logger, detection.NewRequestValidator(validator.New(), allowed), mw, svc)

	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	h.Start(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, body string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthAndDescriptions(t *testing.T) {
	app := setupTestApp(new(MockDetectionService))

	status, body := doRequest(t, app, http.MethodGet, "/?check=1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Server is Healthy!", body["message"])
	input := body["input"].(map[string]interface{})
	assert.Equal(t, "/", input["path"])

	_, v1 := doRequest(t, app, http.MethodGet, "/v1", "")
	assert.Equal(t, "VISION api version 1.", v1["message"])

	_, v2 := doRequest(t, app, http.MethodGet, "/v2", "")
	assert.Equal(t, "VISION api version 2.", v2["message"])
}

func TestDetectFacesSuccess(t *testing.T) {
	svc := new(MockDetectionService)
	svc.On("DetectFaces", mock.Anything, detection.DetectionRequest{Bucket: "photos", ImageName: "a.jpg"}).
		Return(&entity.DetectionResponse{
			ImageURL:       "https://photos.s3.amazonaws.com/a.jpg",
			TimestampLocal: "02-11-2024 10:04:05",
			Faces:          []entity.FaceResult{detection.PlaceholderFace()},
		}, nil)

	status, body := doRequest(t, setupTestApp(svc), http.MethodPost, "/v1/vision", `{"bucket":"photos","imageName":"a.jpg"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "https://photos.s3.amazonaws.com/a.jpg", body["url_to_image"])
	faces := body["faces"].([]interface{})
	require.Len(t, faces, 1)
	assert.Nil(t, faces[0].(map[string]interface{})["classified_emotion"])
}

func TestDetectFacesEmptyBucketNamesField(t *testing.T) {
	svc := new(MockDetectionService)

	status, body := doRequest(t, setupTestApp(svc), http.MethodPost, "/v1/vision", `{"bucket":"","imageName":"x.jpg"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ValidationError", body["code"])
	assert.Contains(t, body["message"], "bucket")
	assert.Contains(t, body["details"], "bucket")
	assert.Nil(t, body["trace_id"])
	svc.AssertNotCalled(t, "DetectFaces", mock.Anything, mock.Anything)
}

func TestDetectFacesDisallowedBucket(t *testing.T) {
	status, body := doRequest(t, setupTestApp(new(MockDetectionService), "photos"), http.MethodPost, "/v2/vision", `{"bucket":"other","imageName":"x.jpg"}`)

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "AuthorizationError", body["code"])
}

func TestDetectFacesUpstreamErrorIsShaped(t *testing.T) {
	svc := new(MockDetectionService)
	svc.On("DetectFacesWithNarrative", mock.Anything, mock.Anything).
		Return(nil, awsclient.Classify("rekognition", errors.New("dial tcp 10.0.0.1:443: connection reset by peer")))

	status, body := doRequest(t, setupTestApp(svc), http.MethodPost, "/v1/vision/narrative", `{"bucket":"photos","imageName":"a.jpg"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "UpstreamError", body["code"])
	assert.NotContains(t, body["message"], "connection reset")
	assert.NotEmpty(t, body["trace_id"])
}

func TestUnexpectedErrorIsInternal(t *testing.T) {
	svc := new(MockDetectionService)
	svc.On("Generate", mock.Anything, detection.GenerateRequest{Prompt: "hello"}).
		Return(nil, errors.New("boom"))

	status, body := doRequest(t, setupTestApp(svc), http.MethodPost, "/v1/generate", `{"prompt":"  hello  "}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "InternalError", body["code"])
	assert.Equal(t, "internal server error", body["message"])
}

func TestGenerateInvalidKind(t *testing.T) {
	status, body := doRequest(t, setupTestApp(new(MockDetectionService)), http.MethodPost, "/v1/generate", `{"prompt":"p","kind":"video"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "kind")
}

func TestRoutesAreUnique(t *testing.T) {
	h := New(logrus.New(), nil, nil, nil)

	seen := map[string]bool{}
	for _, r := range h.Routes() {
		key := r.Method + " " + r.Path
		assert.False(t, seen[key], key)
		seen[key] = true
		assert.NotEmpty(t, r.Operation)
	}
	assert.Len(t, seen, 7)
}
