package detectionService

import (
	"VisionAPI/internal/entity"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"golang.org/x/net/context"
)

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) HeadObject(ctx context.Context, bucket string, key string) (entity.ObjectMeta, error) {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(entity.ObjectMeta), args.Error(1)
}

func (m *MockObjectStore) UploadObject(ctx context.Context, bucket string, key string, contentType string, body []byte) (string, error) {
	args := m.Called(ctx, bucket, key, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) PresignUrl(bucket string, key string, expiry time.Duration) (string, error) {
	args := m.Called(bucket, key, expiry)
	return args.String(0), args.Error(1)
}

type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) DetectFaces(ctx context.Context, bucket string, key string) (entity.RawDetection, error) {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(entity.RawDetection), args.Error(1)
}

func (m *MockDetector) DetectLabels(ctx context.Context, bucket string, key string, maxLabels int64, minConfidence float64) ([]entity.Label, error) {
	args := m.Called(ctx, bucket, key, maxLabels, minConfidence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Label), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GenerationResult), args.Error(1)
}

type MockGenerationCache struct {
	mock.Mock
}

func (m *MockGenerationCache) GetGeneration(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.GenerationResult), args.Bool(1), args.Error(2)
}

func (m *MockGenerationCache) SetGeneration(ctx context.Context, req entity.GenerationRequest, result *entity.GenerationResult) error {
	args := m.Called(ctx, req, result)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
