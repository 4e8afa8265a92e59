package detectionService

import (
	"VisionAPI/internal/api/detection"
	"VisionAPI/internal/entity"
	"VisionAPI/pkg/utils"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IDetectionService interface {
	DetectFaces(ctx context.Context, req detection.DetectionRequest) (*entity.DetectionResponse, error)
	DetectFacesWithNarrative(ctx context.Context, req detection.DetectionRequest) (*detection.NarrativeResponse, error)
	DetectPets(ctx context.Context, req detection.DetectionRequest) (*detection.PetResponse, error)
	Generate(ctx context.Context, req detection.GenerateRequest) (*entity.GenerationResult, error)
}

type ObjectStore interface {
	HeadObject(ctx context.Context, bucket string, key string) (entity.ObjectMeta, error)
	UploadObject(ctx context.Context, bucket string, key string, contentType string, body []byte) (string, error)
	PresignUrl(bucket string, key string, expiry time.Duration) (string, error)
}

type Detector interface {
	DetectFaces(ctx context.Context, bucket string, key string) (entity.RawDetection, error)
	DetectLabels(ctx context.Context, bucket string, key string, maxLabels int64, minConfidence float64) ([]entity.Label, error)
}

type Generator interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error)
}

type Config struct {
	// KeyPrefix is prepended to every imageName before it reaches S3.
	KeyPrefix             string
	GeneratedImagesBucket string
	GeneratedImagesPrefix string
	PresignExpiry         time.Duration
}

type detectionService struct {
	log        *logrus.Logger
	cfg        Config
	normalizer *detection.Normalizer
	store      ObjectStore
	detector   Detector
	generator  Generator
	utils      utils.IUtils
	now        func() time.Time
}

// NewDetectionService wires the pipeline. generator may be nil, in which case
// every operation that needs it fails with a configuration error.
func NewDetectionService(
	log *logrus.Logger,
	cfg Config,
	normalizer *detection.Normalizer,
	store ObjectStore,
	detector Detector,
	generator Generator,
	utils utils.IUtils,
) IDetectionService {
	if cfg.GeneratedImagesPrefix == "" {
		cfg.GeneratedImagesPrefix = "generated"
	}
	return &detectionService{
		log:        log,
		cfg:        cfg,
		normalizer: normalizer,
		store:      store,
		detector:   detector,
		generator:  generator,
		utils:      utils,
		now:        time.Now,
	}
}
