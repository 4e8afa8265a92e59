package detectionService

import (
	"VisionAPI/internal/api/detection"
	"VisionAPI/internal/entity"
	contextPkg "VisionAPI/pkg/context"
	"VisionAPI/pkg/response"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *detectionService) Generate(ctx context.Context, req detection.GenerateRequest) (*entity.GenerationResult, error) {
	genReq := entity.GenerationRequest{
		Kind:    entity.GenerationKind(req.Kind),
		ModelID: req.ModelID,
		Prompt:  req.Prompt,
		Config: entity.GenerationConfig{
			MaxTokens:      req.MaxTokens,
			Temperature:    req.Temperature,
			TopP:           req.TopP,
			NumberOfImages: req.NumberOfImages,
		},
	}
	if genReq.Kind == "" {
		genReq.Kind = entity.GenerationText
	}

	result, err := s.generate(ctx, genReq)
	if err != nil {
		return nil, err
	}

	if result.Kind == entity.GenerationImage && s.cfg.GeneratedImagesBucket != "" {
		if err := s.storeImages(ctx, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// generate makes the single generative call of a request.
func (s *detectionService) generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.generator == nil {
		return nil, detection.ErrNotConfigured
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"kind":       req.Kind,
		"model":      req.ModelID,
	}).Debug("Invoking generative model")

	result, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if result == nil || (strings.TrimSpace(result.Text) == "" && len(result.Images) == 0) {
		return nil, detection.ErrEmptyGeneration
	}

	return result, nil
}

// storeImages uploads every generated image and replaces the inline payloads
// with presigned links.
func (s *detectionService) storeImages(ctx context.Context, result *entity.GenerationResult) error {
	requestID := contextPkg.GetRequestID(ctx)

	urls := make([]string, 0, len(result.Images))
	for _, img := range result.Images {
		raw, err := s.utils.DecodeBase64Image(img)
		if err != nil {
			return response.Wrap(detection.ErrEmptyGeneration, err)
		}

		key := s.utils.NewObjectKey(s.cfg.GeneratedImagesPrefix, "png")
		if _, err := s.store.UploadObject(ctx, s.cfg.GeneratedImagesBucket, key, "image/png", raw); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"bucket":     s.cfg.GeneratedImagesBucket,
				"key":        key,
				"error":      err.Error(),
			}).Error("Failed to upload generated image")
			return err
		}

		url, err := s.store.PresignUrl(s.cfg.GeneratedImagesBucket, key, s.cfg.PresignExpiry)
		if err != nil {
			return response.Wrap(detection.ErrInternalServerErr, err)
		}
		urls = append(urls, url)
	}

	result.ImageURLs = urls
	result.Images = nil
	return nil
}
