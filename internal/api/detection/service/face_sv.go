package detectionService

import (
	"VisionAPI/internal/api/detection"
	"VisionAPI/internal/entity"
	contextPkg "VisionAPI/pkg/context"
	"VisionAPI/pkg/response"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const narrativePrompt = "The detected emotion is %s. Can you provide a brief narrative about what this emotion might represent in the context of a pet's behavior?"

func (s *detectionService) DetectFaces(ctx context.Context, req detection.DetectionRequest) (*entity.DetectionResponse, error) {
	resp, _, err := s.detect(ctx, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *detectionService) DetectFacesWithNarrative(ctx context.Context, req detection.DetectionRequest) (*detection.NarrativeResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	resp, _, err := s.detect(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &detection.NarrativeResponse{DetectionResponse: resp}

	dominant := resp.Faces[0].DominantEmotion()
	if dominant == nil || dominant.Label == entity.EmotionUnknown {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"image":      resp.ImageURL,
		}).Info("No emotion to narrate")
		return out, nil
	}

	result, err := s.generate(ctx, entity.GenerationRequest{
		Kind:   entity.GenerationText,
		Prompt: fmt.Sprintf(narrativePrompt, dominant.Label),
	})
	if err != nil {
		return nil, err
	}

	out.Narrative = result.Text
	return out, nil
}

// detect runs object lookup, face detection and normalization. It returns
// the object key that was analysed.
func (s *detectionService) detect(ctx context.Context, req detection.DetectionRequest) (entity.DetectionResponse, string, error) {
	requestID := contextPkg.GetRequestID(ctx)
	key := s.objectKey(req.ImageName)

	meta, err := s.store.HeadObject(ctx, req.Bucket, key)
	if err != nil {
		var respErr *response.Error
		if errors.As(err, &respErr) && respErr.Kind == response.KindNotFound {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"bucket":     req.Bucket,
				"key":        key,
			}).Warn("Image not found")
			return entity.DetectionResponse{}, key, response.Wrap(detection.ErrImageNotFound, err)
		}
		return entity.DetectionResponse{}, key, err
	}

	raw, err := s.detector.DetectFaces(ctx, req.Bucket, key)
	if err != nil {
		return entity.DetectionResponse{}, key, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"bucket":     req.Bucket,
		"key":        key,
		"faces":      len(raw.Faces),
	}).Debug("Faces detected")

	observed := meta.LastModified
	if observed.IsZero() {
		observed = s.now()
	}

	return s.normalizer.Normalize(raw, req.Bucket, key, observed), key, nil
}

func (s *detectionService) objectKey(imageName string) string {
	prefix := strings.Trim(s.cfg.KeyPrefix, "/")
	name := strings.TrimPrefix(imageName, "/")
	if prefix == "" || strings.HasPrefix(name, prefix+"/") {
		return name
	}
	return prefix + "/" + name
}
