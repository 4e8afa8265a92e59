package detectionService

import (
	"VisionAPI/internal/api/detection"
	"VisionAPI/internal/entity"
	contextPkg "VisionAPI/pkg/context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	petCategory      = "Animals and Pets"
	maxLabels        = 10
	minConfidence    = 75
	noPetsMessage    = "No pastor dogs detected"
	petTipsPrompt    = "I would like tips about herding dogs such as the %s. Please provide detailed information following the structure below:\nEnergy Level and Exercise Needs:\nTemperament and Behavior:\nCare and Needs:\nCommon Health Problems:\n"
	petTipsMaxTokens = 500
)

var genericPetLabels = map[string]struct{}{
	"Animal": {},
	"Canine": {},
	"Mammal": {},
	"Pet":    {},
	"Dog":    {},
}

func (s *detectionService) DetectPets(ctx context.Context, req detection.DetectionRequest) (*detection.PetResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	resp, key, err := s.detect(ctx, req)
	if err != nil {
		return nil, err
	}

	labels, err := s.detector.DetectLabels(ctx, req.Bucket, key, maxLabels, minConfidence)
	if err != nil {
		return nil, err
	}

	out := &detection.PetResponse{
		DetectionResponse: resp,
		Pets:              []entity.PetAnalysis{},
	}

	analysis := AnalyzePets(labels)
	if len(analysis.Labels) == 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"labels":     len(labels),
		}).Info("No pets detected")
		out.Message = noPetsMessage
		return out, nil
	}

	if analysis.Breed != "" {
		temperature, topP := 0.7, 0.9
		result, err := s.generate(ctx, entity.GenerationRequest{
			Kind:   entity.GenerationText,
			Prompt: fmt.Sprintf(petTipsPrompt, analysis.Breed),
			Config: entity.GenerationConfig{
				MaxTokens:   petTipsMaxTokens,
				Temperature: &temperature,
				TopP:        &topP,
			},
		})
		if err != nil {
			return nil, err
		}
		analysis.Tips = result.Text
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"breed":      analysis.Breed,
	}).Debug("Pet analysis completed")

	out.Pets = append(out.Pets, analysis)
	return out, nil
}

// AnalyzePets keeps the labels in the pets category and picks the first one
// that is more specific than a generic animal word as the breed.
func AnalyzePets(labels []entity.Label) entity.PetAnalysis {
	analysis := entity.PetAnalysis{Labels: []entity.Label{}}

	for _, l := range labels {
		if !l.InCategory(petCategory) {
			continue
		}
		analysis.Labels = append(analysis.Labels, l)

		if _, generic := genericPetLabels[l.Name]; !generic && analysis.Breed == "" {
			analysis.Breed = l.Name
		}
	}

	return analysis
}
