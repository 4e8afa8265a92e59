package detectionHandler

import (
	"VisionAPI/internal/api/detection"
	contextPkg "VisionAPI/pkg/context"
	"VisionAPI/pkg/log"

	"golang.org/x/net/context"
)

const healthMessage = "Server is Healthy!"

func (h *DetectionHandler) Health(_ context.Context, in Input) (interface{}, error) {
	return detection.HealthResponse{
		Message: healthMessage,
		Input:   in.Event,
	}, nil
}

func (h *DetectionHandler) DescribeV1(_ context.Context, _ Input) (interface{}, error) {
	return detection.MessageResponse{Message: "VISION api version 1."}, nil
}

func (h *DetectionHandler) DescribeV2(_ context.Context, _ Input) (interface{}, error) {
	return detection.MessageResponse{Message: "VISION api version 2."}, nil
}

func (h *DetectionHandler) DetectFaces(ctx context.Context, in Input) (interface{}, error) {
	req, err := h.validator.DetectionRequest(in.Body)
	if err != nil {
		return nil, err
	}

	h.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"bucket":     req.Bucket,
		"image":      req.ImageName,
		"type":       detection.FaceDetection,
	}).Debug("Detecting faces")

	return h.detectionService.DetectFaces(ctx, req)
}

func (h *DetectionHandler) DetectFacesWithNarrative(ctx context.Context, in Input) (interface{}, error) {
	req, err := h.validator.DetectionRequest(in.Body)
	if err != nil {
		return nil, err
	}

	h.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"bucket":     req.Bucket,
		"image":      req.ImageName,
		"type":       detection.NarrativeDetection,
	}).Debug("Detecting faces with narrative")

	return h.detectionService.DetectFacesWithNarrative(ctx, req)
}

func (h *DetectionHandler) DetectPets(ctx context.Context, in Input) (interface{}, error) {
	req, err := h.validator.DetectionRequest(in.Body)
	if err != nil {
		return nil, err
	}

	h.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"bucket":     req.Bucket,
		"image":      req.ImageName,
		"type":       detection.PetDetection,
	}).Debug("Detecting pets")

	return h.detectionService.DetectPets(ctx, req)
}

func (h *DetectionHandler) Generate(ctx context.Context, in Input) (interface{}, error) {
	req, err := h.validator.GenerateRequest(in.Body)
	if err != nil {
		return nil, err
	}

	h.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"kind":       req.Kind,
		"type":       detection.Generation,
	}).Debug("Generating content")

	return h.detectionService.Generate(ctx, req)
}
