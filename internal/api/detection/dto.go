package detection

import "VisionAPI/internal/entity"

type DetectionRequest struct {
	Bucket    string `json:"bucket" validate:"required"`
	ImageName string `json:"imageName" validate:"required"`
}

type GenerateRequest struct {
	Prompt         string   `json:"prompt" validate:"required,max=8000"`
	Kind           string   `json:"kind" validate:"omitempty,oneof=text image"`
	ModelID        string   `json:"modelId" validate:"omitempty,max=256"`
	MaxTokens      int      `json:"maxTokens" validate:"omitempty,min=1,max=8192"`
	Temperature    *float64 `json:"temperature" validate:"omitempty,min=0,max=1"`
	TopP           *float64 `json:"topP" validate:"omitempty,min=0,max=1"`
	NumberOfImages int      `json:"numberOfImages" validate:"omitempty,min=1,max=5"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Message string      `json:"message"`
	Input   interface{} `json:"input"`
}

type NarrativeResponse struct {
	entity.DetectionResponse
	Narrative string `json:"narrative"`
}

type PetResponse struct {
	entity.DetectionResponse
	Pets    []entity.PetAnalysis `json:"pets"`
	Message string               `json:"message,omitempty"`
}

type DetectionType string

const (
	FaceDetection      DetectionType = "FACE"
	NarrativeDetection DetectionType = "NARRATIVE"
	PetDetection       DetectionType = "PET"
	Generation         DetectionType = "GENERATION"
)
