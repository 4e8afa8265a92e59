package entity

type GenerationKind string

const (
	GenerationText  GenerationKind = "text"
	GenerationImage GenerationKind = "image"
)

type GenerationConfig struct {
	MaxTokens      int
	Temperature    *float64
	TopP           *float64
	NumberOfImages int
	Width          int
	Height         int
}

type GenerationRequest struct {
	Kind    GenerationKind
	ModelID string
	Prompt  string
	Config  GenerationConfig
}

type GenerationResult struct {
	ModelID   string         `json:"modelId"`
	Kind      GenerationKind `json:"kind"`
	Text      string         `json:"text,omitempty"`
	Images    []string       `json:"images,omitempty"`
	ImageURLs []string       `json:"imageUrls,omitempty"`
}
