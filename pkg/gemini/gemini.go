package gemini

import (
	"VisionAPI/internal/entity"
	"VisionAPI/pkg/response"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

var (
	ErrMissingAPIKey     = response.NewError(response.KindConfiguration, http.StatusInternalServerError, "gemini API key is required")
	ErrImageNotSupported = response.NewError(response.KindValidation, http.StatusBadRequest, "image generation is not available with the gemini provider")
	ErrNoOutput          = response.NewError(response.KindUpstream, http.StatusBadGateway, "gemini returned no output")
	ErrRejected          = response.NewError(response.KindUpstream, http.StatusBadGateway, "gemini rejected the request")
	ErrUnavailable       = response.NewError(response.KindUpstream, http.StatusInternalServerError, "gemini request failed")
)

type IGemini interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error)
	Close() error
}

type contentModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type modelFactory func(name string, cfg genai.GenerationConfig) contentModel

type geminiClient struct {
	modelName string
	client    *genai.Client
	newModel  modelFactory
}

func NewGeminiClient(ctx context.Context, apiKey string, modelName string) (IGemini, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, response.Wrap(ErrUnavailable, err)
	}

	g := newWithFactory(modelName, func(name string, cfg genai.GenerationConfig) contentModel {
		model := client.GenerativeModel(name)
		model.GenerationConfig = cfg
		return model
	})
	g.client = client

	return g, nil
}

func newWithFactory(modelName string, factory modelFactory) *geminiClient {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &geminiClient{
		modelName: modelName,
		newModel:  factory,
	}
}

func (g *geminiClient) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	if req.Kind == entity.GenerationImage {
		return nil, ErrImageNotSupported
	}

	modelName := req.ModelID
	if modelName == "" {
		modelName = g.modelName
	}

	model := g.newModel(modelName, generationConfig(req.Config))

	res, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, classify(err)
	}

	text := extractText(res)
	if text == "" {
		return nil, ErrNoOutput
	}

	return &entity.GenerationResult{
		ModelID: modelName,
		Kind:    entity.GenerationText,
		Text:    text,
	}, nil
}

func (g *geminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func generationConfig(cfg entity.GenerationConfig) genai.GenerationConfig {
	var out genai.GenerationConfig
	if cfg.MaxTokens > 0 {
		out.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}
	if cfg.Temperature != nil {
		out.SetTemperature(float32(*cfg.Temperature))
	}
	if cfg.TopP != nil {
		out.SetTopP(float32(*cfg.TopP))
	}
	return out
}

func extractText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}

// classify maps a google API error to a rejected call; everything else is a
// transport failure.
func classify(err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return response.Wrap(ErrRejected, err)
	}
	return response.Wrap(ErrUnavailable, err)
}
