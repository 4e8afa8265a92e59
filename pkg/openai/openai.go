package openai

import (
	"VisionAPI/internal/entity"
	"VisionAPI/pkg/response"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultChatModel  = openai.GPT4oMini
	DefaultImageModel = openai.CreateImageModelDallE2
)

var (
	ErrMissingAPIKey = response.NewError(response.KindConfiguration, http.StatusInternalServerError, "openai API key is required")
	ErrNoOutput      = response.NewError(response.KindUpstream, http.StatusBadGateway, "openai returned no output")
	ErrRejected      = response.NewError(response.KindUpstream, http.StatusBadGateway, "openai rejected the request")
	ErrUnavailable   = response.NewError(response.KindUpstream, http.StatusInternalServerError, "openai request failed")
)

type IChatGPT interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error)
}

type chatGPTService struct {
	client     *openai.Client
	model      string
	imageModel string
}

func NewChatGPT(apiKey string, model string, imageModel string) (IChatGPT, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return NewWithConfig(openai.DefaultConfig(apiKey), model, imageModel), nil
}

func NewWithConfig(cfg openai.ClientConfig, model string, imageModel string) IChatGPT {
	if model == "" {
		model = DefaultChatModel
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}

	return &chatGPTService{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		imageModel: imageModel,
	}
}

func (c *chatGPTService) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	if req.Kind == entity.GenerationImage {
		return c.generateImage(ctx, req)
	}
	return c.generateText(ctx, req)
}

func (c *chatGPTService) generateText(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	model := req.ModelID
	if model == "" {
		model = c.model
	}

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens: req.Config.MaxTokens,
	}
	if req.Config.Temperature != nil {
		chatReq.Temperature = float32(*req.Config.Temperature)
	}
	if req.Config.TopP != nil {
		chatReq.TopP = float32(*req.Config.TopP)
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ErrNoOutput
	}

	return &entity.GenerationResult{
		ModelID: model,
		Kind:    entity.GenerationText,
		Text:    strings.TrimSpace(resp.Choices[0].Message.Content),
	}, nil
}

func (c *chatGPTService) generateImage(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	model := req.ModelID
	if model == "" {
		model = c.imageModel
	}

	n := req.Config.NumberOfImages
	if n <= 0 {
		n = 1
	}

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          model,
		N:              n,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, classify(err)
	}

	images := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.B64JSON != "" {
			images = append(images, d.B64JSON)
		}
	}
	if len(images) == 0 {
		return nil, ErrNoOutput
	}

	return &entity.GenerationResult{
		ModelID: model,
		Kind:    entity.GenerationImage,
		Images:  images,
	}, nil
}

// classify treats any answer from the API as a rejection and everything
// else as a transport failure.
func classify(err error) error {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	if errors.As(err, &apiErr) || errors.As(err, &reqErr) {
		return response.Wrap(ErrRejected, err)
	}
	return response.Wrap(ErrUnavailable, err)
}
