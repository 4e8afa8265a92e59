package bedrock

import (
	"VisionAPI/internal/entity"
	"VisionAPI/pkg/awsclient"
	"VisionAPI/pkg/response"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/bedrockruntime"
	"github.com/aws/aws-sdk-go/service/bedrockruntime/bedrockruntimeiface"
	jsoniter "github.com/json-iterator/go"
)

const (
	serviceName = "bedrock"

	DefaultTextModel  = "amazon.titan-text-express-v1"
	DefaultImageModel = "amazon.titan-image-generator-v2:0"
)

var (
	jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

	ErrMalformedResponse = response.NewError(response.KindUpstream, http.StatusBadGateway, "bedrock returned an unreadable response")
	ErrNoOutput          = response.NewError(response.KindUpstream, http.StatusBadGateway, "bedrock returned no output")
)

type IBedrock interface {
	Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error)
}

type bedrockClient struct {
	client     bedrockruntimeiface.BedrockRuntimeAPI
	textModel  string
	imageModel string
}

func New(sess *session.Session, textModel string, imageModel string) IBedrock {
	return NewWithClient(bedrockruntime.New(sess), textModel, imageModel)
}

func NewWithClient(client bedrockruntimeiface.BedrockRuntimeAPI, textModel string, imageModel string) IBedrock {
	if textModel == "" {
		textModel = DefaultTextModel
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	return &bedrockClient{
		client:     client,
		textModel:  textModel,
		imageModel: imageModel,
	}
}

type titanTextRequest struct {
	InputText            string              `json:"inputText"`
	TextGenerationConfig titanTextGeneration `json:"textGenerationConfig"`
}

type titanTextGeneration struct {
	MaxTokenCount int     `json:"maxTokenCount"`
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"topP"`
}

type titanTextResponse struct {
	Results []struct {
		OutputText       string `json:"outputText"`
		CompletionReason string `json:"completionReason"`
	} `json:"results"`
}

type titanImageRequest struct {
	TaskType              string               `json:"taskType"`
	TextToImageParams     titanTextToImage     `json:"textToImageParams"`
	ImageGenerationConfig titanImageGeneration `json:"imageGenerationConfig"`
}

type titanTextToImage struct {
	Text string `json:"text"`
}

type titanImageGeneration struct {
	CfgScale       float64 `json:"cfgScale"`
	Seed           int     `json:"seed"`
	Quality        string  `json:"quality"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	NumberOfImages int     `json:"numberOfImages"`
}

type titanImageResponse struct {
	Images []string `json:"images"`
	Error  *string  `json:"error"`
}

func (b *bedrockClient) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	switch req.Kind {
	case entity.GenerationImage:
		return b.generateImage(ctx, req)
	default:
		return b.generateText(ctx, req)
	}
}

func (b *bedrockClient) generateText(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	modelID := req.ModelID
	if modelID == "" {
		modelID = b.textModel
	}

	cfg := req.Config
	payload := titanTextRequest{
		InputText: req.Prompt,
		TextGenerationConfig: titanTextGeneration{
			MaxTokenCount: orInt(cfg.MaxTokens, 500),
			Temperature:   orFloat(cfg.Temperature, 0.7),
			TopP:          orFloat(cfg.TopP, 0.9),
		},
	}

	var out titanTextResponse
	if err := b.invoke(ctx, modelID, payload, &out); err != nil {
		return nil, err
	}

	if len(out.Results) == 0 || strings.TrimSpace(out.Results[0].OutputText) == "" {
		return nil, ErrNoOutput
	}

	return &entity.GenerationResult{
		ModelID: modelID,
		Kind:    entity.GenerationText,
		Text:    strings.TrimSpace(out.Results[0].OutputText),
	}, nil
}

func (b *bedrockClient) generateImage(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	modelID := req.ModelID
	if modelID == "" {
		modelID = b.imageModel
	}

	cfg := req.Config
	payload := titanImageRequest{
		TaskType:          "TEXT_IMAGE",
		TextToImageParams: titanTextToImage{Text: req.Prompt},
		ImageGenerationConfig: titanImageGeneration{
			CfgScale:       8,
			Seed:           0,
			Quality:        "standard",
			Width:          orInt(cfg.Width, 1024),
			Height:         orInt(cfg.Height, 1024),
			NumberOfImages: orInt(cfg.NumberOfImages, 1),
		},
	}

	var out titanImageResponse
	if err := b.invoke(ctx, modelID, payload, &out); err != nil {
		return nil, err
	}

	if out.Error != nil && *out.Error != "" {
		return nil, response.Wrap(ErrNoOutput, errors.New(*out.Error))
	}
	if len(out.Images) == 0 {
		return nil, ErrNoOutput
	}

	return &entity.GenerationResult{
		ModelID: modelID,
		Kind:    entity.GenerationImage,
		Images:  out.Images,
	}, nil
}

func (b *bedrockClient) invoke(ctx context.Context, modelID string, payload interface{}, dst interface{}) error {
	body, err := jsonCodec.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal bedrock request: %w", err)
	}

	out, err := b.client.InvokeModelWithContext(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return awsclient.Classify(serviceName, err)
	}

	if err := jsonCodec.Unmarshal(out.Body, dst); err != nil {
		return response.Wrap(ErrMalformedResponse, err)
	}

	return nil
}

func orInt(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
