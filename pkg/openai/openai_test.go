package openai

import (
	"VisionAPI/internal/entity"
	"VisionAPI/pkg/response"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) IChatGPT {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewWithConfig(cfg, "", "")
}

func TestGenerateText(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":" Herding dogs need work. "}}]}`))
	})

	temp := 0.7
	res, err := client.Generate(context.Background(), entity.GenerationRequest{
		Prompt: "tips for a Collie",
		Config: entity.GenerationConfig{MaxTokens: 500, Temperature: &temp},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultChatModel, got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "tips for a Collie", got.Messages[0].Content)
	assert.Equal(t, "Herding dogs need work.", res.Text)
}

func TestGenerateImage(t *testing.T) {
	var got openai.ImageRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[{"b64_json":"aW1n"},{"b64_json":"aW1nMg=="}]}`))
	})

	res, err := client.Generate(context.Background(), entity.GenerationRequest{
		Kind:   entity.GenerationImage,
		Prompt: "a sheepdog",
		Config: entity.GenerationConfig{NumberOfImages: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, got.N)
	assert.Equal(t, openai.CreateImageResponseFormatB64JSON, got.ResponseFormat)
	assert.Equal(t, []string{"aW1n", "aW1nMg=="}, res.Images)
}

func TestGenerateRejectedByAPI(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	_, err := client.Generate(context.Background(), entity.GenerationRequest{Prompt: "p"})

	var respErr *response.Error
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusBadGateway, respErr.Code)
	assert.NotContains(t, respErr.Error(), "API key")
}

func TestGenerateEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Generate(context.Background(), entity.GenerationRequest{Prompt: "p"})
	assert.True(t, errors.Is(err, ErrNoOutput))
}

func TestGenerateTransportFailure(t *testing.T) {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = "http://127.0.0.1:1/v1"

	_, err := NewWithConfig(cfg, "", "").Generate(context.Background(), entity.GenerationRequest{Prompt: "p"})

	var respErr *response.Error
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusInternalServerError, respErr.Code)
}

func TestNewChatGPTRequiresKey(t *testing.T) {
	_, err := NewChatGPT("", "", "")
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}
