package redis

import (
	"VisionAPI/internal/entity"
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationKeyDependsOnModelInputs(t *testing.T) {
	temp := 0.5
	base := entity.GenerationRequest{Kind: entity.GenerationText, Prompt: "tips for a Collie"}

	withTemp := base
	withTemp.Config.Temperature = &temp

	otherPrompt := base
	otherPrompt.Prompt = "tips for a Beagle"

	assert.Equal(t, GenerationKey(base), GenerationKey(base))
	assert.NotEqual(t, GenerationKey(base), GenerationKey(withTemp))
	assert.NotEqual(t, GenerationKey(base), GenerationKey(otherPrompt))
	assert.Contains(t, GenerationKey(base), keyPrefix)
}

func TestGetGenerationUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewWithClient(client, 0)
	defer cache.Close()

	_, found, err := cache.GetGeneration(context.Background(), entity.GenerationRequest{Prompt: "p"})
	require.Error(t, err)
	assert.False(t, found)
}
