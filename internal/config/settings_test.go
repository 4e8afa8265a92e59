package config

import (
	"VisionAPI/pkg/response"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(env(map[string]string{"AWS_REGION": "us-east-1"}))
	require.NoError(t, err)

	assert.Equal(t, "3000", s.AppPort)
	assert.Equal(t, "s3.amazonaws.com", s.PublicURLDomain)
	assert.Equal(t, "America/Sao_Paulo", s.Location.String())
	assert.Equal(t, ProviderBedrock, s.GenerativeProvider)
	assert.Equal(t, DefaultMaxRetries, s.AWS.MaxRetries)
	assert.Zero(t, s.AWS.HTTPTimeout)
	assert.Empty(t, s.BucketAllowlist)
	assert.False(t, s.CacheEnabled())
}

func TestLoadSettingsFull(t *testing.T) {
	s, err := LoadSettings(env(map[string]string{
		"AWS_REGION":            "sa-east-1",
		"AWS_ACCESS_KEY_ID":     "AKID",
		"AWS_SECRET_ACCESS_KEY": "secret",
		"AWS_HTTP_TIMEOUT":      "15",
		"AWS_MAX_RETRIES":       "0",
		"BUCKET_ALLOWLIST":      "photos, pets ,,",
		"VISION_S3_DIR":         "myphotos/",
		"VISION_TIMEZONE":       "UTC",
		"GENERATIVE_PROVIDER":   "Gemini",
		"GEMINI_API_KEY":        "key",
		"REDIS_ADDRESS":         "localhost:6379",
		"REDIS_DB":              "2",
		"GENERATION_CACHE_TTL":  "1h",
		"RATE_LIMIT_RPS":        "2.5",
		"RATE_LIMIT_BURST":      "5",
	}))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, s.AWS.HTTPTimeout)
	assert.Equal(t, 0, s.AWS.MaxRetries)
	assert.Equal(t, []string{"photos", "pets"}, s.BucketAllowlist)
	assert.Equal(t, "myphotos/", s.KeyPrefix)
	assert.Equal(t, time.UTC.String(), s.Location.String())
	assert.Equal(t, ProviderGemini, s.GenerativeProvider)
	assert.True(t, s.CacheEnabled())
	assert.Equal(t, time.Hour, s.Redis.TTL)
	assert.Equal(t, 2.5, s.RateLimit.RequestsPerSecond)
	assert.Equal(t, 5, s.RateLimit.Burst)
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantKey string
	}{
		{name: "missing region", env: map[string]string{}, wantKey: "AWS_REGION"},
		{name: "half credentials", env: map[string]string{"AWS_REGION": "us-east-1", "AWS_ACCESS_KEY_ID": "AKID"}, wantKey: "AWS_SECRET_ACCESS_KEY"},
		{name: "bad timezone", env: map[string]string{"AWS_REGION": "us-east-1", "VISION_TIMEZONE": "Mars/Olympus"}, wantKey: "VISION_TIMEZONE"},
		{name: "bad timeout", env: map[string]string{"AWS_REGION": "us-east-1", "AWS_HTTP_TIMEOUT": "soon"}, wantKey: "AWS_HTTP_TIMEOUT"},
		{name: "bad retries", env: map[string]string{"AWS_REGION": "us-east-1", "AWS_MAX_RETRIES": "-1"}, wantKey: "AWS_MAX_RETRIES"},
		{name: "unknown provider", env: map[string]string{"AWS_REGION": "us-east-1", "GENERATIVE_PROVIDER": "vertex"}, wantKey: "GENERATIVE_PROVIDER"},
		{name: "openai without key", env: map[string]string{"AWS_REGION": "us-east-1", "GENERATIVE_PROVIDER": "openai"}, wantKey: "OPENAI_API_KEY"},
		{name: "gemini without key", env: map[string]string{"AWS_REGION": "us-east-1", "GENERATIVE_PROVIDER": "gemini"}, wantKey: "GEMINI_API_KEY"},
		{name: "bad redis db", env: map[string]string{"AWS_REGION": "us-east-1", "REDIS_DB": "zero"}, wantKey: "REDIS_DB"},
		{name: "bad burst", env: map[string]string{"AWS_REGION": "us-east-1", "RATE_LIMIT_BURST": "0"}, wantKey: "RATE_LIMIT_BURST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings(env(tt.env))
			require.Error(t, err)

			var respErr *response.Error
			require.True(t, errors.As(err, &respErr))
			assert.Equal(t, response.KindConfiguration, respErr.Kind)
			assert.Equal(t, http.StatusInternalServerError, respErr.Code)
			assert.Contains(t, respErr.Error(), tt.wantKey)
		})
	}
}

func TestLoadEnvIgnoresMissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoadEnvReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VISION_TEST_LOADENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("VISION_TEST_LOADENV") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "loaded", os.Getenv("VISION_TEST_LOADENV"))
}
