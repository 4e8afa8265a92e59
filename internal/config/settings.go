package config

import (
	"VisionAPI/internal/api/detection"
	"VisionAPI/internal/middleware"
	"VisionAPI/pkg/awsclient"
	"VisionAPI/pkg/redis"
	"VisionAPI/pkg/response"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"

	DefaultTimezone   = "America/Sao_Paulo"
	DefaultMaxRetries = 3
	DefaultPort       = "3000"
)

type Settings struct {
	AppEnv  string
	AppPort string

	AWS awsclient.Config

	BucketName      string
	BucketAllowlist []string
	KeyPrefix       string
	PublicURLDomain string
	Location        *time.Location

	GenerativeProvider    string
	BedrockTextModel      string
	BedrockImageModel     string
	GeminiAPIKey          string
	GeminiModel           string
	OpenAIAPIKey          string
	OpenAIChatModel       string
	OpenAIImageModel      string
	GeneratedImagesBucket string

	Redis     redis.Config
	RateLimit middleware.Config
}

// LoadEnv reads the given .env files into the process environment. Missing
// files are ignored so deployments can rely on real environment variables.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func configError(format string, args ...interface{}) error {
	return response.NewError(response.KindConfiguration, http.StatusInternalServerError, fmt.Sprintf(format, args...))
}

// LoadSettings reads every recognized key through getenv. Any missing or
// malformed value is a ConfigurationError naming the key.
func LoadSettings(getenv func(string) string) (*Settings, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	s := &Settings{
		AppEnv:                get("APP_ENV"),
		AppPort:               get("APP_PORT"),
		BucketName:            get("BUCKET_NAME"),
		KeyPrefix:             get("VISION_S3_DIR"),
		PublicURLDomain:       get("PUBLIC_URL_DOMAIN"),
		GenerativeProvider:    strings.ToLower(get("GENERATIVE_PROVIDER")),
		BedrockTextModel:      get("BEDROCK_TEXT_MODEL_ID"),
		BedrockImageModel:     get("BEDROCK_IMAGE_MODEL_ID"),
		GeminiAPIKey:          get("GEMINI_API_KEY"),
		GeminiModel:           get("GEMINI_MODEL_NAME"),
		OpenAIAPIKey:          get("OPENAI_API_KEY"),
		OpenAIChatModel:       get("OPENAI_CHAT_MODEL"),
		OpenAIImageModel:      get("OPENAI_IMAGE_MODEL"),
		GeneratedImagesBucket: get("GENERATED_IMAGES_BUCKET"),
		Redis: redis.Config{
			Address:  get("REDIS_ADDRESS"),
			Password: get("REDIS_PASSWORD"),
			DB:       get("REDIS_DB"),
		},
	}

	if s.AppPort == "" {
		s.AppPort = DefaultPort
	}
	if s.PublicURLDomain == "" {
		s.PublicURLDomain = detection.DefaultURLDomain
	}

	s.AWS = awsclient.Config{
		Region:          get("AWS_REGION"),
		AccessKeyID:     get("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: get("AWS_SECRET_ACCESS_KEY"),
		MaxRetries:      DefaultMaxRetries,
	}
	if s.AWS.Region == "" {
		return nil, configError("AWS_REGION is required")
	}
	if (s.AWS.AccessKeyID == "") != (s.AWS.SecretAccessKey == "") {
		return nil, configError("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
	}

	var err error
	if s.AWS.HTTPTimeout, err = parseDuration("AWS_HTTP_TIMEOUT", get("AWS_HTTP_TIMEOUT")); err != nil {
		return nil, err
	}
	if raw := get("AWS_MAX_RETRIES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, configError("AWS_MAX_RETRIES must be a non-negative integer")
		}
		s.AWS.MaxRetries = n
	}

	tz := get("VISION_TIMEZONE")
	if tz == "" {
		tz = DefaultTimezone
	}
	if s.Location, err = time.LoadLocation(tz); err != nil {
		return nil, configError("VISION_TIMEZONE %q is not a valid time zone", tz)
	}

	for _, b := range strings.Split(get("BUCKET_ALLOWLIST"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			s.BucketAllowlist = append(s.BucketAllowlist, b)
		}
	}

	switch s.GenerativeProvider {
	case "":
		s.GenerativeProvider = ProviderBedrock
	case ProviderBedrock:
	case ProviderGemini:
		if s.GeminiAPIKey == "" {
			return nil, configError("GEMINI_API_KEY is required when GENERATIVE_PROVIDER is gemini")
		}
	case ProviderOpenAI:
		if s.OpenAIAPIKey == "" {
			return nil, configError("OPENAI_API_KEY is required when GENERATIVE_PROVIDER is openai")
		}
	default:
		return nil, configError("GENERATIVE_PROVIDER must be one of %s, %s, %s", ProviderBedrock, ProviderGemini, ProviderOpenAI)
	}

	if s.Redis.DB != "" {
		if _, err := strconv.Atoi(s.Redis.DB); err != nil {
			return nil, configError("REDIS_DB must be an integer")
		}
	}
	if s.Redis.TTL, err = parseDuration("GENERATION_CACHE_TTL", get("GENERATION_CACHE_TTL")); err != nil {
		return nil, err
	}

	if raw := get("RATE_LIMIT_RPS"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return nil, configError("RATE_LIMIT_RPS must be a positive number")
		}
		s.RateLimit.RequestsPerSecond = rps
	}
	if raw := get("RATE_LIMIT_BURST"); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst <= 0 {
			return nil, configError("RATE_LIMIT_BURST must be a positive integer")
		}
		s.RateLimit.Burst = burst
	}

	return s, nil
}

// parseDuration accepts Go durations ("30s") or a bare number of seconds.
func parseDuration(key string, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, configError("%s must be a duration such as 30s", key)
	}
	return d, nil
}

func (s *Settings) CacheEnabled() bool {
	return s.Redis.Address != ""
}
