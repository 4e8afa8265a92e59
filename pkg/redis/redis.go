package redis

import (
	"VisionAPI/internal/entity"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	keyPrefix  = "vision:generation:"
	DefaultTTL = 24 * time.Hour
)

type Config struct {
	Address  string
	Password string
	DB       string
	TTL      time.Duration
}

type IRedis interface {
	GetGeneration(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, bool, error)
	SetGeneration(ctx context.Context, req entity.GenerationRequest, result *entity.GenerationResult) error
	Close() error
}

type redisClient struct {
	client *redis.Client
	ttl    time.Duration
}

func New(cfg Config) IRedis {
	db, _ := strconv.Atoi(cfg.DB)

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", cfg.Address))

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return NewWithClient(client, cfg.TTL)
}

func NewWithClient(client *redis.Client, ttl time.Duration) IRedis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisClient{client: client, ttl: ttl}
}

// GenerationKey identifies a request by everything that changes the model
// output.
func GenerationKey(req entity.GenerationRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s|%s|%s", req.Kind, req.ModelID, req.Config.MaxTokens,
		floatKey(req.Config.Temperature), floatKey(req.Config.TopP), req.Prompt)
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func floatKey(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func (r *redisClient) GetGeneration(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, bool, error) {
	key := GenerationKey(req)
	logrus.Debug(fmt.Sprintf("Getting generation for key %s", key))

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("Generation not found for key %s", key))
		return nil, false, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting generation for key %s: %v", key, err))
		return nil, false, err
	}

	var result entity.GenerationResult
	if err := jsoniter.Unmarshal(val, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached generation: %w", err)
	}

	return &result, true, nil
}

func (r *redisClient) SetGeneration(ctx context.Context, req entity.GenerationRequest, result *entity.GenerationResult) error {
	key := GenerationKey(req)

	raw, err := jsoniter.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode generation: %w", err)
	}

	logrus.Debug(fmt.Sprintf("Setting generation for key %s with expiration %v", key, r.ttl))
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting generation for key %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
