package detectionService

import (
	"VisionAPI/internal/entity"
	contextPkg "VisionAPI/pkg/context"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type GenerationCache interface {
	GetGeneration(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, bool, error)
	SetGeneration(ctx context.Context, req entity.GenerationRequest, result *entity.GenerationResult) error
}

type cachedGenerator struct {
	log   *logrus.Logger
	next  Generator
	cache GenerationCache
}

// NewCachedGenerator serves repeated text prompts from the cache. Cache
// failures are logged and the call falls through to the model.
func NewCachedGenerator(log *logrus.Logger, next Generator, cache GenerationCache) Generator {
	return &cachedGenerator{
		log:   log,
		next:  next,
		cache: cache,
	}
}

func (g *cachedGenerator) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	if req.Kind == entity.GenerationImage {
		return g.next.Generate(ctx, req)
	}

	requestID := contextPkg.GetRequestID(ctx)

	cached, found, err := g.cache.GetGeneration(ctx, req)
	if err != nil {
		g.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Generation cache lookup failed")
	} else if found {
		g.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Debug("Generation served from cache")
		return cached, nil
	}

	result, err := g.next.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if result == nil || result.Text == "" {
		return result, nil
	}

	if err := g.cache.SetGeneration(ctx, req, result); err != nil {
		g.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to store generation in cache")
	}

	return result, nil
}
