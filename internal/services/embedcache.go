package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// WrapEmbeddingCache puts an in-process expirable LRU in front of the
// embedding calls of the given service. Text generation passes through
// untouched. Returns the service unchanged when caching is disabled.
func WrapEmbeddingCache(next GeminiService, size int, ttl time.Duration, log *zap.Logger) GeminiService {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}

	return &cachedEmbedderService{
		GeminiService: next,
		cache:         expirable.NewLRU[string, []float32](size, nil, ttl),
		logger:        log,
	}
}

type cachedEmbedderService struct {
	GeminiService
	cache  *expirable.LRU[string, []float32]
	logger *zap.Logger
}

func (c *cachedEmbedderService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// GenerateEmbeddings serves cached vectors where possible and embeds only
// the misses, in one backend call, preserving input order.
func (c *cachedEmbedderService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if cached, ok := c.cache.Get(c.cacheKey(text)); ok {
			vectors[i] = cloneVector(cached)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		c.logger.Debug("embedding cache hit for full batch", zap.Int("batch_size", len(texts)))
		return vectors, nil
	}

	fresh, err := c.GeminiService.GenerateEmbeddings(ctx, missing)
	if err != nil {
		return nil, err
	}

	for j, vector := range fresh {
		vectors[missingIdx[j]] = vector
		c.cache.Add(c.cacheKey(missing[j]), cloneVector(vector))
	}

	c.logger.Debug("embedding cache partial hit",
		zap.Int("batch_size", len(texts)),
		zap.Int("misses", len(missing)),
	)

	return vectors, nil
}

func (c *cachedEmbedderService) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.EmbedModel() + "\x00" + text))
	return fmt.Sprintf("%x", sum[:])
}

func cloneVector(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
