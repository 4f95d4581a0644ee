package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

var (
	// ErrEmbeddingBackend marks embedding failures that abort the whole
	// batch; the ranker never produces partial results.
	ErrEmbeddingBackend = errors.New("embedding backend unavailable")

	// ErrDimensionMismatch marks a batch whose vectors do not share one
	// dimension. A violated precondition, not a retryable condition.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

type batchEmbedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// SimilarityRanker scores a job batch against a candidate text by cosine
// similarity. It is a pure scoring function: the returned slice is parallel
// to jobTexts and nothing is sorted or mutated here.
type SimilarityRanker interface {
	Rank(ctx context.Context, candidateText string, jobTexts []string) ([]float64, error)
}

type similarityRanker struct {
	embedder batchEmbedder
	logger   *zap.Logger
}

func NewSimilarityRanker(embedder batchEmbedder, log *zap.Logger) SimilarityRanker {
	return &similarityRanker{
		embedder: embedder,
		logger:   log,
	}
}

// Rank implements SimilarityRanker. Candidate and jobs are embedded in a
// single backend batch, every vector is L2-normalized, and the score is the
// inner product — cosine similarity, left unclamped to preserve the raw
// signal.
func (r *similarityRanker) Rank(ctx context.Context, candidateText string, jobTexts []string) ([]float64, error) {
	if len(jobTexts) == 0 {
		return nil, ErrEmptyJobBatch
	}

	texts := make([]string, 0, len(jobTexts)+1)
	texts = append(texts, candidateText)
	texts = append(texts, jobTexts...)

	vectors, err := r.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingBackend, err)
	}

	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, fmt.Errorf("%w: empty candidate vector", ErrEmbeddingBackend)
	}

	for i, vector := range vectors[1:] {
		if len(vector) != dimension {
			return nil, fmt.Errorf("%w: job %d has dimension %d, want %d",
				ErrDimensionMismatch, i, len(vector), dimension)
		}
	}

	candidate := l2Normalize(toFloat64(vectors[0]))

	scores := make([]float64, len(jobTexts))
	for i, vector := range vectors[1:] {
		job := l2Normalize(toFloat64(vector))
		scores[i] = dotProduct(candidate, job)
	}

	r.logger.Debug("similarity ranking complete",
		zap.Int("batch_size", len(jobTexts)),
		zap.Int("dimension", dimension),
	)

	return scores, nil
}

func toFloat64(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// l2Normalize scales the vector to unit length. A zero vector is returned
// unchanged so its similarity with anything is zero.
func l2Normalize(vector []float64) []float64 {
	var sum float64
	for _, v := range vector {
		sum += v * v
	}
	if sum == 0 {
		return vector
	}

	norm := math.Sqrt(sum)
	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = v / norm
	}
	return out
}

func dotProduct(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
