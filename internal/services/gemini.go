package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/job-matcher/internal/logger"
)

// maxEmbedChars bounds the text sent to the embedding model (~10k tokens).
const maxEmbedChars = 40000

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
	EmbedModel() string
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	logger     *zap.Logger
}

func NewGeminiService(apiKey, model, embedModel string, log *zap.Logger) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}
	if embedModel == "" {
		embedModel = "text-embedding-004"
	}

	return &geminiService{
		client:     client,
		modelName:  model,
		embedModel: embedModel,
		logger:     log,
	}, nil
}

// EmbedModel implements GeminiService.
func (g *geminiService) EmbedModel() string {
	return g.embedModel
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// GenerateEmbeddings implements GeminiService. All texts are embedded in a
// single backend call; the returned slice is parallel to the input.
func (g *geminiService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		if len(text) > maxEmbedChars {
			text = text[:maxEmbedChars]
		}
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding result count mismatch: want %d, got %d",
			len(texts), len(result.Embeddings))
	}

	vectors := make([][]float32, len(texts))
	for i, embedding := range result.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", i)
		}
		vectors[i] = embedding.Values
	}

	return vectors, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	g.logger.Debug("gemini response received",
		zap.Int("response_length", len(text)),
		zap.String("response_preview", logger.TruncateForLog(text, 200)),
	)

	return text, nil
}

// GenerateTextWithRetry implements GeminiService.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < maxRetries {
			g.logger.Warn("gemini generation attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
