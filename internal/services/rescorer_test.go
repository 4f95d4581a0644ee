package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
)

type stubGenerator struct {
	respond func(prompt string) (string, error)
}

func (s *stubGenerator) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return s.respond(prompt)
}

func fixedResponse(response string) *stubGenerator {
	return &stubGenerator{respond: func(string) (string, error) {
		return response, nil
	}}
}

func TestParseScoreResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantOK  bool
		wantRes RescoreResult
	}{
		{
			name:    "well formed",
			raw:     "SCORE: 85\nEXPLANATION: Strong technical overlap.",
			wantOK:  true,
			wantRes: RescoreResult{Score: 85, Explanation: "Strong technical overlap."},
		},
		{
			name:    "score above range clamps to 100",
			raw:     "SCORE: 150\nEXPLANATION: Overly enthusiastic model.",
			wantOK:  true,
			wantRes: RescoreResult{Score: 100, Explanation: "Overly enthusiastic model."},
		},
		{
			name:    "negative score clamps to 0",
			raw:     "SCORE: -12.5\nEXPLANATION: Poor match.",
			wantOK:  true,
			wantRes: RescoreResult{Score: 0, Explanation: "Poor match."},
		},
		{
			name:    "decimal score",
			raw:     "SCORE: 72.5\nEXPLANATION: Decent fit.",
			wantOK:  true,
			wantRes: RescoreResult{Score: 72.5, Explanation: "Decent fit."},
		},
		{
			name:    "surrounding prose is tolerated",
			raw:     "Sure, here is my evaluation:\n\n  SCORE: 60\n  EXPLANATION: Some gaps remain.\n\nLet me know if you need more.",
			wantOK:  true,
			wantRes: RescoreResult{Score: 60, Explanation: "Some gaps remain."},
		},
		{
			name:   "missing score line",
			raw:    "EXPLANATION: Looks fine to me.",
			wantOK: false,
		},
		{
			name:   "missing explanation line",
			raw:    "SCORE: 90",
			wantOK: false,
		},
		{
			name:   "unparsable score",
			raw:    "SCORE: ninety\nEXPLANATION: Good match.",
			wantOK: false,
		},
		{
			name:   "empty explanation",
			raw:    "SCORE: 50\nEXPLANATION:",
			wantOK: false,
		},
		{
			name:   "empty response",
			raw:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := parseScoreResponse(tt.raw)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantRes, result)
			}
		})
	}
}

func TestScoreDegradesOnCallFailure(t *testing.T) {
	generator := &stubGenerator{respond: func(string) (string, error) {
		return "", errors.New("backend down")
	}}
	rescorer := NewLLMRescorer(generator, 0.3, 1, 1, zap.NewNop())

	result := rescorer.Score(context.Background(), &models.Resume{}, models.JobPosting{JobTitle: "Engineer"})
	assert.Zero(t, result.Score)
	assert.Equal(t, "Scoring failed", result.Explanation)
}

func TestScoreDegradesOnUnparsableResponse(t *testing.T) {
	rescorer := NewLLMRescorer(fixedResponse("I cannot evaluate this."), 0.3, 1, 1, zap.NewNop())

	result := rescorer.Score(context.Background(), &models.Resume{}, models.JobPosting{JobTitle: "Engineer"})
	assert.Zero(t, result.Score)
	assert.Equal(t, "Could not parse model response", result.Explanation)
}

func TestScoreBatchAssociatesByIndex(t *testing.T) {
	// Score each job by a number embedded in its title, independent of
	// goroutine completion order.
	generator := &stubGenerator{respond: func(prompt string) (string, error) {
		for i := 0; i < 5; i++ {
			if strings.Contains(prompt, fmt.Sprintf("Job-%d", i)) {
				return fmt.Sprintf("SCORE: %d0\nEXPLANATION: Match for job %d.", i+1, i), nil
			}
		}
		return "", errors.New("unknown job")
	}}
	rescorer := NewLLMRescorer(generator, 0.3, 1, 3, zap.NewNop())

	jobs := make([]models.JobPosting, 5)
	for i := range jobs {
		jobs[i] = models.JobPosting{JobTitle: fmt.Sprintf("Job-%d", i)}
	}

	results := rescorer.ScoreBatch(context.Background(), &models.Resume{}, jobs)
	require.Len(t, results, 5)

	for i, result := range results {
		assert.Equal(t, float64((i+1)*10), result.Score)
		assert.Equal(t, fmt.Sprintf("Match for job %d.", i), result.Explanation)
	}
}

func TestScoreBatchIsolatesFailures(t *testing.T) {
	generator := &stubGenerator{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Broken") {
			return "", errors.New("timeout")
		}
		return "SCORE: 80\nEXPLANATION: Solid candidate.", nil
	}}
	rescorer := NewLLMRescorer(generator, 0.3, 1, 2, zap.NewNop())

	jobs := []models.JobPosting{
		{JobTitle: "Healthy"},
		{JobTitle: "Broken"},
		{JobTitle: "Healthy Too"},
	}

	results := rescorer.ScoreBatch(context.Background(), &models.Resume{}, jobs)
	require.Len(t, results, 3)

	assert.Equal(t, 80.0, results[0].Score)
	assert.Zero(t, results[1].Score)
	assert.Equal(t, "Scoring failed", results[1].Explanation)
	assert.Equal(t, 80.0, results[2].Score)
}
