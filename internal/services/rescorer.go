package services

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
)

const (
	scorePrefix       = "SCORE:"
	explanationPrefix = "EXPLANATION:"

	// fallbackExplanation is returned when the model response has no
	// recognizable score or explanation line.
	fallbackExplanation = "Could not parse model response"

	// failureExplanation is returned when the model call itself failed.
	failureExplanation = "Scoring failed"
)

type textGenerator interface {
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

// RescoreResult is the outcome for one job: a score in [0,100] and an
// explanation. Degraded jobs (call failure, unparsable response) carry
// score 0 and a fixed explanation; there is no error variant, so a batch
// always yields one result per job.
type RescoreResult struct {
	Score       float64
	Explanation string
}

// Rescorer asks the LLM for a precise 0-100 match score per job.
type Rescorer interface {
	Score(ctx context.Context, resume *models.Resume, job models.JobPosting) RescoreResult
	ScoreBatch(ctx context.Context, resume *models.Resume, jobs []models.JobPosting) []RescoreResult
}

type llmRescorer struct {
	generator     textGenerator
	promptBuilder *PromptBuilder
	temperature   float32
	maxRetries    int
	concurrency   int
	logger        *zap.Logger
}

func NewLLMRescorer(generator textGenerator, temperature float32, maxRetries, concurrency int, log *zap.Logger) Rescorer {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if concurrency < 1 {
		concurrency = 1
	}

	return &llmRescorer{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		temperature:   temperature,
		maxRetries:    maxRetries,
		concurrency:   concurrency,
		logger:        log,
	}
}

// Score implements Rescorer. A failed call or unparsable response degrades
// to a zero score for this job only; it never propagates an error.
func (r *llmRescorer) Score(ctx context.Context, resume *models.Resume, job models.JobPosting) RescoreResult {
	prompt := r.promptBuilder.BuildMatchPrompt(resume, job)

	r.logger.Debug("rescoring job",
		zap.String("job_title", job.JobTitle),
		zap.Int("prompt_length", len(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, 200)),
	)

	raw, err := r.generator.GenerateTextWithRetry(ctx, prompt, r.temperature, r.maxRetries)
	if err != nil {
		r.logger.Warn("llm scoring failed",
			zap.String("job_title", job.JobTitle),
			zap.Error(err),
		)
		return RescoreResult{Score: 0, Explanation: failureExplanation}
	}

	parsed, ok := parseScoreResponse(raw)
	if !ok {
		r.logger.Warn("llm response not parsable",
			zap.String("job_title", job.JobTitle),
			zap.String("response_preview", logger.TruncateForLog(raw, 200)),
		)
		return RescoreResult{Score: 0, Explanation: fallbackExplanation}
	}

	r.logger.Debug("llm scored job",
		zap.String("job_title", job.JobTitle),
		zap.Float64("score", parsed.Score),
	)

	return parsed
}

// ScoreBatch implements Rescorer. Calls are dispatched across a bounded set
// of goroutines; results associate with jobs by index regardless of
// completion order. One job's failure never poisons its siblings.
func (r *llmRescorer) ScoreBatch(ctx context.Context, resume *models.Resume, jobs []models.JobPosting) []RescoreResult {
	results := make([]RescoreResult, len(jobs))

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = r.Score(ctx, resume, jobs[i])
		}(i)
	}

	wg.Wait()
	return results
}

// parseScoreResponse scans the response for the SCORE and EXPLANATION
// lines. The score is clamped into [0,100] regardless of what the model
// returned. If either field is absent or the score does not parse, the
// response is rejected as a whole (ok=false) and the caller degrades the
// job instead of failing the batch.
func parseScoreResponse(raw string) (RescoreResult, bool) {
	var (
		score     float64
		scoreOK   bool
		expl      string
		explFound bool
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if rest, found := strings.CutPrefix(line, scorePrefix); found && !scoreOK {
			value, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			if err != nil {
				continue
			}
			score = clampScore(value)
			scoreOK = true
			continue
		}

		if rest, found := strings.CutPrefix(line, explanationPrefix); found && !explFound {
			expl = strings.TrimSpace(rest)
			explFound = true
		}
	}

	if !scoreOK || !explFound || expl == "" {
		return RescoreResult{}, false
	}

	return RescoreResult{Score: score, Explanation: expl}, true
}

func clampScore(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
