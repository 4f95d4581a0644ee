package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/models"
)

// ErrEmptyJobBatch aborts a run with no jobs to rank. Callers must be able
// to tell "nothing to rank" apart from a successful ranking, so this is
// never converted into an empty result.
var ErrEmptyJobBatch = errors.New("job batch is empty")

// MatcherService runs the two-stage ranking pipeline: similarity pre-filter
// over the whole batch, LLM rescoring of the top-K, stable final sort.
type MatcherService interface {
	MatchJobs(ctx context.Context, resume *models.Resume, jobs []models.JobPosting, topK int) ([]models.JobPosting, error)
}

type matcherService struct {
	ranker        SimilarityRanker
	rescorer      Rescorer
	promptBuilder *PromptBuilder
	cfg           config.MatcherConfig
	logger        *zap.Logger
}

func NewMatcherService(
	ranker SimilarityRanker,
	rescorer Rescorer,
	cfg config.MatcherConfig,
	log *zap.Logger,
) MatcherService {
	return &matcherService{
		ranker:        ranker,
		rescorer:      rescorer,
		promptBuilder: NewPromptBuilder(),
		cfg:           cfg,
		logger:        log,
	}
}

// MatchJobs implements MatcherService. The input slice is never mutated;
// every returned job carries a populated MatchResult. On a fatal error
// (empty batch, embedding backend failure, dimension mismatch) no partial
// result is returned.
func (m *matcherService) MatchJobs(ctx context.Context, resume *models.Resume, jobs []models.JobPosting, topK int) ([]models.JobPosting, error) {
	if len(jobs) == 0 {
		return nil, ErrEmptyJobBatch
	}

	m.logger.Info("matching resume against jobs", zap.Int("batch_size", len(jobs)))

	candidateText := m.promptBuilder.BuildCandidateText(resume)

	jobTexts := make([]string, len(jobs))
	for i, job := range jobs {
		jobTexts[i] = job.Description
	}

	scores, err := m.ranker.Rank(ctx, candidateText, jobTexts)
	if err != nil {
		return nil, fmt.Errorf("similarity ranking failed: %w", err)
	}

	// Work on a copy; similarity percentage acts as the interim final
	// score until rescoring overwrites it.
	ranked := make([]models.JobPosting, len(jobs))
	copy(ranked, jobs)
	for i := range ranked {
		similarity := scores[i]
		interim := roundTwoDecimals(similarity * 100)
		ranked[i].Match = models.MatchResult{
			SimilarityScore: &similarity,
			FinalScore:      &interim,
		}
	}

	sortByFinalScore(ranked)

	if m.cfg.UseLLMScoring {
		k := m.clampTopK(topK, len(ranked))

		m.logger.Info("llm rescoring top jobs", zap.Int("top_k", k))

		results := m.rescorer.ScoreBatch(ctx, resume, ranked[:k])
		for i := 0; i < k; i++ {
			similarityPct := *ranked[i].Match.FinalScore
			score := results[i].Score
			explanation := fmt.Sprintf("[Similarity: %.2f%% | LLM Score: %.2f%%]\n\n%s",
				similarityPct, score, results[i].Explanation)

			ranked[i].Match.FinalScore = &score
			ranked[i].Match.Explanation = &explanation
		}

		// Rescoring can reorder the top-K relative to similarity order.
		sortByFinalScore(ranked)
	}

	m.logger.Info("matching complete",
		zap.String("top_match", ranked[0].JobTitle),
		zap.Float64("top_score", *ranked[0].Match.FinalScore),
	)

	return ranked, nil
}

// clampTopK resolves the caller-supplied top-K against the configured
// default and bound, and caps it at the batch size.
func (m *matcherService) clampTopK(topK, batchSize int) int {
	if topK <= 0 {
		topK = m.cfg.TopK
	}
	if m.cfg.MaxTopK > 0 && topK > m.cfg.MaxTopK {
		topK = m.cfg.MaxTopK
	}
	if topK > batchSize {
		topK = batchSize
	}
	if topK < 1 {
		topK = 1
	}
	return topK
}

// sortByFinalScore sorts descending, stable on ties so earlier order wins.
func sortByFinalScore(jobs []models.JobPosting) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return finalScore(jobs[i]) > finalScore(jobs[j])
	})
}

func finalScore(job models.JobPosting) float64 {
	if job.Match.FinalScore == nil {
		return 0
	}
	return *job.Match.FinalScore
}

func roundTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}
