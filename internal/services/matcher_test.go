package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/models"
)

type fakeRanker struct {
	scores []float64
	err    error
}

func (f *fakeRanker) Rank(ctx context.Context, candidateText string, jobTexts []string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

type fakeRescorer struct {
	scoresByTitle map[string]float64
	scored        []string
}

func (f *fakeRescorer) Score(ctx context.Context, resume *models.Resume, job models.JobPosting) RescoreResult {
	f.scored = append(f.scored, job.JobTitle)
	return RescoreResult{
		Score:       f.scoresByTitle[job.JobTitle],
		Explanation: "Evaluated " + job.JobTitle,
	}
}

func (f *fakeRescorer) ScoreBatch(ctx context.Context, resume *models.Resume, jobs []models.JobPosting) []RescoreResult {
	results := make([]RescoreResult, len(jobs))
	for i, job := range jobs {
		results[i] = f.Score(ctx, resume, job)
	}
	return results
}

func matcherCfg(useLLM bool) config.MatcherConfig {
	return config.MatcherConfig{
		TopK:               10,
		MaxTopK:            20,
		UseLLMScoring:      useLLM,
		RescoreConcurrency: 2,
		Temperature:        0.3,
	}
}

func namedJobs(titles ...string) []models.JobPosting {
	jobs := make([]models.JobPosting, len(titles))
	for i, title := range titles {
		jobs[i] = models.JobPosting{JobTitle: title, Description: title + " description"}
	}
	return jobs
}

func TestMatchJobsEmptyBatch(t *testing.T) {
	matcher := NewMatcherService(&fakeRanker{}, &fakeRescorer{}, matcherCfg(false), zap.NewNop())

	_, err := matcher.MatchJobs(context.Background(), &models.Resume{}, nil, 0)
	assert.ErrorIs(t, err, ErrEmptyJobBatch)
}

func TestMatchJobsRankerErrorAbortsRun(t *testing.T) {
	ranker := &fakeRanker{err: fmt.Errorf("%w: down", ErrEmbeddingBackend)}
	matcher := NewMatcherService(ranker, &fakeRescorer{}, matcherCfg(false), zap.NewNop())

	ranked, err := matcher.MatchJobs(context.Background(), &models.Resume{}, namedJobs("a"), 0)
	assert.Nil(t, ranked)
	assert.ErrorIs(t, err, ErrEmbeddingBackend)
}

func TestMatchJobsSimilarityOnly(t *testing.T) {
	ranker := &fakeRanker{scores: []float64{0.42137, 0.91, 0.10}}
	matcher := NewMatcherService(ranker, &fakeRescorer{}, matcherCfg(false), zap.NewNop())

	jobs := namedJobs("middle", "best", "worst")
	ranked, err := matcher.MatchJobs(context.Background(), &models.Resume{}, jobs, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "best", ranked[0].JobTitle)
	assert.Equal(t, "middle", ranked[1].JobTitle)
	assert.Equal(t, "worst", ranked[2].JobTitle)

	// Final score is the similarity percentage rounded to 2 decimals.
	assert.Equal(t, 91.0, *ranked[0].Match.FinalScore)
	assert.Equal(t, 42.14, *ranked[1].Match.FinalScore)
	assert.Equal(t, 0.91, *ranked[0].Match.SimilarityScore)
	assert.Nil(t, ranked[0].Match.Explanation)
}

func TestMatchJobsDoesNotMutateInput(t *testing.T) {
	ranker := &fakeRanker{scores: []float64{0.2, 0.9}}
	matcher := NewMatcherService(ranker, &fakeRescorer{}, matcherCfg(false), zap.NewNop())

	jobs := namedJobs("first", "second")
	_, err := matcher.MatchJobs(context.Background(), &models.Resume{}, jobs, 0)
	require.NoError(t, err)

	assert.Equal(t, "first", jobs[0].JobTitle)
	assert.Nil(t, jobs[0].Match.SimilarityScore)
	assert.Nil(t, jobs[1].Match.FinalScore)
}

func TestMatchJobsRescoringReorders(t *testing.T) {
	// Similarity favors "generic", but the LLM prefers "specific".
	ranker := &fakeRanker{scores: []float64{0.95, 0.80}}
	rescorer := &fakeRescorer{scoresByTitle: map[string]float64{
		"generic":  40,
		"specific": 88,
	}}
	matcher := NewMatcherService(ranker, rescorer, matcherCfg(true), zap.NewNop())

	ranked, err := matcher.MatchJobs(context.Background(), &models.Resume{}, namedJobs("generic", "specific"), 0)
	require.NoError(t, err)

	assert.Equal(t, "specific", ranked[0].JobTitle)
	assert.Equal(t, 88.0, *ranked[0].Match.FinalScore)
	assert.Equal(t, 40.0, *ranked[1].Match.FinalScore)
}

func TestMatchJobsExplanationCarriesBothScores(t *testing.T) {
	ranker := &fakeRanker{scores: []float64{0.875}}
	rescorer := &fakeRescorer{scoresByTitle: map[string]float64{"only": 62}}
	matcher := NewMatcherService(ranker, rescorer, matcherCfg(true), zap.NewNop())

	ranked, err := matcher.MatchJobs(context.Background(), &models.Resume{}, namedJobs("only"), 0)
	require.NoError(t, err)

	require.NotNil(t, ranked[0].Match.Explanation)
	assert.Equal(t, "[Similarity: 87.50% | LLM Score: 62.00%]\n\nEvaluated only", *ranked[0].Match.Explanation)
}

func TestMatchJobsTopKLimitsRescoring(t *testing.T) {
	ranker := &fakeRanker{scores: []float64{0.5, 0.9, 0.7, 0.3}}
	rescorer := &fakeRescorer{scoresByTitle: map[string]float64{
		"b": 90, "c": 70,
	}}
	matcher := NewMatcherService(ranker, rescorer, matcherCfg(true), zap.NewNop())

	jobs := namedJobs("a", "b", "c", "d")
	ranked, err := matcher.MatchJobs(context.Background(), &models.Resume{}, jobs, 2)
	require.NoError(t, err)

	// Only the two highest-similarity jobs reach the LLM.
	assert.ElementsMatch(t, []string{"b", "c"}, rescorer.scored)

	// Unrescored jobs keep their similarity percentage and no explanation.
	assert.Equal(t, "a", ranked[2].JobTitle)
	assert.Equal(t, 50.0, *ranked[2].Match.FinalScore)
	assert.Nil(t, ranked[2].Match.Explanation)
}

func TestMatchJobsTopKDefaultsAndBounds(t *testing.T) {
	m := &matcherService{cfg: matcherCfg(true)}

	assert.Equal(t, 10, m.clampTopK(0, 50), "zero falls back to configured default")
	assert.Equal(t, 10, m.clampTopK(-3, 50), "negative falls back to configured default")
	assert.Equal(t, 20, m.clampTopK(100, 50), "bounded by configured maximum")
	assert.Equal(t, 5, m.clampTopK(10, 5), "capped at batch size")
	assert.Equal(t, 1, m.clampTopK(3, 1), "single-job batch rescores the one job")
}

func TestMatchJobsTopKLargerThanBatchRescoresAll(t *testing.T) {
	ranker := &fakeRanker{scores: []float64{0.5, 0.6}}
	rescorer := &fakeRescorer{scoresByTitle: map[string]float64{"a": 10, "b": 20}}
	matcher := NewMatcherService(ranker, rescorer, matcherCfg(true), zap.NewNop())

	_, err := matcher.MatchJobs(context.Background(), &models.Resume{}, namedJobs("a", "b"), 15)
	require.NoError(t, err)
	assert.Len(t, rescorer.scored, 2)
}

func TestMatchJobsOutputIsPermutation(t *testing.T) {
	ranker := &fakeRanker{scores: []float64{0.3, 0.8, 0.1, 0.6, 0.9, 0.4}}
	rescorer := &fakeRescorer{scoresByTitle: map[string]float64{
		"e": 55, "b": 70, "d": 20,
	}}
	matcher := NewMatcherService(ranker, rescorer, matcherCfg(true), zap.NewNop())

	titles := []string{"a", "b", "c", "d", "e", "f"}
	ranked, err := matcher.MatchJobs(context.Background(), &models.Resume{}, namedJobs(titles...), 3)
	require.NoError(t, err)
	require.Len(t, ranked, len(titles))

	var got []string
	for _, job := range ranked {
		got = append(got, job.JobTitle)
	}
	assert.ElementsMatch(t, titles, got, "no job dropped or duplicated")

	// Re-sorting an already sorted batch changes nothing.
	before := append([]models.JobPosting(nil), ranked...)
	sortByFinalScore(ranked)
	assert.Equal(t, before, ranked)
}

func TestMatchJobsTieStability(t *testing.T) {
	ranker := &fakeRanker{scores: []float64{0.5, 0.5, 0.5}}
	matcher := NewMatcherService(ranker, &fakeRescorer{}, matcherCfg(false), zap.NewNop())

	ranked, err := matcher.MatchJobs(context.Background(), &models.Resume{}, namedJobs("first", "second", "third"), 0)
	require.NoError(t, err)

	assert.Equal(t, "first", ranked[0].JobTitle)
	assert.Equal(t, "second", ranked[1].JobTitle)
	assert.Equal(t, "third", ranked[2].JobTitle)
}

func TestMatchJobsEndToEndWithStubBackends(t *testing.T) {
	// Full pipeline: stub embeddings steer similarity, stub generator
	// steers the final scores.
	embedder := &stubEmbedder{
		vectors: [][]float32{
			{1, 0, 0},       // candidate: software profile
			{0.9, 0.1, 0},   // backend role
			{0.05, 0.99, 0}, // truck driver role
			{0.8, 0.3, 0},   // data role
		},
	}
	ranker := NewSimilarityRanker(embedder, zap.NewNop())

	generator := &stubGenerator{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Truck Driver") {
			return "SCORE: 5\nEXPLANATION: Wrong field entirely.", nil
		}
		return "SCORE: 85\nEXPLANATION: Relevant experience.", nil
	}}
	rescorer := NewLLMRescorer(generator, 0.3, 1, 2, zap.NewNop())

	matcher := NewMatcherService(ranker, rescorer, matcherCfg(true), zap.NewNop())

	resume := &models.Resume{
		Name:            "Dana",
		TargetJobTitles: []string{"Backend Engineer"},
		TechnicalSkills: []string{"Go", "PostgreSQL"},
	}
	jobs := []models.JobPosting{
		{JobTitle: "Backend Engineer", Description: "Go services"},
		{JobTitle: "Truck Driver", Description: "Long haul routes"},
		{JobTitle: "Data Engineer", Description: "Pipelines in Go"},
	}

	ranked, err := matcher.MatchJobs(context.Background(), resume, jobs, 3)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "Truck Driver", ranked[2].JobTitle)
	assert.Equal(t, 5.0, *ranked[2].Match.FinalScore)
	for _, job := range ranked {
		require.NotNil(t, job.Match.FinalScore)
		assert.GreaterOrEqual(t, *job.Match.FinalScore, 0.0)
		assert.LessOrEqual(t, *job.Match.FinalScore, 100.0)
	}
}
