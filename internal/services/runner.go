package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/repositories"
)

// MatchRunService executes one queued match run end to end: parse the
// resume, fetch the job batch, run the ranking pipeline, persist the
// ranked results.
type MatchRunService interface {
	ExecuteRun(ctx context.Context, runID uuid.UUID) error
}

type matchRunService struct {
	runRepo      repositories.MatchRunRepository
	docRepo      repositories.DocumentRepository
	resumeParser ResumeParserService
	fetcher      JobFetcherService
	matcher      MatcherService
	jobIndex     JobIndexService
	countries    *CountryDetector
	logger       *zap.Logger
}

func NewMatchRunService(
	runRepo repositories.MatchRunRepository,
	docRepo repositories.DocumentRepository,
	resumeParser ResumeParserService,
	fetcher JobFetcherService,
	matcher MatcherService,
	jobIndex JobIndexService,
	log *zap.Logger,
) MatchRunService {
	return &matchRunService{
		runRepo:      runRepo,
		docRepo:      docRepo,
		resumeParser: resumeParser,
		fetcher:      fetcher,
		matcher:      matcher,
		jobIndex:     jobIndex,
		countries:    NewCountryDetector(),
		logger:       log,
	}
}

// ExecuteRun implements MatchRunService.
func (s *matchRunService) ExecuteRun(ctx context.Context, runID uuid.UUID) error {
	if err := s.runRepo.UpdateStatus(runID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	run, err := s.runRepo.FindByID(runID)
	if err != nil {
		s.failRun(runID, err.Error())
		return fmt.Errorf("failed to get match run: %w", err)
	}

	doc, err := s.docRepo.FindByID(run.ResumeDocumentID)
	if err != nil {
		s.failRun(runID, fmt.Sprintf("resume document not found: %v", err))
		return fmt.Errorf("failed to get resume document: %w", err)
	}

	s.logger.Info("executing match run",
		zap.String("run_id", runID.String()),
		zap.String("query", run.Query),
	)

	resume, err := s.resumeParser.ParseResume(ctx, doc.FilePath)
	if err != nil {
		s.failRun(runID, fmt.Sprintf("failed to parse resume: %v", err))
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	query := run.Query
	if query == "" && len(resume.TargetJobTitles) > 0 {
		query = resume.TargetJobTitles[0]
		s.logger.Info("using first target role as search query", zap.String("query", query))
	}
	if query == "" {
		s.failRun(runID, "no search query and no target roles in resume")
		return errors.New("no search query available")
	}

	country := run.Country
	if country == "" {
		country = s.countries.Detect(run.Location)
	}

	jobs, err := s.fetcher.SearchJobs(ctx, query, run.Location, country, 0)
	if err != nil {
		s.failRun(runID, fmt.Sprintf("job search failed: %v", err))
		return fmt.Errorf("job search failed: %w", err)
	}

	if len(jobs) == 0 {
		s.failRun(runID, "no jobs found for query")
		return fmt.Errorf("no jobs found for query %q", query)
	}

	ranked, err := s.matcher.MatchJobs(ctx, resume, jobs, run.TopK)
	if err != nil {
		s.failRun(runID, fmt.Sprintf("matching failed: %v", err))
		return fmt.Errorf("matching failed: %w", err)
	}

	resultsJSON, err := json.Marshal(ranked)
	if err != nil {
		s.failRun(runID, fmt.Sprintf("failed to serialize results: %v", err))
		return fmt.Errorf("failed to serialize results: %w", err)
	}

	if err := s.runRepo.UpdateResults(runID, string(resultsJSON)); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	// Feed the persistent index. Best-effort: the run already succeeded.
	if s.jobIndex != nil {
		if err := s.jobIndex.IndexJobs(ctx, ranked); err != nil {
			s.logger.Warn("failed to index jobs", zap.Error(err))
		}
	}

	s.logger.Info("match run completed",
		zap.String("run_id", runID.String()),
		zap.Int("jobs_ranked", len(ranked)),
	)

	return nil
}

func (s *matchRunService) failRun(runID uuid.UUID, message string) {
	if err := s.runRepo.UpdateError(runID, message); err != nil {
		s.logger.Error("failed to record run error",
			zap.String("run_id", runID.String()),
			zap.Error(err),
		)
	}
}
