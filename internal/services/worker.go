package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueRun(runID uuid.UUID)
}

type worker struct {
	runRepo     repositories.MatchRunRepository
	runService  MatchRunService
	runQueue    chan uuid.UUID
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	logger      *zap.Logger
}

func NewWorker(
	runRepo repositories.MatchRunRepository,
	runService MatchRunService,
	concurrency int,
	log *zap.Logger,
) Worker {
	return &worker{
		runRepo:     runRepo,
		runService:  runService,
		runQueue:    make(chan uuid.UUID, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      log,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processRuns(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingRuns(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.logger.Info("stopping worker")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

// EnqueueRun implements Worker.
func (w *worker) EnqueueRun(runID uuid.UUID) {
	select {
	case w.runQueue <- runID:
		w.logger.Debug("run enqueued", zap.String("run_id", runID.String()))
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue run", zap.String("run_id", runID.String()))
	}
}

func (w *worker) processRuns(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			w.logger.Debug("worker goroutine stopped", zap.Int("worker_id", workerID))
			return
		case runID := <-w.runQueue:
			w.logger.Info("processing match run",
				zap.Int("worker_id", workerID),
				zap.String("run_id", runID.String()),
			)
			if err := w.runService.ExecuteRun(ctx, runID); err != nil {
				w.logger.Error("match run failed",
					zap.Int("worker_id", workerID),
					zap.String("run_id", runID.String()),
					zap.Error(err),
				)
			}
		}
	}
}

// pollPendingRuns re-enqueues queued runs, picking up anything left over
// from a previous process.
func (w *worker) pollPendingRuns(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pending, err := w.runRepo.FindPendingRuns(10)
			if err != nil {
				w.logger.Warn("failed to fetch pending runs", zap.Error(err))
				continue
			}

			for _, run := range pending {
				w.EnqueueRun(run.ID)
			}
		}
	}
}
