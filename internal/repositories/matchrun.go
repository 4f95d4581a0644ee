package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/job-matcher/internal/models"
)

type MatchRunRepository interface {
	Create(run *models.MatchRun) error
	FindByID(id uuid.UUID) (*models.MatchRun, error)
	UpdateStatus(id uuid.UUID, status models.MatchRunStatus) error
	UpdateResults(id uuid.UUID, resultsJSON string) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingRuns(limit int) ([]models.MatchRun, error)
}

type matchRunRepository struct {
	db *gorm.DB
}

func NewMatchRunRepository(db *gorm.DB) MatchRunRepository {
	return &matchRunRepository{db: db}
}

// Create implements MatchRunRepository.
func (r *matchRunRepository) Create(run *models.MatchRun) error {
	if err := r.db.Create(&run).Error; err != nil {
		return fmt.Errorf("failed to create match run: %w", err)
	}

	return nil
}

// FindByID implements MatchRunRepository.
func (r *matchRunRepository) FindByID(id uuid.UUID) (*models.MatchRun, error) {
	var run models.MatchRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("match run not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find match run: %w", err)
	}

	return &run, nil
}

// UpdateStatus implements MatchRunRepository.
func (r *matchRunRepository) UpdateStatus(id uuid.UUID, status models.MatchRunStatus) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}

	if err := r.db.Model(&models.MatchRun{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update match run status: %w", err)
	}

	return nil
}

// UpdateResults implements MatchRunRepository. Marks the run completed and
// stores the ranked batch as JSON.
func (r *matchRunRepository) UpdateResults(id uuid.UUID, resultsJSON string) error {
	updates := map[string]interface{}{
		"status":     models.StatusCompleted,
		"results":    resultsJSON,
		"updated_at": time.Now(),
	}

	if err := r.db.Model(&models.MatchRun{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update match run results: %w", err)
	}

	return nil
}

// UpdateError implements MatchRunRepository.
func (r *matchRunRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	updates := map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	}

	if err := r.db.Model(&models.MatchRun{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update match run error: %w", err)
	}

	return nil
}

// FindPendingRuns implements MatchRunRepository.
func (r *matchRunRepository) FindPendingRuns(limit int) ([]models.MatchRun, error) {
	var runs []models.MatchRun
	if err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at asc").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to find pending runs: %w", err)
	}

	return runs, nil
}
