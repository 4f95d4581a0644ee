package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchRunStatus string

const (
	StatusQueued     MatchRunStatus = "queued"
	StatusProcessing MatchRunStatus = "processing"
	StatusCompleted  MatchRunStatus = "completed"
	StatusFailed     MatchRunStatus = "failed"
)

// MatchRun is one asynchronous matching invocation: a resume document
// matched against a fetched job batch. Results holds the final ranked
// batch serialized as JSON once the run completes. This table is the only
// durable state the pipeline produces.
type MatchRun struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeDocumentID uuid.UUID      `gorm:"type:uuid;not null" json:"resume_document_id"`
	Query            string         `gorm:"type:text" json:"query"`
	Location         string         `gorm:"type:text" json:"location"`
	Country          string         `gorm:"type:text" json:"country"`
	TopK             int            `gorm:"not null;default:10" json:"top_k"`
	Status           MatchRunStatus `gorm:"not null;default:'queued'" json:"status"`
	Results          *string        `gorm:"type:jsonb" json:"results,omitempty"`
	ErrorMessage     *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	ResumeDocument Document `gorm:"foreignKey:ResumeDocumentID" json:"-"`
}

func (MatchRun) TableName() string {
	return "match_runs"
}
