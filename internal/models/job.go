package models

import "time"

type ContractType string

const (
	ContractFullTime   ContractType = "Full-time"
	ContractPartTime   ContractType = "Part-time"
	ContractContract   ContractType = "Contract"
	ContractTemporary  ContractType = "Temporary"
	ContractInternship ContractType = "Internship"
	ContractFreelance  ContractType = "Freelance"
	ContractOther      ContractType = "Other"
)

// MatchResult carries the two ranking signals for one job. SimilarityScore
// is written by the similarity stage (raw cosine, [0,1] in practice),
// FinalScore and Explanation by the rescoring stage. Nil means the stage
// has not run for this job.
type MatchResult struct {
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
	FinalScore      *float64 `json:"final_score,omitempty"`
	Explanation     *string  `json:"explanation,omitempty"`
}

// JobPosting is one job record as fetched from Adzuna. A batch of postings
// is owned by a single match run; the matcher never mutates the caller's
// slice and instead returns copies with Match populated.
type JobPosting struct {
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
	Description string `json:"description"`
	Location    string `json:"location"`

	JobURL      string `json:"job_url,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`

	PostedDate   *time.Time   `json:"posted_date,omitempty"`
	ContractType ContractType `json:"contract_type,omitempty"`
	Category     string       `json:"category,omitempty"`

	SalaryMin      *float64 `json:"salary_min,omitempty"`
	SalaryMax      *float64 `json:"salary_max,omitempty"`
	SalaryCurrency string   `json:"salary_currency,omitempty"`

	AdzunaJobID string `json:"adzuna_job_id,omitempty"`

	Match MatchResult `json:"match"`
}
