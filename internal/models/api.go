package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
}

type MatchRequest struct {
	ResumeDocumentID string `json:"resume_document_id" validate:"required,uuid"`
	Query            string `json:"query"`
	Location         string `json:"location"`
	Country          string `json:"country"`
	TopK             int    `json:"top_k"`
}

type MatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string       `json:"id"`
	Status       string       `json:"status"`
	Jobs         []JobPosting `json:"jobs,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
}

type SimilarJobsResponse struct {
	Query string       `json:"query"`
	Jobs  []SimilarJob `json:"jobs"`
}

// SimilarJob is a hit from the persistent job index.
type SimilarJob struct {
	JobTitle    string  `json:"job_title"`
	CompanyName string  `json:"company_name"`
	Location    string  `json:"location"`
	JobURL      string  `json:"job_url,omitempty"`
	Score       float32 `json:"score"`
}
