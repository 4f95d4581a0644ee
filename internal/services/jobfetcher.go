package services

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/models"
)

// maxResultsPerPage is Adzuna's hard cap per search request.
const maxResultsPerPage = 50

// JobFetcherService retrieves job postings from the Adzuna search API,
// with an in-process expirable cache keyed by the full parameter set.
type JobFetcherService interface {
	SearchJobs(ctx context.Context, query, location, country string, resultsPerPage int) ([]models.JobPosting, error)
}

type jobFetcherService struct {
	cfg        config.AdzunaConfig
	httpClient *http.Client
	cache      *expirable.LRU[string, []models.JobPosting]
	logger     *zap.Logger
}

func NewJobFetcherService(cfg config.AdzunaConfig, cacheSize int, cacheTTL time.Duration, log *zap.Logger) (JobFetcherService, error) {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("adzuna credentials are required")
	}

	var cache *expirable.LRU[string, []models.JobPosting]
	if cacheSize > 0 && cacheTTL > 0 {
		cache = expirable.NewLRU[string, []models.JobPosting](cacheSize, nil, cacheTTL)
	}

	return &jobFetcherService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		logger:     log,
	}, nil
}

type adzunaSearchResponse struct {
	Count   int         `json:"count"`
	Results []adzunaJob `json:"results"`
}

type adzunaJob struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Created      string      `json:"created"`
	RedirectURL  string      `json:"redirect_url"`
	SalaryMin    *float64    `json:"salary_min"`
	SalaryMax    *float64    `json:"salary_max"`
	ContractTime string      `json:"contract_time"`
	Company      struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string   `json:"display_name"`
		Area        []string `json:"area"`
	} `json:"location"`
	Category struct {
		Label string `json:"label"`
	} `json:"category"`
}

// SearchJobs implements JobFetcherService.
func (j *jobFetcherService) SearchJobs(ctx context.Context, query, location, country string, resultsPerPage int) ([]models.JobPosting, error) {
	if country == "" {
		country = j.cfg.Country
	}
	if resultsPerPage <= 0 {
		resultsPerPage = j.cfg.ResultsPerPage
	}
	if resultsPerPage > maxResultsPerPage {
		j.logger.Warn("results_per_page capped",
			zap.Int("requested", resultsPerPage),
			zap.Int("cap", maxResultsPerPage),
		)
		resultsPerPage = maxResultsPerPage
	}

	params := url.Values{}
	params.Set("what", query)
	params.Set("where", location)
	params.Set("results_per_page", strconv.Itoa(resultsPerPage))
	params.Set("sort_by", "relevance")

	cacheKey := j.cacheKey(country, params)
	if j.cache != nil {
		if cached, ok := j.cache.Get(cacheKey); ok {
			j.logger.Info("job cache hit",
				zap.String("query", query),
				zap.Int("jobs", len(cached)),
			)
			return cached, nil
		}
	}

	params.Set("app_id", j.cfg.AppID)
	params.Set("app_key", j.cfg.APIKey)

	endpoint := fmt.Sprintf("%s/jobs/%s/search/1?%s", j.cfg.BaseURL, country, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build adzuna request: %w", err)
	}

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("adzuna returned status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp adzunaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode adzuna response: %w", err)
	}

	jobs := make([]models.JobPosting, 0, len(searchResp.Results))
	for _, result := range searchResp.Results {
		jobs = append(jobs, parseAdzunaJob(result))
	}

	j.logger.Info("jobs fetched",
		zap.String("query", query),
		zap.String("country", country),
		zap.Int("total_available", searchResp.Count),
		zap.Int("returned", len(jobs)),
	)

	if j.cache != nil {
		j.cache.Add(cacheKey, jobs)
	}

	return jobs, nil
}

// cacheKey hashes the country plus canonically-encoded search parameters,
// excluding credentials.
func (j *jobFetcherService) cacheKey(country string, params url.Values) string {
	sum := sha1.Sum([]byte(country + "|" + params.Encode()))
	return fmt.Sprintf("jobs:%x", sum)
}

func parseAdzunaJob(data adzunaJob) models.JobPosting {
	job := models.JobPosting{
		JobTitle:     valueOr(data.Title, "Unknown Title"),
		CompanyName:  valueOr(data.Company.DisplayName, "Unknown Company"),
		Description:  data.Description,
		Location:     valueOr(data.Location.DisplayName, "Unknown Location"),
		JobURL:       data.RedirectURL,
		RedirectURL:  data.RedirectURL,
		ContractType: parseContractType(data.ContractTime),
		Category:     data.Category.Label,
		SalaryMin:    data.SalaryMin,
		SalaryMax:    data.SalaryMax,
		AdzunaJobID:  data.ID.String(),
	}

	if posted := parseAdzunaDate(data.Created); posted != nil {
		job.PostedDate = posted
	}

	if data.SalaryMin != nil || data.SalaryMax != nil {
		job.SalaryCurrency = guessSalaryCurrency(data.Location.Area)
	}

	return job
}

func parseContractType(contractTime string) models.ContractType {
	contractTime = strings.ToLower(contractTime)

	switch {
	case contractTime == "":
		return ""
	case strings.Contains(contractTime, "full"):
		return models.ContractFullTime
	case strings.Contains(contractTime, "part"):
		return models.ContractPartTime
	case strings.Contains(contractTime, "contract"):
		return models.ContractContract
	case strings.Contains(contractTime, "temp"):
		return models.ContractTemporary
	case strings.Contains(contractTime, "intern"):
		return models.ContractInternship
	case strings.Contains(contractTime, "freelance"):
		return models.ContractFreelance
	default:
		return models.ContractOther
	}
}

func parseAdzunaDate(value string) *time.Time {
	if value == "" {
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &parsed
}

func guessSalaryCurrency(area []string) string {
	joined := strings.Join(area, " ")

	switch {
	case strings.Contains(joined, "US"):
		return "USD"
	case strings.Contains(joined, "UK"):
		return "GBP"
	default:
		return "EUR"
	}
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
