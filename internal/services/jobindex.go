package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
)

// indexChunkSize is the rune budget per indexed description chunk.
const indexChunkSize = 2000

// JobIndexService maintains the persistent Qdrant index of job-description
// embeddings. Populated after each match run, queried by the similar-jobs
// endpoint. It supplements the pipeline; match runs never depend on it.
type JobIndexService interface {
	InitCollection() error
	IndexJobs(ctx context.Context, jobs []models.JobPosting) error
	SearchSimilarJobs(ctx context.Context, queryText string, limit int) ([]models.SimilarJob, error)
}

type jobIndexService struct {
	client         *qdrant.Client
	gemini         GeminiService
	chunker        TextChunker
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewJobIndexService(urlStr, apiKey, collectionName string, gemini GeminiService, log *zap.Logger) (JobIndexService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &jobIndexService{
		client:         client,
		gemini:         gemini,
		chunker:        NewTextChunker(),
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 dimension
		logger:         log,
	}, nil
}

// InitCollection implements JobIndexService.
func (s *jobIndexService) InitCollection() error {
	ctx := context.Background()

	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	s.logger.Info("qdrant collection created", zap.String("collection", s.collectionName))
	return nil
}

// IndexJobs implements JobIndexService. Long descriptions are chunked and
// every chunk becomes one point carrying the job payload.
func (s *jobIndexService) IndexJobs(ctx context.Context, jobs []models.JobPosting) error {
	var points []*qdrant.PointStruct
	var chunkTexts []string
	var chunkJobs []int

	for i, job := range jobs {
		if job.Description == "" {
			continue
		}
		for _, chunk := range s.chunker.ChunkText(job.Description, indexChunkSize) {
			chunkTexts = append(chunkTexts, chunk)
			chunkJobs = append(chunkJobs, i)
		}
	}

	if len(chunkTexts) == 0 {
		return nil
	}

	vectors, err := s.gemini.GenerateEmbeddings(ctx, chunkTexts)
	if err != nil {
		return fmt.Errorf("failed to embed job chunks: %w", err)
	}

	for c, vector := range vectors {
		job := jobs[chunkJobs[c]]
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(uuid.New().ID())),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"job_id":       job.AdzunaJobID,
				"job_title":    job.JobTitle,
				"company_name": job.CompanyName,
				"location":     job.Location,
				"job_url":      job.JobURL,
				"text":         chunkTexts[c],
			}),
		})
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert job points: %w", err)
	}

	s.logger.Debug("jobs indexed",
		zap.Int("jobs", len(jobs)),
		zap.Int("points", len(points)),
	)

	return nil
}

// SearchSimilarJobs implements JobIndexService. Chunk hits are deduplicated
// per job, keeping the best score.
func (s *jobIndexService) SearchSimilarJobs(ctx context.Context, queryText string, limit int) ([]models.SimilarJob, error) {
	embedding, err := s.gemini.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Over-fetch so deduplication still fills the limit.
	fetchLimit := uint64(limit * 3)

	searchResult, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(fetchLimit),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search job index: %w", err)
	}

	seen := make(map[string]int)
	var results []models.SimilarJob

	for _, point := range searchResult {
		hit := models.SimilarJob{
			JobTitle:    payloadString(point.Payload, "job_title"),
			CompanyName: payloadString(point.Payload, "company_name"),
			Location:    payloadString(point.Payload, "location"),
			JobURL:      payloadString(point.Payload, "job_url"),
			Score:       point.Score,
		}

		jobID := payloadString(point.Payload, "job_id")
		if jobID != "" {
			if idx, ok := seen[jobID]; ok {
				if hit.Score > results[idx].Score {
					results[idx] = hit
				}
				continue
			}
			seen[jobID] = len(results)
		}

		results = append(results, hit)
		if len(results) >= limit {
			break
		}
	}

	return results, nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	if str, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
		return str.StringValue
	}
	return ""
}
