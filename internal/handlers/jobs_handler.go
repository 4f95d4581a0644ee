package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/services"
)

const defaultSimilarLimit = 10

type JobsHandler struct {
	jobIndex services.JobIndexService
}

func NewJobsHandler(jobIndex services.JobIndexService) *JobsHandler {
	return &JobsHandler{
		jobIndex: jobIndex,
	}
}

// HandleSimilarJobs handles GET /jobs/similar?text=...&limit=N against the
// persistent job index.
func (h *JobsHandler) HandleSimilarJobs(c *fiber.Ctx) error {
	text := c.Query("text")
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "text query parameter is required",
		})
	}

	limit := c.QueryInt("limit", defaultSimilarLimit)
	if limit < 1 || limit > 50 {
		limit = defaultSimilarLimit
	}

	jobs, err := h.jobIndex.SearchSimilarJobs(c.Context(), text, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search job index",
		})
	}

	return c.JSON(models.SimilarJobsResponse{
		Query: text,
		Jobs:  jobs,
	})
}
