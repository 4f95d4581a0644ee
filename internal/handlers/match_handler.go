package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/repositories"
	"alfredoptarigan/job-matcher/internal/services"
)

type MatchHandler struct {
	runRepo repositories.MatchRunRepository
	docRepo repositories.DocumentRepository
	worker  services.Worker
}

func NewMatchHandler(
	runRepo repositories.MatchRunRepository,
	docRepo repositories.DocumentRepository,
	worker services.Worker,
) *MatchHandler {
	return &MatchHandler{
		runRepo: runRepo,
		docRepo: docRepo,
		worker:  worker,
	}
}

// HandleMatch handles POST /match: queues an asynchronous match run for an
// uploaded resume.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.ResumeDocumentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_document_id is required",
		})
	}

	docID, err := uuid.Parse(req.ResumeDocumentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume_document_id format",
		})
	}

	if _, err := h.docRepo.FindByID(docID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume document not found",
		})
	}

	if req.TopK < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "top_k must not be negative",
		})
	}

	run := &models.MatchRun{
		ID:               uuid.New(),
		ResumeDocumentID: docID,
		Query:            req.Query,
		Location:         req.Location,
		Country:          req.Country,
		TopK:             req.TopK,
		Status:           models.StatusQueued,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.runRepo.Create(run); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create match run",
		})
	}

	h.worker.EnqueueRun(run.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.MatchResponse{
		ID:     run.ID.String(),
		Status: string(models.StatusQueued),
	})
}
