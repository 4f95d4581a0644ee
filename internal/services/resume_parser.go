package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
)

// ResumeParserService turns a resume PDF into a structured Resume: text
// extraction first, then LLM-driven field extraction.
type ResumeParserService interface {
	ParseResume(ctx context.Context, filePath string) (*models.Resume, error)
}

type resumeParserService struct {
	pdfParser     PDFParserService
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
	logger        *zap.Logger
}

func NewResumeParserService(pdfParser PDFParserService, gemini GeminiService, maxRetries int, log *zap.Logger) ResumeParserService {
	return &resumeParserService{
		pdfParser:     pdfParser,
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		logger:        log,
	}
}

// ParseResume implements ResumeParserService. Missing optional fields stay
// at their zero values; only extraction of the document itself can fail.
func (r *resumeParserService) ParseResume(ctx context.Context, filePath string) (*models.Resume, error) {
	rawText, err := r.pdfParser.ExtractText(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume text: %w", err)
	}

	rawText = CleanText(rawText)

	r.logger.Debug("resume text extracted", zap.Int("text_length", len(rawText)))

	prompt := r.promptBuilder.BuildResumeExtractionPrompt(rawText)

	response, err := r.gemini.GenerateTextWithRetry(ctx, prompt, 0.1, r.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume structure: %w", err)
	}

	var resume models.Resume
	if err := unmarshalModelJSON(response, &resume); err != nil {
		return nil, fmt.Errorf("failed to parse resume extraction response: %w", err)
	}

	resume.RawText = rawText

	r.logger.Info("resume parsed",
		zap.String("name", resume.Name),
		zap.Int("technical_skills", len(resume.TechnicalSkills)),
		zap.Int("work_experience", len(resume.WorkExperience)),
	)

	return &resume, nil
}

func unmarshalModelJSON(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON pulls a JSON object or array out of text that may wrap it in
// markdown code fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
