package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/models"
)

type stubPDFParser struct {
	text string
	err  error
}

func (s *stubPDFParser) ExtractText(filePath string) (string, error) {
	return s.text, s.err
}

type stubGemini struct {
	embeddings [][]float32
	embedErr   error
	embedCalls int

	textResponse string
	textErr      error

	embedModel string
}

func (s *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *stubGemini) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	s.embedCalls++
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = s.embeddings[i%len(s.embeddings)]
	}
	return vectors, nil
}

func (s *stubGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return s.textResponse, s.textErr
}

func (s *stubGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return s.textResponse, s.textErr
}

func (s *stubGemini) EmbedModel() string {
	if s.embedModel == "" {
		return "stub-embed"
	}
	return s.embedModel
}

func TestParseResume(t *testing.T) {
	pdfParser := &stubPDFParser{text: "Dana Doe\nBackend engineer with Go experience"}
	gemini := &stubGemini{textResponse: "```json\n" + `{
		"name": "Dana Doe",
		"email": "dana@example.com",
		"target_job_titles": ["Backend Engineer"],
		"career_level": "Senior",
		"years_of_experience": 7,
		"technical_skills": ["Go", "PostgreSQL"]
	}` + "\n```"}

	parser := NewResumeParserService(pdfParser, gemini, 1, zap.NewNop())

	resume, err := parser.ParseResume(context.Background(), "/tmp/resume.pdf")
	require.NoError(t, err)

	assert.Equal(t, "Dana Doe", resume.Name)
	assert.Equal(t, "dana@example.com", resume.Email)
	assert.Equal(t, []string{"Backend Engineer"}, resume.TargetJobTitles)
	assert.Equal(t, models.CareerSenior, resume.CareerLevel)
	assert.Equal(t, 7, resume.YearsOfExperience)
	assert.NotEmpty(t, resume.RawText)
}

func TestParseResumeExtractionFailure(t *testing.T) {
	pdfParser := &stubPDFParser{err: errors.New("corrupt pdf")}
	parser := NewResumeParserService(pdfParser, &stubGemini{}, 1, zap.NewNop())

	_, err := parser.ParseResume(context.Background(), "/tmp/broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt pdf")
}

func TestParseResumeModelFailure(t *testing.T) {
	pdfParser := &stubPDFParser{text: "some resume text"}
	gemini := &stubGemini{textErr: errors.New("quota exceeded")}
	parser := NewResumeParserService(pdfParser, gemini, 1, zap.NewNop())

	_, err := parser.ParseResume(context.Background(), "/tmp/resume.pdf")
	require.Error(t, err)
}

func TestParseResumeRejectsNonJSONResponse(t *testing.T) {
	pdfParser := &stubPDFParser{text: "some resume text"}
	gemini := &stubGemini{textResponse: "I am unable to parse this resume."}
	parser := NewResumeParserService(pdfParser, gemini, 1, zap.NewNop())

	_, err := parser.ParseResume(context.Background(), "/tmp/resume.pdf")
	require.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "fenced object",
			input: "```json\n{\"a\": 1}\n```",
			want:  "\n{\"a\": 1}\n",
		},
		{
			name:  "object wrapped in prose",
			input: `Here you go: {"a": 1} hope that helps`,
			want:  `{"a": 1}`,
		},
		{
			name:  "array",
			input: `[1, 2, 3]`,
			want:  `[1, 2, 3]`,
		},
		{
			name:  "no json at all",
			input: "nothing here",
			want:  "nothing here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.input))
		})
	}
}
