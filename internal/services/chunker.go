package services

import (
	"strings"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText splits text into chunks of at most maxChunkSize runes,
// preferring paragraph boundaries and falling back to sentence boundaries
// for oversized paragraphs. Used when indexing long job descriptions.
func (tc *textChunker) ChunkText(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	appendPiece := func(piece, separator string) {
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+utf8.RuneCountInString(separator)+utf8.RuneCountInString(piece) > maxChunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(separator)
		}
		current.WriteString(piece)
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			appendPiece(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			// A single sentence longer than the budget is hard-cut.
			for utf8.RuneCountInString(sentence) > maxChunkSize {
				runes := []rune(sentence)
				appendPiece(string(runes[:maxChunkSize]), " ")
				flush()
				sentence = string(runes[maxChunkSize:])
			}
			if sentence != "" {
				appendPiece(sentence, " ")
			}
		}
	}

	flush()
	return chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
