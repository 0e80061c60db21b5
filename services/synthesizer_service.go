package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dmoracle/oracle/models"
)

const fallbackAnswer = "I'm sorry, I couldn't generate a response."

// AnswerSynthesizer turns retrieved evidence into final answer text. Compose
// never fails and never returns an empty string: model errors become
// deterministic user-facing messages.
type AnswerSynthesizer interface {
	Compose(ctx context.Context, question string, outcome models.RetrievalOutcome) string
}

type answerSynthesizer struct {
	llm    LLMClient
	logger *log.Logger
}

func NewAnswerSynthesizer(llm LLMClient, logger *log.Logger) AnswerSynthesizer {
	return &answerSynthesizer{
		llm:    llm,
		logger: logger,
	}
}

func (s *answerSynthesizer) Compose(ctx context.Context, question string, outcome models.RetrievalOutcome) string {
	switch outcome.Kind {
	case models.RouteStructured:
		if !outcome.Succeeded {
			// No model call on a failed retrieval: there is nothing for it
			// to explain that the diagnostic doesn't already say.
			return fmt.Sprintf("Database error: %s", outcome.Diagnostic)
		}
		rows := outcome.Rows
		if strings.TrimSpace(rows) == "" {
			rows = "No data found"
		}
		return s.generate(ctx, structuredAnswerPrompt(question, rows))

	default:
		if !outcome.Succeeded {
			return fmt.Sprintf("Knowledge base error: %s", outcome.Diagnostic)
		}
		return s.generate(ctx, unstructuredAnswerPrompt(question, formatPassages(outcome.Passages)))
	}
}

func (s *answerSynthesizer) generate(ctx context.Context, prompt string) string {
	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("answer generation failed", "error", err)
		return fmt.Sprintf("Error generating response: %v", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallbackAnswer
	}
	return text
}

// formatPassages renders evidence as source/content blocks for the prompt.
// An empty list becomes an explicit placeholder so the model says so
// gracefully instead of inventing an answer.
func formatPassages(passages []models.Passage) string {
	if len(passages) == 0 {
		return "No relevant information found."
	}
	blocks := make([]string, 0, len(passages))
	for _, p := range passages {
		blocks = append(blocks, fmt.Sprintf("Source: %s\nContent: %s", p.Source, p.Content))
	}
	return strings.Join(blocks, "\n\n")
}
