package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dmoracle/oracle/models"
)

// ErrInvalidInput marks caller mistakes (empty question, unknown narrative
// style) that are rejected before any external call is made. The controller
// maps these to a validation response rather than an engine failure.
var ErrInvalidInput = errors.New("invalid input")

// DefaultNarrativeStyle is used when the caller leaves style unset.
const DefaultNarrativeStyle = "descriptive"

var narrativeStyles = []string{"descriptive", "action", "mysterious", "dramatic"}

// OracleService is the hybrid engine: route a question, run the chosen
// retrieval strategy, synthesize an answer. Errors returned by either method
// are always ErrInvalidInput; everything else is encoded in the response.
type OracleService interface {
	Answer(ctx context.Context, question, sessionID string) (*models.QueryResponse, error)
	Narrate(ctx context.Context, prompt, style string) (*models.NarrateResponse, error)
}

type oracleService struct {
	router       QueryRouter
	structured   Retriever
	unstructured Retriever
	synthesizer  AnswerSynthesizer
	llm          LLMClient
	sourceLabel  string
	logger       *log.Logger
}

// NewOracleService wires the engine together. sourceLabel names the fact
// table in provenance lists, e.g. "D&D Monster Database".
func NewOracleService(
	router QueryRouter,
	structured Retriever,
	unstructured Retriever,
	synthesizer AnswerSynthesizer,
	llm LLMClient,
	sourceLabel string,
	logger *log.Logger,
) OracleService {
	return &oracleService{
		router:       router,
		structured:   structured,
		unstructured: unstructured,
		synthesizer:  synthesizer,
		llm:          llm,
		sourceLabel:  sourceLabel,
		logger:       logger,
	}
}

func (s *oracleService) Answer(ctx context.Context, question, sessionID string) (resp *models.QueryResponse, err error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question must not be empty", ErrInvalidInput)
	}

	// Last line of defense. Components below are individually responsible
	// for not panicking; if one does anyway the caller still gets prose.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("answer pipeline panicked", "panic", r)
			resp = &models.QueryResponse{
				Answer:           fmt.Sprintf("I encountered an error: %v. Please try rephrasing your question.", r),
				Route:            models.RouteError,
				Sources:          []string{},
				RetrievalSuccess: false,
				SessionID:        sessionID,
			}
			err = nil
		}
	}()

	route := s.router.Classify(ctx, question)
	s.logger.Info("question routed", "route", route)

	var outcome models.RetrievalOutcome
	if route == models.RouteStructured {
		outcome = s.structured.Retrieve(ctx, question)
	} else {
		outcome = s.unstructured.Retrieve(ctx, question)
	}

	answer := s.synthesizer.Compose(ctx, question, outcome)

	metadata := map[string]any{
		"query_type":    string(route),
		"attempts_used": outcome.AttemptsUsed,
	}
	if outcome.Query != "" {
		metadata["generated_query"] = outcome.Query
	}

	return &models.QueryResponse{
		Answer:           answer,
		Route:            route,
		Sources:          s.extractSources(outcome),
		RetrievalSuccess: outcome.Succeeded,
		SessionID:        sessionID,
		Metadata:         metadata,
	}, nil
}

func (s *oracleService) Narrate(ctx context.Context, prompt, style string) (*models.NarrateResponse, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", ErrInvalidInput)
	}
	if style == "" {
		style = DefaultNarrativeStyle
	}
	if !validNarrativeStyle(style) {
		return nil, fmt.Errorf("%w: unknown narrative style %q", ErrInvalidInput, style)
	}

	text, err := s.llm.Generate(ctx, narrativePrompt(prompt, style))
	if err != nil {
		s.logger.Warn("narration failed", "style", style, "error", err)
		return &models.NarrateResponse{
			Text:    fmt.Sprintf("Error creating narrative: %v", err),
			Style:   style,
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = fallbackAnswer
	}
	return &models.NarrateResponse{
		Text:    text,
		Style:   style,
		Success: true,
	}, nil
}

// extractSources derives the provenance list: the fact table label for a
// successful structured retrieval, or the distinct passage sources in
// first-seen order for unstructured evidence.
func (s *oracleService) extractSources(outcome models.RetrievalOutcome) []string {
	sources := make([]string, 0, 2)

	switch outcome.Kind {
	case models.RouteStructured:
		if outcome.Succeeded {
			sources = append(sources, s.sourceLabel)
		}
	case models.RouteUnstructured:
		seen := make(map[string]bool, len(outcome.Passages))
		for _, p := range outcome.Passages {
			if !seen[p.Source] {
				seen[p.Source] = true
				sources = append(sources, p.Source)
			}
		}
	}
	return sources
}

func validNarrativeStyle(style string) bool {
	for _, s := range narrativeStyles {
		if s == style {
			return true
		}
	}
	return false
}
