package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoracle/oracle/models"
)

func TestComposeStructuredSuccess(t *testing.T) {
	var gotPrompt string
	s := NewAnswerSynthesizer(fakeLLM(func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "  The Beholder has an armor class of 18.  ", nil
	}), testLogger())

	answer := s.Compose(context.Background(), "What is a Beholder's armor class?", models.RetrievalOutcome{
		Kind:      models.RouteStructured,
		Succeeded: true,
		Rows:      "armor_class\n18",
	})

	assert.Equal(t, "The Beholder has an armor class of 18.", answer)
	assert.Contains(t, gotPrompt, "armor_class\n18")
	assert.Contains(t, gotPrompt, "What is a Beholder's armor class?")
}

func TestComposeStructuredFailureSkipsModel(t *testing.T) {
	s := NewAnswerSynthesizer(fakeLLM(func(ctx context.Context, prompt string) (string, error) {
		t.Fatal("model must not be called for a failed structured retrieval")
		return "", nil
	}), testLogger())

	answer := s.Compose(context.Background(), "q", models.RetrievalOutcome{
		Kind:       models.RouteStructured,
		Succeeded:  false,
		Diagnostic: "error after 3 attempts: no such column",
	})

	assert.Equal(t, "Database error: error after 3 attempts: no such column", answer)
}

func TestComposeUnstructuredSuccess(t *testing.T) {
	var gotPrompt string
	s := NewAnswerSynthesizer(fakeLLM(func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "Grappling works like this.", nil
	}), testLogger())

	answer := s.Compose(context.Background(), "How does grappling work?", models.RetrievalOutcome{
		Kind:      models.RouteUnstructured,
		Succeeded: true,
		Passages: []models.Passage{
			{Content: "Use an Athletics check.", Source: "Players Handbook"},
			{Content: "Speed becomes 0.", Source: "Basic Rules"},
		},
	})

	assert.Equal(t, "Grappling works like this.", answer)
	assert.Contains(t, gotPrompt, "Source: Players Handbook")
	assert.Contains(t, gotPrompt, "Source: Basic Rules")
	assert.Contains(t, gotPrompt, "Use an Athletics check.")
}

func TestComposeUnstructuredEmptyEvidenceUsesPlaceholder(t *testing.T) {
	var gotPrompt string
	s := NewAnswerSynthesizer(fakeLLM(func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "I couldn't find anything about that.", nil
	}), testLogger())

	answer := s.Compose(context.Background(), "q", models.RetrievalOutcome{
		Kind:      models.RouteUnstructured,
		Succeeded: true,
	})

	assert.Contains(t, gotPrompt, "No relevant information found.")
	assert.NotEmpty(t, answer)
}

func TestComposeUnstructuredFailureSkipsModel(t *testing.T) {
	s := NewAnswerSynthesizer(fakeLLM(func(ctx context.Context, prompt string) (string, error) {
		t.Fatal("model must not be called for a failed unstructured retrieval")
		return "", nil
	}), testLogger())

	answer := s.Compose(context.Background(), "q", models.RetrievalOutcome{
		Kind:       models.RouteUnstructured,
		Succeeded:  false,
		Diagnostic: "index unavailable",
	})

	assert.Equal(t, "Knowledge base error: index unavailable", answer)
}

func TestComposeModelFailureBecomesProse(t *testing.T) {
	s := NewAnswerSynthesizer(fakeLLM(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("quota exceeded")
	}), testLogger())

	answer := s.Compose(context.Background(), "q", models.RetrievalOutcome{
		Kind:      models.RouteStructured,
		Succeeded: true,
		Rows:      "name\nGoblin",
	})

	require.NotEmpty(t, answer)
	assert.Contains(t, answer, "quota exceeded")
}

func TestComposeNeverReturnsEmptyText(t *testing.T) {
	outcomes := []models.RetrievalOutcome{
		{Kind: models.RouteStructured, Succeeded: true, Rows: ""},
		{Kind: models.RouteStructured, Succeeded: false, Diagnostic: ""},
		{Kind: models.RouteUnstructured, Succeeded: true},
		{Kind: models.RouteUnstructured, Succeeded: false, Diagnostic: ""},
	}
	s := NewAnswerSynthesizer(fakeLLM(func(ctx context.Context, prompt string) (string, error) {
		return "   ", nil // model returns only whitespace
	}), testLogger())

	for _, outcome := range outcomes {
		assert.NotEmpty(t, s.Compose(context.Background(), "q", outcome))
	}
}
