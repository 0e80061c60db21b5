package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoracle/oracle/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		err          error
		want         models.RouteDecision
		wantFallback bool
	}{
		{name: "structured", response: "structured", want: models.RouteStructured},
		{name: "unstructured", response: "unstructured", want: models.RouteUnstructured},
		{name: "whitespace and case are normalized", response: "  Structured\n", want: models.RouteStructured},
		{name: "unrecognized token falls back", response: "maybe structured?", want: models.RouteUnstructured, wantFallback: true},
		{name: "empty response falls back", response: "", want: models.RouteUnstructured, wantFallback: true},
		{name: "multi word response falls back", response: "structured unstructured", want: models.RouteUnstructured, wantFallback: true},
		{name: "llm failure falls back", err: errors.New("deadline exceeded"), want: models.RouteUnstructured, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hookReasons []string
			router := NewQueryRouter(fakeLLM(func(ctx context.Context, prompt string) (string, error) {
				return tt.response, tt.err
			}), testLogger(), func(reason string) {
				hookReasons = append(hookReasons, reason)
			})

			got := router.Classify(context.Background(), "What is a Beholder's armor class?")

			assert.Equal(t, tt.want, got)
			if tt.wantFallback {
				assert.Equal(t, int64(1), router.FallbackCount())
				require.Len(t, hookReasons, 1)
			} else {
				assert.Zero(t, router.FallbackCount())
				assert.Empty(t, hookReasons)
			}
		})
	}
}

func TestClassifyEmbedsQuestion(t *testing.T) {
	var gotPrompt string
	router := NewQueryRouter(fakeLLM(func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "structured", nil
	}), testLogger(), nil)

	router.Classify(context.Background(), "Show me all CR 5 monsters.")

	assert.True(t, strings.Contains(gotPrompt, "Show me all CR 5 monsters."))
}

func TestClassifyNilHookDoesNotPanic(t *testing.T) {
	router := NewQueryRouter(fakeLLM(func(ctx context.Context, prompt string) (string, error) {
		return "gibberish", nil
	}), testLogger(), nil)

	assert.Equal(t, models.RouteUnstructured, router.Classify(context.Background(), "anything"))
	assert.Equal(t, int64(1), router.FallbackCount())
}
