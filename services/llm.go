package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// LLMClient is the one capability the engine needs from a language model:
// turn a prompt into text. Every call site treats it as independently
// failable.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// geminiClient adapts the Google Gemini SDK to LLMClient. A per-call timeout
// bounds each request so a hung call surfaces as an ordinary error.
type geminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient wraps an initialized genai client.
func NewGeminiClient(client *genai.Client, model string, timeout time.Duration) LLMClient {
	return &geminiClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}
}

func (g *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}
