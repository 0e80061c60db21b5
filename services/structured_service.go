package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-retry"

	"github.com/dmoracle/oracle/models"
)

// Retriever executes one retrieval strategy for a question. Implementations
// never return an error: failure is encoded in the outcome so the synthesizer
// can still produce user-facing text.
type Retriever interface {
	Retrieve(ctx context.Context, question string) models.RetrievalOutcome
}

// QueryExecutor runs a generated query against the fact table and renders the
// result as text. Malformed queries come back as errors.
type QueryExecutor interface {
	Execute(ctx context.Context, query string) (string, error)
}

var errEmptyQuery = errors.New("model produced an empty query")

// structuredRetriever translates a question into SQL against the monster fact
// table, with bounded self-correction: an execution failure triggers query
// regeneration, and the previous error is fed back into the next prompt.
type structuredRetriever struct {
	llm        LLMClient
	executor   QueryExecutor
	table      string
	maxRetries int
	backoff    time.Duration
	logger     *log.Logger
}

// NewStructuredRetriever builds the text-to-SQL strategy. maxRetries is the
// number of regeneration attempts after the first failure, so the total
// attempt bound is maxRetries+1.
func NewStructuredRetriever(llm LLMClient, executor QueryExecutor, table string, maxRetries int, backoff time.Duration, logger *log.Logger) Retriever {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &structuredRetriever{
		llm:        llm,
		executor:   executor,
		table:      table,
		maxRetries: maxRetries,
		backoff:    backoff,
		logger:     logger,
	}
}

func (r *structuredRetriever) Retrieve(ctx context.Context, question string) models.RetrievalOutcome {
	var (
		attempt int
		lastErr error
		outcome models.RetrievalOutcome
	)

	backoff := retry.WithMaxRetries(uint64(r.maxRetries), retry.NewConstant(r.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		query, err := r.generateQuery(ctx, question, lastErr)
		if err != nil {
			lastErr = err
			r.logger.Warn("sql generation failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}

		rows, err := r.executor.Execute(ctx, query)
		if err != nil {
			lastErr = fmt.Errorf("query %q failed: %w", query, err)
			r.logger.Warn("sql execution failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}

		outcome = models.RetrievalOutcome{
			Kind:         models.RouteStructured,
			Succeeded:    true,
			Rows:         rows,
			Query:        query,
			Diagnostic:   query,
			AttemptsUsed: attempt,
		}
		return nil
	})
	if err != nil {
		if attempt == 0 {
			attempt = 1
		}
		if lastErr == nil {
			lastErr = err
		}
		return models.RetrievalOutcome{
			Kind:         models.RouteStructured,
			Succeeded:    false,
			Diagnostic:   fmt.Sprintf("error after %d attempts: %v", attempt, lastErr),
			AttemptsUsed: attempt,
		}
	}
	return outcome
}

// generateQuery asks the model for a SQL query, optionally feeding back the
// previous attempt's error, and strips any surrounding code fence.
func (r *structuredRetriever) generateQuery(ctx context.Context, question string, previous error) (string, error) {
	prevMsg := ""
	if previous != nil {
		prevMsg = previous.Error()
	}

	raw, err := r.llm.Generate(ctx, sqlPrompt(r.table, question, prevMsg))
	if err != nil {
		return "", fmt.Errorf("sql generation: %w", err)
	}

	query := stripCodeFence(raw)
	if query == "" {
		return "", errEmptyQuery
	}
	return query, nil
}

// stripCodeFence removes leading/trailing markdown fences like ```sql ... ```
// that models habitually wrap queries in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```sql")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
