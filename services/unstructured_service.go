package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dmoracle/oracle/models"
)

// CorpusSearcher finds rules passages relevant to a question, in a stable
// order, each with a provenance label.
type CorpusSearcher interface {
	Search(ctx context.Context, question string) ([]models.Passage, error)
}

// unstructuredRetriever wraps the corpus searcher in the strategy contract.
// There is no retry here: re-running the same deterministic search against a
// broken backend will not change the outcome, so a failure is terminal for
// the request.
type unstructuredRetriever struct {
	searcher CorpusSearcher
	logger   *log.Logger
}

func NewUnstructuredRetriever(searcher CorpusSearcher, logger *log.Logger) Retriever {
	return &unstructuredRetriever{
		searcher: searcher,
		logger:   logger,
	}
}

func (r *unstructuredRetriever) Retrieve(ctx context.Context, question string) models.RetrievalOutcome {
	passages, err := r.searcher.Search(ctx, question)
	if err != nil {
		r.logger.Warn("corpus search failed", "error", err)
		return models.RetrievalOutcome{
			Kind:         models.RouteUnstructured,
			Succeeded:    false,
			Diagnostic:   err.Error(),
			AttemptsUsed: 1,
		}
	}

	return models.RetrievalOutcome{
		Kind:         models.RouteUnstructured,
		Succeeded:    true,
		Passages:     passages,
		Diagnostic:   fmt.Sprintf("retrieved %d passages", len(passages)),
		AttemptsUsed: 1,
	}
}
