package services

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/dmoracle/oracle/models"
)

// QueryRouter decides which retrieval strategy answers a question. Classify
// never fails: anything other than a clean classification resolves to the
// unstructured path, which can handle any question.
type QueryRouter interface {
	Classify(ctx context.Context, question string) models.RouteDecision
}

// FallbackHook is invoked whenever the router falls back to the unstructured
// default, with a short reason. Wire it to whatever collects operational
// counters.
type FallbackHook func(reason string)

// LLMQueryRouter classifies questions with a single Gemini call.
type LLMQueryRouter struct {
	llm        LLMClient
	logger     *log.Logger
	onFallback FallbackHook
	fallbacks  atomic.Int64
}

// NewQueryRouter builds a router over the given LLM client. hook may be nil.
func NewQueryRouter(llm LLMClient, logger *log.Logger, hook FallbackHook) *LLMQueryRouter {
	return &LLMQueryRouter{
		llm:        llm,
		logger:     logger,
		onFallback: hook,
	}
}

func (r *LLMQueryRouter) Classify(ctx context.Context, question string) models.RouteDecision {
	raw, err := r.llm.Generate(ctx, routerPrompt(question))
	if err != nil {
		r.fallback("classification call failed: " + err.Error())
		return models.RouteUnstructured
	}

	classification := strings.ToLower(strings.TrimSpace(raw))
	switch classification {
	case "structured":
		return models.RouteStructured
	case "unstructured":
		return models.RouteUnstructured
	}

	r.fallback("unrecognized classification " + strconv.Quote(classification))
	return models.RouteUnstructured
}

// FallbackCount reports how many classifications resolved by default rather
// than by an exact model answer.
func (r *LLMQueryRouter) FallbackCount() int64 {
	return r.fallbacks.Load()
}

func (r *LLMQueryRouter) fallback(reason string) {
	r.fallbacks.Add(1)
	r.logger.Warn("routing fell back to unstructured", "reason", reason)
	if r.onFallback != nil {
		r.onFallback(reason)
	}
}
