package services

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/dmoracle/oracle/models"
)

// Function-typed fakes for the engine's collaborators.

type fakeLLM func(ctx context.Context, prompt string) (string, error)

func (f fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type fakeExecutor func(ctx context.Context, query string) (string, error)

func (f fakeExecutor) Execute(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

type fakeSearcher func(ctx context.Context, question string) ([]models.Passage, error)

func (f fakeSearcher) Search(ctx context.Context, question string) ([]models.Passage, error) {
	return f(ctx, question)
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}
