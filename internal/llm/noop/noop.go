package noop

import (
	"context"

	"trading-journal/internal/logger"
)

// NoopGenerator is used when no provider is configured. Its empty output
// sends every caller down the no-insight fallback.
type NoopGenerator struct{}

func NewNoopGenerator() *NoopGenerator {
	return &NoopGenerator{}
}

func (g *NoopGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	logger.Debug(ctx, "Noop generator called - returns empty text", "prompt_len", len(prompt))
	return "", nil
}
