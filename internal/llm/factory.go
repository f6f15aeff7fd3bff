package llm

import (
	"context"
	"fmt"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/llm/claude"
	"trading-journal/internal/llm/gemini"
	"trading-journal/internal/llm/llmobs"
	"trading-journal/internal/llm/noop"
	"trading-journal/internal/llm/openai"
	"trading-journal/internal/logger"
	"trading-journal/internal/ratelimit"
	"trading-journal/internal/store"
)

// NewGenerator builds the configured provider and layers, outermost first,
// observability, the response cache and the rate limiter around it. Cache hits
// never consume a rate-limit slot.
func NewGenerator(ctx context.Context, cfg *store.Config) (interfaces.Generator, error) {
	var g interfaces.Generator

	switch cfg.LLM.Provider {
	case store.ProviderGemini:
		g = gemini.NewGeminiGenerator(cfg)
	case store.ProviderOpenAI:
		g = openai.NewOpenAIGenerator(cfg)
	case store.ProviderClaude:
		g = claude.NewClaudeGenerator(cfg)
	default:
		g = noop.NewNoopGenerator()
		logger.Warn(ctx, "No LLM provider configured - using Noop generator (fallback responses only)")
	}

	if cfg.APIKey() == "" && cfg.LLM.Provider != store.ProviderNoop {
		logger.Warn(ctx, "LLM API key is not configured", "provider", cfg.LLM.Provider)
	}

	g = Throttle(g, ratelimit.NewWindow(cfg.RateLimit.Requests, cfg.RateWindow()))

	if cfg.Cache.Enabled {
		cache, err := NewResponseCache(cfg.Cache.MaxCost)
		if err != nil {
			return nil, fmt.Errorf("failed to create response cache: %w", err)
		}
		g = Cached(g, cache, cfg.CacheTTL())
	}

	return llmobs.Wrap(g, cfg.LLM.Provider), nil
}
