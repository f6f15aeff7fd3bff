package llmobs

import (
	"context"
	"strings"
	"unicode/utf8"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/trace"
)

// observableGenerator wraps a Generator with observability (logging & tracing)
type observableGenerator struct {
	generator interfaces.Generator
	provider  string
}

// Compile-time interface check
var _ interfaces.Generator = (*observableGenerator)(nil)

// Wrap wraps a generator with observability middleware
func Wrap(generator interfaces.Generator, provider string) interfaces.Generator {
	return &observableGenerator{
		generator: generator,
		provider:  provider,
	}
}

func (og *observableGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Generate")
	defer span.End()

	// DebugSkip(1) reports the caller, not this wrapper
	fields := []any{"provider", og.provider, "prompt_len", len(prompt)}
	if logger.IsDebugEnabled() {
		fields = append(fields, "prompt_preview", preview(prompt, 200))
	}
	logger.DebugSkip(ctx, 1, "Requesting text generation", fields...)

	text, err := og.generator.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Text generation failed", err,
			"provider", og.provider,
		)
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		logger.WarnSkip(ctx, 1, "Text generation returned no text", "provider", og.provider)
		return text, nil
	}

	logger.InfoSkip(ctx, 1, "Text generation received",
		"provider", og.provider,
		"response_len", len(text),
	)
	return text, nil
}

// preview returns at most n runes of s.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
