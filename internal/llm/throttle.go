package llm

import (
	"context"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/ratelimit"
)

type throttled struct {
	next   interfaces.Generator
	window *ratelimit.Window
}

// Throttle makes every call wait for a rate-limit slot first.
func Throttle(g interfaces.Generator, w *ratelimit.Window) interfaces.Generator {
	return &throttled{next: g, window: w}
}

func (t *throttled) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := ratelimit.WithRateLimit(ctx, t.window, func() error {
		var err error
		text, err = t.next.Generate(ctx, prompt)
		return err
	})
	return text, err
}
