package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"trading-journal/internal/api"
	"trading-journal/internal/ratelimit"
	"trading-journal/internal/types"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.text, f.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.UpstreamKind
	}{
		{"invalid key", errors.New("400: API key not valid. Please pass a valid API key."), types.InvalidCredentials},
		{"expired key", errors.New("API key expired. Please renew"), types.InvalidCredentials},
		{"quota", errors.New("Quota Exceeded for quota metric"), types.QuotaExceeded},
		{"rate limit", errors.New("Rate limit reached for requests"), types.QuotaExceeded},
		{"http 401", &api.HTTPError{StatusCode: 401, Body: "unauthorized"}, types.InvalidCredentials},
		{"http 403", fmt.Errorf("call: %w", &api.HTTPError{StatusCode: 403}), types.InvalidCredentials},
		{"http 429", &api.HTTPError{StatusCode: 429, Body: "slow down"}, types.QuotaExceeded},
		{"http 500", &api.HTTPError{StatusCode: 500, Body: "boom"}, types.UpstreamUnavailable},
		{"network", errors.New("dial tcp: connection refused"), types.UpstreamUnavailable},
		{"deadline", context.DeadlineExceeded, types.UpstreamUnavailable},
		{"already classified", &types.UpstreamError{Kind: types.InvalidCredentials}, types.InvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Kind != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Kind)
			}
			if tt.name != "already classified" && !errors.Is(got, tt.err) {
				t.Errorf("Expected original error wrapped")
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Expected nil for nil error")
	}
}

func TestClassifiedErrorsMatchSentinels(t *testing.T) {
	err := error(Classify(errors.New("quota exceeded")))
	if !errors.Is(err, types.ErrQuotaExceeded) {
		t.Errorf("Expected ErrQuotaExceeded, got %v", err)
	}
	if errors.Is(err, types.ErrInvalidCredentials) {
		t.Error("Expected no match for other kinds")
	}
}

func TestThrottleWaitsForSlot(t *testing.T) {
	inner := &fakeGenerator{text: "ok"}
	w := ratelimit.NewWindow(1, time.Hour)
	g := Throttle(inner, w)

	if _, err := g.Generate(context.Background(), "a"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.Generate(ctx, "b"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected second call to block until deadline, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("Expected 1 upstream call, got %d", inner.calls)
	}
}

func TestCachedServesRepeatPrompts(t *testing.T) {
	cache, err := NewResponseCache(1 << 20)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer cache.Close()

	inner := &fakeGenerator{text: "Title: A\nDescription: B"}
	g := Cached(inner, cache, time.Minute)

	first, _ := g.Generate(context.Background(), "prompt")
	cache.Wait()
	second, _ := g.Generate(context.Background(), "prompt")

	if first != second {
		t.Errorf("Expected identical responses, got %q and %q", first, second)
	}
	if inner.calls != 1 {
		t.Errorf("Expected 1 upstream call, got %d", inner.calls)
	}

	_, _ = g.Generate(context.Background(), "other prompt")
	if inner.calls != 2 {
		t.Errorf("Expected distinct prompt to miss, got %d calls", inner.calls)
	}
}

func TestCachedSkipsErrorsAndEmpty(t *testing.T) {
	cache, _ := NewResponseCache(1 << 20)
	defer cache.Close()

	inner := &fakeGenerator{err: errors.New("boom")}
	g := Cached(inner, cache, time.Minute)

	_, _ = g.Generate(context.Background(), "p")
	cache.Wait()
	inner.err = nil
	_, _ = g.Generate(context.Background(), "p")
	cache.Wait()
	_, _ = g.Generate(context.Background(), "p")

	if inner.calls != 3 {
		t.Errorf("Expected errors and empty text never cached, got %d calls", inner.calls)
	}
}
