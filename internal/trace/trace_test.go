package trace

import (
	"context"
	"testing"
)

func TestStartRequestSpanDisabled(t *testing.T) {
	if err := InitWithEnabled(false); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	ctx := context.Background()
	got, span := StartRequestSpan(ctx, "GET", "/api/trades/:id")
	if got != ctx {
		t.Error("Expected context unchanged when tracing is disabled")
	}
	if span.SpanContext().IsValid() {
		t.Error("Expected a no-op span")
	}
	EndRequestSpan(span, 500)

	if _, _, ok := GetTraceFields(got); ok {
		t.Error("Expected no trace fields when disabled")
	}
}
