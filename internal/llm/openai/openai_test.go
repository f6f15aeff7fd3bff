package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trading-journal/internal/store"
	"trading-journal/internal/types"
)

func TestGenerate(t *testing.T) {
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer srv.Close()

	cfg := store.Default()
	cfg.LLM.Endpoint = srv.URL
	cfg.LLM.OpenAIAPIKey = "sk-1"

	text, err := NewOpenAIGenerator(cfg).Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "hello" {
		t.Errorf("Expected hello, got %q", text)
	}
	if auth != "Bearer sk-1" || path != "/chat/completions" {
		t.Errorf("Unexpected request: auth=%q path=%q", auth, path)
	}
}

func TestGenerateMissingKey(t *testing.T) {
	_, err := NewOpenAIGenerator(store.Default()).Generate(context.Background(), "hi")
	if !errors.Is(err, types.ErrInvalidCredentials) {
		t.Errorf("Expected invalid credentials, got %v", err)
	}
}
