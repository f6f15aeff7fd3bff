package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trading-journal/internal/api"
	"trading-journal/internal/store"
	"trading-journal/internal/types"
)

func testConfig(endpoint string) *store.Config {
	cfg := store.Default()
	cfg.LLM.Endpoint = endpoint
	cfg.LLM.GeminiAPIKey = "test-key"
	return cfg
}

func TestGenerateJoinsParts(t *testing.T) {
	var gotPath, gotKey string
	var gotReq request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get(APIKeyHeader)
		if r.URL.RawQuery != "" {
			t.Errorf("Expected no query string, got %q", r.URL.RawQuery)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Title: A\n"},{"text":"Description: B"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	g := NewGeminiGenerator(testConfig(srv.URL))
	text, err := g.Generate(context.Background(), "analyze")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "Title: A\nDescription: B" {
		t.Errorf("Expected joined parts, got %q", text)
	}
	if gotPath != "/models/gemini-pro:generateContent" {
		t.Errorf("Unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("Expected key header, got %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "analyze" {
		t.Errorf("Expected prompt forwarded, got %+v", gotReq)
	}
}

func TestGenerateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	text, err := NewGeminiGenerator(testConfig(srv.URL)).Generate(context.Background(), "x")
	if err != nil || text != "" {
		t.Errorf("Expected empty text, got %q (%v)", text, err)
	}
}

func TestGenerateHTTPErrorKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid. Please pass a valid API key."}}`))
	}))
	defer srv.Close()

	_, err := NewGeminiGenerator(testConfig(srv.URL)).Generate(context.Background(), "x")
	var herr *api.HTTPError
	if !errors.As(err, &herr) || herr.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected HTTPError 400, got %v", err)
	}
}

func TestGenerateMissingKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.LLM.GeminiAPIKey = ""

	_, err := NewGeminiGenerator(cfg).Generate(context.Background(), "x")
	if !errors.Is(err, types.ErrInvalidCredentials) {
		t.Errorf("Expected invalid credentials, got %v", err)
	}
}

func TestModelPath(t *testing.T) {
	if modelPath("models/gemini-pro") != "gemini-pro" || modelPath("gemini-1.5-flash") != "gemini-1.5-flash" {
		t.Error("Expected models/ prefix stripped")
	}
}
