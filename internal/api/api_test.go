package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPOSTSendsJSONAndHeaders(t *testing.T) {
	var gotBody map[string]any
	var gotKey, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotCT = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHeader("x-api-key", "k1"))
	resp, err := c.POST(context.Background(), "/v1/echo", map[string]string{"prompt": "hi"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var out struct {
		OK bool `json:"ok"`
	}
	if err := resp.ParseJSON(&out); err != nil || !out.OK {
		t.Errorf("Expected ok response, got %v %+v", err, out)
	}
	if gotKey != "k1" {
		t.Errorf("Expected default header, got %q", gotKey)
	}
	if gotCT != "application/json" {
		t.Errorf("Expected JSON content type, got %q", gotCT)
	}
	if gotBody["prompt"] != "hi" {
		t.Errorf("Expected body forwarded, got %+v", gotBody)
	}
}

func TestErrorStatusReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`quota exceeded`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GET(context.Background(), "/")

	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected HTTPError, got %v", err)
	}
	if herr.StatusCode != http.StatusTooManyRequests || herr.Body != "quota exceeded" {
		t.Errorf("Unexpected error: %+v", herr)
	}
}

func TestRequestHeaderOverridesDefault(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Mode")
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHeader("X-Mode", "default"))
	if _, err := c.GET(context.Background(), "/", map[string]string{"X-Mode": "override"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "override" {
		t.Errorf("Expected override, got %q", got)
	}
}

func TestTransportErrorOmitsQuery(t *testing.T) {
	c := NewClient(WithBaseURL("http://127.0.0.1:1"), WithTimeout(2*time.Second))
	_, err := c.GET(context.Background(), "/v1/models?key=SECRET-123")
	if err == nil {
		t.Fatal("Expected connection error")
	}
	if strings.Contains(err.Error(), "SECRET-123") {
		t.Errorf("Expected query stripped from error, got %v", err)
	}
}

func TestStripQuery(t *testing.T) {
	tests := map[string]string{
		"http://h/p?key=x":  "http://h/p",
		"http://h/p#frag":   "http://h/p",
		"http://h/p":        "http://h/p",
		"/models/m:gen?a=b": "/models/m:gen",
	}
	for in, want := range tests {
		if got := stripQuery(in); got != want {
			t.Errorf("stripQuery(%q): expected %q, got %q", in, want, got)
		}
	}
}
