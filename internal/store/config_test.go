package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Server.Port != 5000 || cfg.LLM.Provider != ProviderGemini || cfg.LLM.Model != "gemini-pro" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.RateLimit.Requests != 60 || cfg.RateWindow() != time.Minute {
		t.Errorf("Expected 60 requests per minute, got %d per %v", cfg.RateLimit.Requests, cfg.RateWindow())
	}
	if !cfg.Journal.SeedSamples {
		t.Error("Expected sample trades seeded without a config file")
	}
}

func TestLoadConfigFileAndEnvOverlay(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  cors_origin: http://localhost:3000
llm:
  provider: OPENAI
  temperature: 0.3
rate_limit:
  requests: 10
  window_seconds: 30
journal:
  retention_days: 7
`)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected env PORT to win, got %d", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "http://localhost:3000" {
		t.Errorf("Expected CORS origin from file, got %q", cfg.Server.CORSOrigin)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Expected provider default model, got %q", cfg.LLM.Model)
	}
	if cfg.APIKey() != "sk-test" {
		t.Errorf("Expected OpenAI key, got %q", cfg.APIKey())
	}
	if cfg.RateWindow() != 30*time.Second || cfg.Journal.RetentionDays != 7 {
		t.Errorf("Unexpected rate window/retention: %v %d", cfg.RateWindow(), cfg.Journal.RetentionDays)
	}
	if cfg.Journal.SeedSamples {
		t.Error("Expected seeding off unless configured")
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"provider", "llm:\n  provider: LLAMA\n", "llm.provider"},
		{"port", "server:\n  port: 70000\n", "server.port"},
		{"temperature", "llm:\n  temperature: 3\n", "llm.temperature"},
		{"retention", "journal:\n  retention_days: -1\n", "retention_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LLM_PROVIDER", "")
			t.Setenv("PORT", "")
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "server: [")); err == nil {
		t.Error("Expected parse error")
	}
}
