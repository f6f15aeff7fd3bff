package logger

import (
	"log/slog"
	"testing"
)

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FILE", "")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Level != "INFO" || cfg.Format != "json" || !cfg.TracingEnabled || cfg.File != "" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DETAILED", "true")
	t.Setenv("LOG_TRACING_ENABLED", "false")
	t.Setenv("LOG_FILE_MAX_BACKUPS", "2")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Level != "debug" || !cfg.DetailedLogging || cfg.TracingEnabled || cfg.FileMaxBackups != 2 {
		t.Errorf("Unexpected config: %+v", cfg)
	}
}

func TestLoadConfigFromEnvRejectsBadBool(t *testing.T) {
	t.Setenv("LOG_DETAILED", "sometimes")
	if _, err := LoadConfigFromEnv(); err == nil {
		t.Error("Expected error for invalid boolean")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestToAttributesSkipsUnsupported(t *testing.T) {
	attrs := toAttributes([]any{"symbol", "AAPL", "qty", 10, "nested", []int{1}, "dangling"})
	if len(attrs) != 2 {
		t.Errorf("Expected 2 attributes, got %d", len(attrs))
	}
}

func TestIsDebugEnabledFollowsDetailedLogging(t *testing.T) {
	defer func() { _ = InitWithConfig(LogConfig{Level: "INFO", Format: "json"}) }()

	if err := InitWithConfig(LogConfig{Level: "DEBUG", Format: "text", DetailedLogging: true}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !IsDebugEnabled() {
		t.Error("Expected detailed logging enabled")
	}
	if err := InitWithConfig(LogConfig{Level: "INFO", Format: "json"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if IsDebugEnabled() {
		t.Error("Expected detailed logging disabled")
	}
}
