package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, e := range []string{"STOCKSCOPE_LLM_ANTHROPIC_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(e, "")
		os.Unsetenv(e)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q", cfg.API.Host)
	}
	if cfg.LLM.Model != "claude-3-5-haiku-20241022" {
		t.Errorf("LLM.Model: got %q", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 400 {
		t.Errorf("LLM.MaxTokens: got %d, want 400", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.AnthropicKey != "" {
		t.Errorf("LLM.AnthropicKey should default empty, got %q", cfg.LLM.AnthropicKey)
	}
	if cfg.Scrape.TimeoutSec != 10 {
		t.Errorf("Scrape.TimeoutSec: got %d, want 10", cfg.Scrape.TimeoutSec)
	}
	if cfg.Scrape.CacheTTLSec != 300 {
		t.Errorf("Scrape.CacheTTLSec: got %d, want 300", cfg.Scrape.CacheTTLSec)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("Logging defaults wrong: %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api:
  port: 9090
llm:
  model: test-model
  max_tokens: 256
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.LLM.Model != "test-model" {
		t.Errorf("LLM.Model: got %q", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 256 {
		t.Errorf("LLM.MaxTokens: got %d", cfg.LLM.MaxTokens)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging: %+v", cfg.Logging)
	}
	// Values the file omits keep their defaults.
	if cfg.Scrape.TimeoutSec != 10 {
		t.Errorf("Scrape.TimeoutSec should default, got %d", cfg.Scrape.TimeoutSec)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestAnthropicKeyFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOCKSCOPE_LLM_ANTHROPIC_KEY", "prefixed-key")
	t.Setenv("ANTHROPIC_API_KEY", "plain-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLM.AnthropicKey != "prefixed-key" {
		t.Errorf("prefixed env var must win, got %q", cfg.LLM.AnthropicKey)
	}
}

func TestAnthropicKeyPlainEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "plain-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLM.AnthropicKey != "plain-key" {
		t.Errorf("plain env var should apply when no prefixed key is set, got %q", cfg.LLM.AnthropicKey)
	}
}

func TestValidationRejectsBadValues(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api:
  port: -1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected a validation error for a negative port")
	}
}
