package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/julianstephens/helpme/internal/constants"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDBConnection, EnvModelProvider, EnvModel, EnvOwner, EnvAnthropicKey, EnvGeminiKey, "HELPME_MODEL_TIMEOUT", "HELPME_MODEL_TEMPERATURE"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model.Provider != ProviderAnthropic {
		t.Errorf("provider = %q, want %q", cfg.Model.Provider, ProviderAnthropic)
	}
	if cfg.Model.Model != constants.DefaultAnthropicModel {
		t.Errorf("model = %q, want %q", cfg.Model.Model, constants.DefaultAnthropicModel)
	}
	if cfg.Model.Timeout != constants.DefaultModelTimeout {
		t.Errorf("timeout = %v", cfg.Model.Timeout)
	}
	if cfg.DefaultTimezone != "UTC" {
		t.Errorf("timezone = %q", cfg.DefaultTimezone)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `log_level: DEBUG
default_timezone: Europe/Berlin
owner_id: owner-1
model:
  provider: Gemini
  timeout: 5s
  max_tokens: 800
  temperature: 0.7
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.Model.Provider != ProviderGemini || cfg.Model.Model != constants.DefaultGeminiModel {
		t.Errorf("model = %+v", cfg.Model)
	}
	if cfg.Model.Timeout != 5*time.Second || cfg.Model.MaxTokens != 800 || cfg.Model.Temperature != 0.7 {
		t.Errorf("model tuning = %+v", cfg.Model)
	}
	if cfg.OwnerID != "owner-1" || cfg.DefaultTimezone != "Europe/Berlin" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvModelProvider, "gemini")
	t.Setenv(EnvModel, "gemini-pro")
	t.Setenv(EnvGeminiKey, "g-key")
	t.Setenv(EnvAnthropicKey, "a-key")
	t.Setenv(EnvOwner, "env-owner")
	t.Setenv(EnvDBConnection, "postgres://u@localhost/db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model.APIKey != "g-key" {
		t.Errorf("api key = %q, want the gemini key", cfg.Model.APIKey)
	}
	if cfg.Model.Model != "gemini-pro" || cfg.OwnerID != "env-owner" || cfg.DBConnection != "postgres://u@localhost/db" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Model.KeyEnvVar() != EnvGeminiKey {
		t.Errorf("KeyEnvVar() = %q", cfg.Model.KeyEnvVar())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown provider", "model:\n  provider: openai\n"},
		{"temperature", "model:\n  temperature: 3\n"},
		{"timezone", "default_timezone: Mars/Olympus\n"},
		{"malformed", "model: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestBlankProviderMeansNone(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model:\n  provider: \"\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model.Provider != ProviderNone {
		t.Errorf("provider = %q, want none", cfg.Model.Provider)
	}
}
