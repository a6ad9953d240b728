// Package config loads the optional YAML settings file and applies
// environment overrides on top of built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/helpme/internal/constants"
)

// Environment variables consulted by Load.
const (
	EnvDBConnection  = "HELPME_DB_CONNECTION"
	EnvModelProvider = "HELPME_MODEL_PROVIDER"
	EnvModel         = "HELPME_MODEL"
	EnvOwner         = "HELPME_OWNER"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
)

// Provider names accepted in model.provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

type Config struct {
	LogLevel        string      `yaml:"log_level"`
	DefaultTimezone string      `yaml:"default_timezone"`
	OwnerID         string      `yaml:"owner_id"`
	DBConnection    string      `yaml:"db_connection"`
	Model           ModelConfig `yaml:"model"`
}

// ModelConfig selects and tunes the text-completion provider.
type ModelConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`

	// APIKey is never read from the file; it comes from the environment
	// or the keyring.
	APIKey string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		LogLevel:        "warn",
		DefaultTimezone: constants.DefaultTimezone,
		Model: ModelConfig{
			Provider:    constants.DefaultModelProvider,
			BaseURL:     constants.DefaultAnthropicBaseURL,
			Timeout:     constants.DefaultModelTimeout,
			MaxTokens:   constants.DefaultModelMaxTokens,
			Temperature: constants.DefaultModelTemperature,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDBConnection); ok && v != "" {
		c.DBConnection = v
	}
	if v, ok := lookup(EnvOwner); ok && v != "" {
		c.OwnerID = v
	}
	if v, ok := lookup(EnvModelProvider); ok && v != "" {
		c.Model.Provider = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.Model.Model = v
	}
	if v, ok := lookup("HELPME_MODEL_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.Model.Timeout = d
		}
	}
	if v, ok := lookup("HELPME_MODEL_TEMPERATURE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Model.Temperature = f
		}
	}

	keyVar := EnvAnthropicKey
	if strings.EqualFold(c.Model.Provider, ProviderGemini) {
		keyVar = EnvGeminiKey
	}
	if v, ok := lookup(keyVar); ok && v != "" {
		c.Model.APIKey = v
	}
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Model.Provider = strings.ToLower(strings.TrimSpace(c.Model.Provider))
	if c.Model.Provider == "" {
		c.Model.Provider = ProviderNone
	}
	if c.Model.Model == "" {
		switch c.Model.Provider {
		case ProviderAnthropic:
			c.Model.Model = constants.DefaultAnthropicModel
		case ProviderGemini:
			c.Model.Model = constants.DefaultGeminiModel
		}
	}
	if c.Model.Timeout <= 0 {
		c.Model.Timeout = constants.DefaultModelTimeout
	}
	if c.Model.MaxTokens <= 0 {
		c.Model.MaxTokens = constants.DefaultModelMaxTokens
	}
	if strings.TrimSpace(c.DefaultTimezone) == "" {
		c.DefaultTimezone = constants.DefaultTimezone
	}
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case ProviderAnthropic, ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("invalid model.provider %q (expected anthropic, gemini or none)", c.Model.Provider)
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("invalid model.temperature %v (expected 0 to 2)", c.Model.Temperature)
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid default_timezone %q: %w", c.DefaultTimezone, err)
	}
	return nil
}

// KeyEnvVar names the environment variable holding the API key for the
// configured provider.
func (m ModelConfig) KeyEnvVar() string {
	if m.Provider == ProviderGemini {
		return EnvGeminiKey
	}
	return EnvAnthropicKey
}
