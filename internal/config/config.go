// Package config handles configuration loading for StockScope.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	LLM     LLMConfig     `mapstructure:"llm"     yaml:"llm"`
	Scrape  ScrapeConfig  `mapstructure:"scrape"  yaml:"scrape"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"         validate:"required"`
	Port        int      `mapstructure:"port"         yaml:"port"         validate:"gt=0,lte=65535"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LLMConfig holds the generation backend configuration. An empty AnthropicKey
// is valid: the insight generator then runs on its templated fallback only.
type LLMConfig struct {
	AnthropicKey string `mapstructure:"anthropic_key" yaml:"anthropic_key"`
	Model        string `mapstructure:"model"         yaml:"model"         validate:"required"`
	MaxTokens    int    `mapstructure:"max_tokens"    yaml:"max_tokens"    validate:"gt=0"`
}

// ScrapeConfig holds data-acquisition settings.
type ScrapeConfig struct {
	TimeoutSec  int `mapstructure:"timeout_sec"   yaml:"timeout_sec"   validate:"gt=0,lte=60"`
	CacheTTLSec int `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec" validate:"gte=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockscope/config.yaml (home directory)
//  3. /etc/stockscope/config.yaml (system)
//
// Environment variables override config file values.
// Format: STOCKSCOPE_<SECTION>_<KEY>, e.g., STOCKSCOPE_LLM_ANTHROPIC_KEY
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockscope"))
	v.AddConfigPath("/etc/stockscope")

	v.SetEnvPrefix("STOCKSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file found; defaults plus env vars apply.
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("STOCKSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("llm.model", "claude-3-5-haiku-20241022")
	v.SetDefault("llm.max_tokens", 400)

	v.SetDefault("scrape.timeout_sec", 10)
	v.SetDefault("scrape.cache_ttl_sec", 300)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("STOCKSCOPE_LLM_ANTHROPIC_KEY"); key != "" {
		cfg.LLM.AnthropicKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && cfg.LLM.AnthropicKey == "" {
		cfg.LLM.AnthropicKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
