// Package config loads screener settings from a config file and the
// environment.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/resume-screener/internal/storage"
)

// EnvPrefix prefixes every environment override, e.g. SCREENER_WORKERS.
const EnvPrefix = "SCREENER"

// Embedding providers.
const (
	ProviderGemini  = "gemini"
	ProviderLexical = "lexical"
)

// Config holds every setting of the CLI and the HTTP server.
type Config struct {
	APIKey    string          `mapstructure:"api_key" json:"-"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Workers   int             `mapstructure:"workers" validate:"min=1,max=64"`
	Skills    []string        `mapstructure:"skills"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   storage.Config  `mapstructure:"storage"`
	AMQP      AMQPConfig      `mapstructure:"amqp"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider" validate:"oneof=gemini lexical"`
	Model      string `mapstructure:"model" validate:"required_if=Provider gemini"`
	BatchSize  int    `mapstructure:"batch_size" validate:"min=1,max=100"`
	Dimensions int    `mapstructure:"dimensions" validate:"min=8,max=8192"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int             `mapstructure:"port" validate:"min=1,max=65535"`
	MaxUploadMB int             `mapstructure:"max_upload_mb" validate:"min=1,max=1024"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig is a per-client token bucket.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"gt=0"`
	Burst int     `mapstructure:"burst" validate:"min=1"`
}

// AMQPConfig enables summary publication when URL is set.
type AMQPConfig struct {
	URL      string `mapstructure:"url" json:"-" validate:"omitempty,url"`
	Exchange string `mapstructure:"exchange" validate:"required_with=URL"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("embedding.provider", ProviderGemini)
	v.SetDefault("embedding.model", "text-embedding-004")
	v.SetDefault("embedding.batch_size", 100)
	v.SetDefault("embedding.dimensions", 512)
	v.SetDefault("workers", 4)
	v.SetDefault("skills", []string{})
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.rate_limit.rps", 2.0)
	v.SetDefault("server.rate_limit.burst", 10)
	for _, key := range []string{"endpoint", "region", "bucket", "prefix", "access_key", "secret_key"} {
		v.SetDefault("storage."+key, "")
	}
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "screening_results")
}

// newViper returns a viper instance with defaults and environment bindings.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", EnvPrefix+"_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key environment: %w", err)
	}
	return v, nil
}

// Default returns the configuration built from defaults and the environment.
func Default() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// LoadConfig reads the config file at path, applies environment overrides,
// and validates the result.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return decode(v)
}

// Load is LoadConfig with an optional path: an empty path uses defaults and
// the environment only.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	return LoadConfig(path)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// RequireAPIKey reports an error when the Gemini provider has no key. It is
// checked only by commands that embed.
func (c *Config) RequireAPIKey() error {
	if c.Embedding.Provider == ProviderGemini && c.APIKey == "" {
		return fmt.Errorf("config error: api_key (or GEMINI_API_KEY) is required for the gemini embedding provider")
	}
	return nil
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
