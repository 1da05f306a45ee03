package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/newthinker/fxagents/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Market  MarketConfig  `mapstructure:"market" yaml:"market"`
	Upload  UploadConfig  `mapstructure:"upload" yaml:"upload"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	Mode            string        `mapstructure:"mode" yaml:"mode"`
	APIKey          string        `mapstructure:"api_key" yaml:"api_key"`
	TemplatesDir    string        `mapstructure:"templates_dir" yaml:"templates_dir"` // empty uses the embedded templates
	MaxUploadMB     int           `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// MarketConfig selects and tunes the market-data collector.
type MarketConfig struct {
	Provider   string        `mapstructure:"provider" yaml:"provider"`
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	RatePerSec float64       `mapstructure:"rate_per_sec" yaml:"rate_per_sec"`
	Burst      int           `mapstructure:"burst" yaml:"burst"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// UploadConfig controls what happens to raw uploaded files.
type UploadConfig struct {
	Archive ArchiveConfig `mapstructure:"archive" yaml:"archive"`
}

type ArchiveConfig struct {
	Type string   `mapstructure:"type" yaml:"type"` // "none", "localfs" or "s3"
	Path string   `mapstructure:"path" yaml:"path"` // For localfs
	S3   S3Config `mapstructure:"s3" yaml:"s3"`     // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Region    string `mapstructure:"region" yaml:"region"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
}

type LLMConfig struct {
	Provider   string           `mapstructure:"provider" yaml:"provider"`
	Claude     ClaudeConfig     `mapstructure:"claude" yaml:"claude"`
	OpenAI     OpenAIConfig     `mapstructure:"openai" yaml:"openai"`
	Ollama     OllamaConfig     `mapstructure:"ollama" yaml:"ollama"`
	Perplexity PerplexityConfig `mapstructure:"perplexity" yaml:"perplexity"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Model  string `mapstructure:"model" yaml:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Model  string `mapstructure:"model" yaml:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Model    string `mapstructure:"model" yaml:"model"`
}

// PerplexityConfig configures the OpenAI-compatible Perplexity API.
// MODEL_ID in the environment overrides Model.
type PerplexityConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	Model   string `mapstructure:"model" yaml:"model"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig adds an optional rotating log file.
type LoggingConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// TracingConfig controls OpenTelemetry span export to stdout.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Pretty  bool `mapstructure:"pretty" yaml:"pretty"`
}

// Load reads configuration from file. Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, Defaults())

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.ApplyEnv()

	return &cfg, nil
}

// ApplyEnv applies the well-known environment variables the web app has always honoured.
func (c *Config) ApplyEnv() {
	if model := os.Getenv("MODEL_ID"); model != "" {
		c.LLM.Perplexity.Model = model
	}
	if c.LLM.Perplexity.APIKey == "" {
		c.LLM.Perplexity.APIKey = os.Getenv("PERPLEXITY_API_KEY")
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("market.provider", d.Market.Provider)
	v.SetDefault("market.rate_per_sec", d.Market.RatePerSec)
	v.SetDefault("market.burst", d.Market.Burst)
	v.SetDefault("market.timeout", d.Market.Timeout)
	v.SetDefault("upload.archive.type", d.Upload.Archive.Type)
	v.SetDefault("llm.perplexity.model", d.LLM.Perplexity.Model)
	v.SetDefault("llm.perplexity.base_url", d.LLM.Perplexity.BaseURL)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Mode:            "release",
			MaxUploadMB:     10,
			ShutdownTimeout: 10 * time.Second,
		},
		Market: MarketConfig{
			Provider:   "yahoo",
			RatePerSec: 2,
			Burst:      2,
			Timeout:    10 * time.Second,
		},
		Upload: UploadConfig{
			Archive: ArchiveConfig{
				Type: "none",
			},
		},
		LLM: LLMConfig{
			Perplexity: PerplexityConfig{
				Model:   "llama-3.1-sonar-small-128k-online",
				BaseURL: "https://api.perplexity.ai",
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.MaxUploadMB < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_upload_mb cannot be negative, got %d", c.Server.MaxUploadMB))
	}

	// Market validation
	if c.Market.RatePerSec < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("market rate_per_sec cannot be negative, got %f", c.Market.RatePerSec))
	}

	// Archive validation
	switch c.Upload.Archive.Type {
	case "", "none":
	case "localfs":
		if c.Upload.Archive.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("upload.archive.path required when archive type is localfs"))
		}
	case "s3":
		if c.Upload.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("upload.archive.s3.bucket required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", c.Upload.Archive.Type))
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		case "perplexity":
			if c.LLM.Perplexity.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("perplexity api_key required when provider is perplexity"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
		}
	}

	return nil
}

// Masked returns a copy with credentials replaced, safe to print.
func (c Config) Masked() Config {
	c.Server.APIKey = mask(c.Server.APIKey)
	c.Upload.Archive.S3.AccessKey = mask(c.Upload.Archive.S3.AccessKey)
	c.Upload.Archive.S3.SecretKey = mask(c.Upload.Archive.S3.SecretKey)
	c.LLM.Claude.APIKey = mask(c.LLM.Claude.APIKey)
	c.LLM.OpenAI.APIKey = mask(c.LLM.OpenAI.APIKey)
	c.LLM.Perplexity.APIKey = mask(c.LLM.Perplexity.APIKey)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}
