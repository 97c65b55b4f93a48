package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds storage configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AnalysisConfig holds the correlation engine thresholds. The significance
// and strength cutoffs are tuned empirically, not derived, so they stay
// independently configurable.
type AnalysisConfig struct {
	// LookbackDays limits analysis to a trailing window; 0 means all history
	LookbackDays int `mapstructure:"lookback_days"`
	// MinOverlap is the minimum number of overlapping dates a metric pair
	// needs before a correlation is computed
	MinOverlap int `mapstructure:"min_overlap"`
	// SignificanceP is the p-value cutoff (strict less-than)
	SignificanceP float64 `mapstructure:"significance_p"`
	// MinAbsR is the coefficient magnitude cutoff (strict greater-than)
	MinAbsR float64 `mapstructure:"min_abs_r"`
	// TopN caps how many insights are kept per polarity
	TopN int `mapstructure:"top_n"`
	// LowerIsBetter lists metric keys where a higher value is worse
	// (e.g. reflection_stress), used when phrasing cross-domain insights
	LowerIsBetter []string `mapstructure:"lower_is_better"`
}

// OpenAIConfig holds settings for the journal summarization collaborator.
// Passed explicitly to the summarizer; the correlation engine never reads it.
type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	APIBase        string `mapstructure:"api_base"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the summarizer request timeout as a duration
func (o OpenAIConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.path", "./data/crosscoach.db")
	v.SetDefault("analysis.lookback_days", 90)
	v.SetDefault("analysis.min_overlap", 5)
	v.SetDefault("analysis.significance_p", 0.05)
	v.SetDefault("analysis.min_abs_r", 0.3)
	v.SetDefault("analysis.top_n", 3)
	v.SetDefault("openai.api_base", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.timeout_seconds", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read from environment variables
	v.SetEnvPrefix("CROSSCOACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for backward compatibility
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.path", "DATABASE_PATH")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are sane
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	// 3 is the floor for the p-value's n-2 degrees of freedom
	if c.Analysis.MinOverlap < 3 {
		return fmt.Errorf("analysis.min_overlap must be at least 3, got %d", c.Analysis.MinOverlap)
	}
	if c.Analysis.SignificanceP <= 0 || c.Analysis.SignificanceP >= 1 {
		return fmt.Errorf("analysis.significance_p must be in (0, 1), got %g", c.Analysis.SignificanceP)
	}
	if c.Analysis.MinAbsR < 0 || c.Analysis.MinAbsR >= 1 {
		return fmt.Errorf("analysis.min_abs_r must be in [0, 1), got %g", c.Analysis.MinAbsR)
	}
	if c.Analysis.TopN < 1 {
		return fmt.Errorf("analysis.top_n must be at least 1, got %d", c.Analysis.TopN)
	}
	if c.Analysis.LookbackDays < 0 {
		return fmt.Errorf("analysis.lookback_days must not be negative, got %d", c.Analysis.LookbackDays)
	}
	return nil
}
