package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Scorer ScorerConfig `yaml:"scorer" mapstructure:"scorer"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// RenderConfig configures how pages are fetched and rendered.
type RenderConfig struct {
	Driver        string  `yaml:"driver" mapstructure:"driver"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	SettleSecs    int     `yaml:"settle_secs" mapstructure:"settle_secs"`
	UserAgent     string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64   `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxAttempts   int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	MinTextLength int     `yaml:"min_text_length" mapstructure:"min_text_length"`
	ChromePath    string  `yaml:"chrome_path" mapstructure:"chrome_path"`
	Headless      bool    `yaml:"headless" mapstructure:"headless"`
}

// ScorerConfig holds the display banding thresholds for lead scores.
type ScorerConfig struct {
	HighScore   int `yaml:"high_score" mapstructure:"high_score"`
	MediumScore int `yaml:"medium_score" mapstructure:"medium_score"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures the report history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ExportConfig configures batch export defaults.
type ExportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Known enumeration values.
var (
	RenderDrivers = []string{"http", "chrome", "rod", "auto", "file"}
	StoreDrivers  = []string{"sqlite", "postgres", "none"}
	ExportFormats = []string{"csv", "json", "yaml", "xlsx"}
)

// Load reads configuration from an optional .env file, config.yaml, and
// LEADSCOUT_* environment variables.
func Load() (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("render.driver", "http")
	v.SetDefault("render.timeout_secs", 30)
	v.SetDefault("render.settle_secs", 5)
	v.SetDefault("render.user_agent", "Mozilla/5.0 (compatible; LeadScout/1.0)")
	v.SetDefault("render.max_body_bytes", 2*1024*1024)
	v.SetDefault("render.max_attempts", 2)
	v.SetDefault("render.rate_per_sec", 2.0)
	v.SetDefault("render.rate_burst", 2)
	v.SetDefault("render.min_text_length", 500)
	v.SetDefault("render.headless", true)
	v.SetDefault("scorer.high_score", 7)
	v.SetDefault("scorer.medium_score", 4)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "lead-scout.db")
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.path", "scored_leads.csv")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks enumerations and numeric ranges.
func (c *Config) Validate() error {
	var errs []string

	if !slices.Contains(RenderDrivers, c.Render.Driver) {
		errs = append(errs, fmt.Sprintf("render.driver must be one of %s (got %q)", strings.Join(RenderDrivers, ", "), c.Render.Driver))
	}
	if c.Render.TimeoutSecs <= 0 {
		errs = append(errs, "render.timeout_secs must be > 0")
	}
	if c.Render.SettleSecs < 0 {
		errs = append(errs, "render.settle_secs must be >= 0")
	}
	if c.Render.MaxAttempts < 1 {
		errs = append(errs, "render.max_attempts must be >= 1")
	}
	if c.Render.RatePerSec < 0 {
		errs = append(errs, "render.rate_per_sec must be >= 0")
	}
	if c.Batch.Concurrency < 1 {
		errs = append(errs, "batch.concurrency must be >= 1")
	}
	if !slices.Contains(StoreDrivers, c.Store.Driver) {
		errs = append(errs, fmt.Sprintf("store.driver must be one of %s (got %q)", strings.Join(StoreDrivers, ", "), c.Store.Driver))
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required for postgres")
	}
	if !slices.Contains(ExportFormats, c.Export.Format) {
		errs = append(errs, fmt.Sprintf("export.format must be one of %s (got %q)", strings.Join(ExportFormats, ", "), c.Export.Format))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
