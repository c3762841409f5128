package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "returnscli/internal/errors"
	"returnscli/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// InputConfig names the two source tables and the columns read from them.
type InputConfig struct {
	ForwardFile string               `yaml:"forward_file" envconfig:"FORWARD_FILE"`
	OrdersFile  string               `yaml:"orders_file" envconfig:"ORDERS_FILE"`
	Sheet       string               `yaml:"sheet" envconfig:"SHEET"`
	Columns     domain.ColumnMapping `yaml:"columns" envconfig:"COLUMNS"`
}

// AnalysisConfig tunes categorization and keyword statistics.
type AnalysisConfig struct {
	CategoriesFile string `yaml:"categories_file" envconfig:"CATEGORIES_FILE"`
	Workers        int    `yaml:"workers" envconfig:"WORKERS" validate:"min=0,max=256"`
	TopKeywords    int    `yaml:"top_keywords" envconfig:"TOP_KEYWORDS" validate:"min=0,max=1000"`
}

// ExportConfig selects the artifacts written after a run.
type ExportConfig struct {
	Formats    []string `yaml:"formats" envconfig:"FORMATS" validate:"min=1,dive,oneof=csv json xlsx sqlite console"`
	HistoryDB  string   `yaml:"history_db" envconfig:"HISTORY_DB" validate:"required"`
	ChartsFile string   `yaml:"charts_file" envconfig:"CHARTS_FILE" validate:"required"`
}

// TelemetryConfig controls OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	Metrics       bool   `yaml:"metrics" envconfig:"METRICS"`
}

// ServerConfig contains configuration for the report viewer
type ServerConfig struct {
	Addr            string          `yaml:"addr" envconfig:"ADDR" validate:"required"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// Load builds the configuration from defaults, an optional YAML file and
// RETURNS_* environment variables, in increasing order of precedence. An
// empty path falls back to the first config.yaml found in the usual places.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config file", err).
				WithContext("path", path)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML document onto cfg; keys absent from the
// file keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks field constraints and normalizes the logging level.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RPS <= 0 {
		return apperrors.NewConfigError(
			fmt.Sprintf("rate limit enabled with non-positive rps %v", c.Server.RateLimit.RPS), nil)
	}

	return nil
}

// HasFormat reports whether the export format is enabled.
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Export.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/analyzer.log",
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
		Input: InputConfig{
			ForwardFile: "data/forward_report.csv",
			OrdersFile:  "data/orders.csv",
			Columns:     domain.DefaultColumnMapping(),
		},
		Analysis: AnalysisConfig{
			Workers:     0,
			TopKeywords: DefaultTopKeywords,
		},
		Export: ExportConfig{
			Formats:    []string{"csv", "json", "xlsx", "sqlite", "console"},
			HistoryDB:  HistoryDBFile,
			ChartsFile: ChartsWorkbookFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
			Metrics:       true,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8090",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
	}
}
