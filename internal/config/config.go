package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `env:"SERVER" yaml:"server"`

	// Storage configuration
	Storage StorageConfig `env:"STORAGE" yaml:"storage"`

	// Logging configuration
	Logging LoggingConfig `env:"LOGGING" yaml:"logging"`

	// Metrics configuration
	Metrics MetricsConfig `env:"METRICS" yaml:"metrics"`

	// Configuration file path
	ConfigFile string `env:"CONFIG_FILE" yaml:"-"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	// HTTP server address
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080" yaml:"http_addr"`

	// Default namespace used when a request carries none
	DefaultNamespace string `env:"DEFAULT_NAMESPACE" envDefault:"default" yaml:"default_namespace"`
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	// Data directory path
	DataDir string `env:"DATA_DIR" envDefault:"./data" yaml:"data_dir"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	// Log level: "debug", "info", "warn", "error"
	Level string `env:"LOG_LEVEL" envDefault:"info" yaml:"level"`

	// Log format: "json", "text"
	Format string `env:"LOG_FORMAT" envDefault:"json" yaml:"format"`

	// Log file path (empty for stdout)
	Output string `env:"LOG_OUTPUT" envDefault:"" yaml:"output"`

	// Enable log rotation
	Rotation bool `env:"LOG_ROTATION" envDefault:"true" yaml:"rotation"`

	// Max log file size in MB
	MaxSize int `env:"LOG_MAX_SIZE" envDefault:"100" yaml:"max_size"`

	// Number of backup files to keep
	MaxBackups int `env:"LOG_MAX_BACKUPS" envDefault:"7" yaml:"max_backups"`

	// Max age in days
	MaxAge int `env:"LOG_MAX_AGE" envDefault:"30" yaml:"max_age"`
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	// Enable Prometheus metrics
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true" yaml:"enabled"`

	// Metrics server address
	Addr string `env:"METRICS_ADDR" envDefault:":9090" yaml:"addr"`
}

// Load loads configuration from multiple sources, later ones winning:
// 1. Default values
// 2. Environment variables
// 3. Configuration file (YAML)
// 4. Command line flags
func Load() (*Config, error) {
	cfg := &Config{}

	// Load from environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	// Parse command line flags
	flag.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to configuration file")
	httpAddr := flag.String("http-addr", cfg.Server.HTTPAddr, "HTTP server address")
	dataDir := flag.String("data-dir", cfg.Storage.DataDir, "Data directory path")
	logLevel := flag.String("log-level", cfg.Logging.Level, "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", cfg.Logging.Format, "Log format (json, text)")
	flag.Parse()

	// Load from config file if specified
	if cfg.ConfigFile != "" {
		if err := loadFromFile(cfg, cfg.ConfigFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Flags passed explicitly override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "http-addr":
			cfg.Server.HTTPAddr = *httpAddr
		case "data-dir":
			cfg.Storage.DataDir = *dataDir
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-format":
			cfg.Logging.Format = *logFormat
		}
	})

	// Normalize paths
	cfg.Storage.DataDir = filepath.Clean(cfg.Storage.DataDir)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("http server address cannot be empty")
	}

	if c.Server.DefaultNamespace == "" {
		return fmt.Errorf("default namespace cannot be empty")
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics address cannot be empty when metrics are enabled")
	}

	return nil
}

// loadFromFile loads configuration from a YAML file on top of whatever
// is already set from environment variables and defaults
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}
