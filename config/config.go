// Package config loads runtime settings from the environment (and an
// optional .env file) and filter selections from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Data sources.
const (
	SourceAuto   = "auto"
	SourceCSV    = "csv"
	SourceDuckDB = "duckdb"
	SourceSQLite = "sqlite"
	SourceSample = "sample"
)

// Config holds the CLI's runtime settings.
type Config struct {
	DataPath    string // file or directory with users / transactions / items
	Source      string // auto, csv, duckdb, sqlite or sample
	LogLevel    string // debug, info, warn, error (default "info")
	TopN        int    // items shown in the top-items chart (default 10)
	Workers     int    // parallel filter chunks; 0 or 1 filters sequentially
	CurrentYear int    // pins the age reference year; 0 uses the clock

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// LoadFromEnv loads configuration from environment variables. Each file in
// envFiles (default ".env") is read first when it exists; variables already
// set in the environment win.
func LoadFromEnv(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	var warnings []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			warnings = append(warnings, fmt.Sprintf("could not read %s: %v", f, err))
		}
	}

	cfg := &Config{
		DataPath: os.Getenv("SALESPULSE_DATA"),
		Source:   getEnv("SALESPULSE_SOURCE", SourceAuto),
		LogLevel: getEnv("SALESPULSE_LOG_LEVEL", "info"),
		Warnings: warnings,
	}
	cfg.TopN = cfg.getEnvAsInt("SALESPULSE_TOP_N", 10)
	cfg.Workers = cfg.getEnvAsInt("SALESPULSE_WORKERS", 0)
	cfg.CurrentYear = cfg.getEnvAsInt("SALESPULSE_CURRENT_YEAR", 0)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would make a run meaningless.
func (c *Config) Validate() error {
	var errs []error
	switch c.Source {
	case SourceAuto, SourceCSV, SourceDuckDB, SourceSQLite, SourceSample:
	default:
		errs = append(errs, fmt.Errorf("SALESPULSE_SOURCE must be one of auto, csv, duckdb, sqlite, sample (got %q)", c.Source))
	}
	if c.TopN <= 0 {
		errs = append(errs, fmt.Errorf("SALESPULSE_TOP_N must be positive (got %d)", c.TopN))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("SALESPULSE_WORKERS must not be negative (got %d)", c.Workers))
	}
	if c.CurrentYear < 0 {
		errs = append(errs, fmt.Errorf("SALESPULSE_CURRENT_YEAR must not be negative (got %d)", c.CurrentYear))
	}
	return errors.Join(errs...)
}

// LogrusLevel maps LogLevel to a logrus.Level.
func (c *Config) LogrusLevel() logrus.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ResolveSource returns the concrete source for path when Source is auto:
// a directory is csv, .sqlite/.db is sqlite, .xlsx/.duckdb is duckdb and an
// empty path is sample.
func (c *Config) ResolveSource(path string) string {
	if c.Source != "" && c.Source != SourceAuto {
		return c.Source
	}
	if path == "" {
		return SourceSample
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".sqlite3", ".db":
		return SourceSQLite
	case ".xlsx", ".duckdb":
		return SourceDuckDB
	default:
		return SourceCSV
	}
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func (c *Config) getEnvAsInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q is not an integer, using %d", key, v, defaultValue))
		return defaultValue
	}
	return n
}
