// Package config provides unified configuration for the Quickbase engine and
// its tooling.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the unified configuration for the engine, the index advisor,
// and the benchmark driver.
type Config struct {
	// Table holds engine configuration.
	Table TableConfig `json:"table" yaml:"table"`

	// Advisor holds index advisor configuration.
	Advisor AdvisorConfig `json:"advisor" yaml:"advisor"`

	// Bench holds benchmark driver configuration.
	Bench BenchConfig `json:"bench" yaml:"bench"`
}

// TableConfig holds engine configuration.
type TableConfig struct {
	// ExpectedRows sizes the per-column scan filters (bloom filters)
	ExpectedRows int `json:"expected_rows" yaml:"expected_rows"`

	// ScanFilterFPR is the target false positive rate for scan filters
	ScanFilterFPR float64 `json:"scan_filter_fpr" yaml:"scan_filter_fpr"`

	// InitialIndexes lists columns to index right after table creation
	InitialIndexes []string `json:"initial_indexes" yaml:"initial_indexes"`
}

// AdvisorConfig holds index advisor configuration.
type AdvisorConfig struct {
	// CreateThreshold is the linear-scan count that triggers index creation
	CreateThreshold int64 `json:"create_threshold" yaml:"create_threshold"`

	// DropThreshold is the query count below which an index is dropped
	DropThreshold int64 `json:"drop_threshold" yaml:"drop_threshold"`

	// MaxIndexes caps the number of secondary indexes the advisor creates
	MaxIndexes int `json:"max_indexes" yaml:"max_indexes"`

	// CheckInterval is the interval between advisor evaluation rounds
	CheckInterval time.Duration `json:"check_interval" yaml:"check_interval"`

	// CompactRatio is the soft-deleted fraction that triggers compaction
	CompactRatio float64 `json:"compact_ratio" yaml:"compact_ratio"`

	// StatsWindow is how long query statistics are retained
	StatsWindow time.Duration `json:"stats_window" yaml:"stats_window"`
}

// BenchConfig holds benchmark driver configuration.
type BenchConfig struct {
	// Records is the number of records to populate
	Records int `json:"records" yaml:"records"`

	// Iterations is the number of queries per timed test
	Iterations int `json:"iterations" yaml:"iterations"`

	// Prefix is the text-field prefix for generated records
	Prefix string `json:"prefix" yaml:"prefix"`

	// Readers is the number of concurrent readers in the concurrency phase
	Readers int `json:"readers" yaml:"readers"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Table: TableConfig{
			ExpectedRows:  100000,
			ScanFilterFPR: 0.01,
		},
		Advisor: AdvisorConfig{
			CreateThreshold: 50,
			DropThreshold:   5,
			MaxIndexes:      8,
			CheckInterval:   time.Minute,
			CompactRatio:    0.3,
			StatsWindow:     time.Hour,
		},
		Bench: BenchConfig{
			Records:    100000,
			Iterations: 100,
			Prefix:     "testdata",
			Readers:    8,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Table.ExpectedRows <= 0 {
		return fmt.Errorf("table.expected_rows must be positive, got %d", c.Table.ExpectedRows)
	}
	if c.Table.ScanFilterFPR <= 0 || c.Table.ScanFilterFPR >= 1 {
		return fmt.Errorf("table.scan_filter_fpr must be in (0, 1), got %g", c.Table.ScanFilterFPR)
	}
	if c.Advisor.CreateThreshold <= 0 {
		return fmt.Errorf("advisor.create_threshold must be positive, got %d", c.Advisor.CreateThreshold)
	}
	if c.Advisor.DropThreshold < 0 {
		return fmt.Errorf("advisor.drop_threshold must be non-negative, got %d", c.Advisor.DropThreshold)
	}
	if c.Advisor.MaxIndexes <= 0 {
		return fmt.Errorf("advisor.max_indexes must be positive, got %d", c.Advisor.MaxIndexes)
	}
	if c.Advisor.CompactRatio <= 0 || c.Advisor.CompactRatio > 1 {
		return fmt.Errorf("advisor.compact_ratio must be in (0, 1], got %g", c.Advisor.CompactRatio)
	}
	if c.Bench.Records <= 0 || c.Bench.Iterations <= 0 {
		return fmt.Errorf("bench.records and bench.iterations must be positive")
	}
	if c.Bench.Readers <= 0 {
		return fmt.Errorf("bench.readers must be positive, got %d", c.Bench.Readers)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file, layered over the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration overrides from environment variables.
// Environment variables use the QUICKBASE_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("QUICKBASE_EXPECTED_ROWS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Table.ExpectedRows)
	}
	if v := os.Getenv("QUICKBASE_SCAN_FILTER_FPR"); v != "" {
		fmt.Sscanf(v, "%g", &cfg.Table.ScanFilterFPR)
	}
	if v := os.Getenv("QUICKBASE_INITIAL_INDEXES"); v != "" {
		cfg.Table.InitialIndexes = strings.Split(v, ",")
	}

	// Advisor configuration
	if v := os.Getenv("QUICKBASE_ADVISOR_CREATE_THRESHOLD"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Advisor.CreateThreshold)
	}
	if v := os.Getenv("QUICKBASE_ADVISOR_DROP_THRESHOLD"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Advisor.DropThreshold)
	}
	if v := os.Getenv("QUICKBASE_ADVISOR_MAX_INDEXES"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Advisor.MaxIndexes)
	}
	if v := os.Getenv("QUICKBASE_ADVISOR_CHECK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Advisor.CheckInterval = d
		}
	}
	if v := os.Getenv("QUICKBASE_ADVISOR_COMPACT_RATIO"); v != "" {
		fmt.Sscanf(v, "%g", &cfg.Advisor.CompactRatio)
	}
	if v := os.Getenv("QUICKBASE_ADVISOR_STATS_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Advisor.StatsWindow = d
		}
	}

	// Bench configuration
	if v := os.Getenv("QUICKBASE_BENCH_RECORDS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Bench.Records)
	}
	if v := os.Getenv("QUICKBASE_BENCH_ITERATIONS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Bench.Iterations)
	}
	if v := os.Getenv("QUICKBASE_BENCH_PREFIX"); v != "" {
		cfg.Bench.Prefix = v
	}
	if v := os.Getenv("QUICKBASE_BENCH_READERS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Bench.Readers)
	}
}
