package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
// All required fields are validated at startup to ensure fail-fast behavior.
type Config struct {
	LogLevel string

	// Solana configuration. Multiple RPC endpoints may be supplied
	// comma-separated; one is selected at startup.
	SolanaRPCURLs []string
	EndpointLabel string

	// Traversal configuration
	PageSize  int
	PageDelay time.Duration

	// Enrichment configuration
	Concurrency int

	// Classification configuration, in lamports.
	HighValueThreshold uint64
}

// Load reads configuration from environment variables and validates all required fields.
// Returns an error if any required configuration is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	rpcURLs := os.Getenv("SOLANA_RPC_URLS")
	if rpcURLs == "" {
		errs = append(errs, fmt.Errorf("SOLANA_RPC_URLS is required"))
	} else {
		for _, u := range strings.Split(rpcURLs, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.SolanaRPCURLs = append(cfg.SolanaRPCURLs, u)
			}
		}
		if len(cfg.SolanaRPCURLs) == 0 {
			errs = append(errs, fmt.Errorf("SOLANA_RPC_URLS contains no usable endpoints"))
		}
	}

	cfg.EndpointLabel = getEnvOrDefault("SOLANA_ENDPOINT_LABEL", "mainnet")

	pageSize, err := parseInt("TRAVERSE_PAGE_SIZE", 1000)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.PageSize = pageSize
	}

	pageDelay, err := parseDuration("TRAVERSE_PAGE_DELAY", "0s")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.PageDelay = pageDelay
	}

	concurrency, err := parseInt("ENRICH_CONCURRENCY", 4)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.Concurrency = concurrency
	}

	threshold, err := parseUint("HIGH_VALUE_THRESHOLD_LAMPORTS", 0)
	if err != nil {
		errs = append(errs, err)
	} else {
		// 0 falls through to the classifier's documented default.
		cfg.HighValueThreshold = threshold
	}

	if err := cfg.validateRanges(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for initialization where misconfiguration should halt startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if len(c.SolanaRPCURLs) == 0 {
		errs = append(errs, fmt.Errorf("SolanaRPCURLs is required"))
	}

	if c.EndpointLabel == "" {
		errs = append(errs, fmt.Errorf("EndpointLabel is required"))
	}

	if err := c.validateRanges(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

func (c *Config) validateRanges() error {
	var errs []error

	if c.PageSize < 1 || c.PageSize > 1000 {
		errs = append(errs, fmt.Errorf("PageSize must be between 1 and 1000, got %d", c.PageSize))
	}

	if c.PageDelay < 0 {
		errs = append(errs, fmt.Errorf("PageDelay cannot be negative"))
	}

	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("Concurrency must be at least 1, got %d", c.Concurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%v", errs)
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return duration, nil
}

// parseInt parses an integer from an environment variable or uses a default.
func parseInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return result, nil
}

// parseUint parses an unsigned integer from an environment variable or uses a default.
func parseUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid unsigned integer %q: %w", key, value, err)
	}
	return result, nil
}
