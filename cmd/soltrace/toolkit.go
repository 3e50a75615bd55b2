package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/brojonat/soltrace/service/config"
	"github.com/brojonat/soltrace/service/metrics"
	"github.com/brojonat/soltrace/service/relate"
	"github.com/brojonat/soltrace/service/solana"
	"github.com/brojonat/soltrace/service/traverse"
	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"
)

// toolkit wires the full stack for one CLI invocation.
type toolkit struct {
	cfg       *config.Config
	client    *solana.Client
	traverser *traverse.Traverser
	enricher  *traverse.Enricher
	analyzer  *relate.Analyzer
	logger    *slog.Logger
}

func newToolkit(c *cli.Context) (*toolkit, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	endpoint, err := solana.SelectRandomEndpoint(cfg.SolanaRPCURLs)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	metricsCollector := metrics.NewMetrics(nil) // nil uses default registry

	client := solana.NewClient(solana.NewRPCClient(endpoint), cfg.EndpointLabel, metricsCollector, logger)
	traverser := traverse.NewTraverser(client, traverse.Options{
		PageSize:  cfg.PageSize,
		PageDelay: cfg.PageDelay,
	}, metricsCollector, logger)
	enricher := traverse.NewEnricher(client, metricsCollector, logger)

	return &toolkit{
		cfg:       cfg,
		client:    client,
		traverser: traverser,
		enricher:  enricher,
		analyzer:  relate.NewAnalyzer(traverser, enricher, logger),
		logger:    logger,
	}, nil
}

// loadConfig assembles configuration from the global flags. The flags are
// env-var backed, so the values match what config.Load would read from the
// environment, with explicit flags taking precedence; the same fail-fast
// validation applies.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{
		LogLevel:           c.String("log-level"),
		SolanaRPCURLs:      c.StringSlice("rpc-url"),
		EndpointLabel:      c.String("endpoint-label"),
		PageSize:           c.Int("page-size"),
		PageDelay:          c.Duration("page-delay"),
		Concurrency:        c.Int("concurrency"),
		HighValueThreshold: c.Uint64("high-value-threshold"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// printJSON marshals v indented, optionally running it through a jq
// filter first. Each jq result is printed on its own line.
func printJSON(v interface{}, jqFilter string) error {
	if jqFilter == "" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	query, err := gojq.Parse(jqFilter)
	if err != nil {
		return fmt.Errorf("failed to parse jq filter %q: %w", jqFilter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("failed to compile jq filter %q: %w", jqFilter, err)
	}

	// Round-trip through JSON so jq sees plain maps and slices.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	var plain interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return fmt.Errorf("failed to decode output for jq: %w", err)
	}

	iter := code.Run(plain)
	for {
		result, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := result.(error); isErr {
			return fmt.Errorf("jq filter failed: %w", err)
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal jq result: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}
