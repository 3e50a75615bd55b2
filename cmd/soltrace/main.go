package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:  "soltrace",
		Usage: "Solana transaction decoding and history traversal CLI",
		Description: `A command-line tool for decoding confirmed Solana transactions,
walking address histories, and answering payment-relationship questions.

All chain access is read-only against a JSON-RPC node.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			txCommands(),
			historyCommands(),
			relationshipCommands(),
			feeCommand(),
		},
		// Global flags available to all commands
		Flags: globalFlags(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// globalFlags declares the env-var-backed flags shared by every command;
// loadConfig assembles them into a validated config.Config.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "rpc-url",
			Usage:   "Solana RPC endpoint (repeatable; one is picked at random)",
			EnvVars: []string{"SOLANA_RPC_URLS"},
		},
		&cli.StringFlag{
			Name:    "endpoint-label",
			Usage:   "Endpoint identifier used in logs and metrics",
			EnvVars: []string{"SOLANA_ENDPOINT_LABEL"},
			Value:   "mainnet",
		},
		&cli.IntFlag{
			Name:    "page-size",
			Usage:   "Signatures per history page (1-1000)",
			EnvVars: []string{"TRAVERSE_PAGE_SIZE"},
			Value:   1000,
		},
		&cli.DurationFlag{
			Name:    "page-delay",
			Usage:   "Delay between consecutive page requests (e.g., 200ms)",
			EnvVars: []string{"TRAVERSE_PAGE_DELAY"},
			Value:   0,
		},
		&cli.IntFlag{
			Name:    "concurrency",
			Usage:   "Maximum in-flight transaction fetches during batch enrichment",
			EnvVars: []string{"ENRICH_CONCURRENCY"},
			Value:   4,
		},
		&cli.Uint64Flag{
			Name:    "high-value-threshold",
			Usage:   "Lamport threshold for flagging high-value transfers (0 uses the built-in 1000 SOL default)",
			EnvVars: []string{"HIGH_VALUE_THRESHOLD_LAMPORTS"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			EnvVars: []string{"LOG_LEVEL"},
			Value:   "error",
		},
	}
}

func formatBlockTime(t *time.Time) string {
	if t == nil {
		return "(unknown)"
	}
	return t.UTC().Format(time.RFC3339)
}
