package main

import (
	"context"
	"fmt"

	"github.com/brojonat/soltrace/service/solana"
	"github.com/urfave/cli/v2"
)

func historyCommands() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Signature history traversal commands",
		Subcommands: []*cli.Command{
			historyListCommand(),
			historyContainsCommand(),
		},
	}
}

func historyListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "Walk an address's signature history, newest first",
		ArgsUsage: "ADDRESS",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Stop after this many signatures (0 walks the full history)",
			},
			&cli.BoolFlag{
				Name:    "recent",
				Aliases: []string{"r"},
				Usage:   "Fetch a single page and never follow the cursor",
			},
			&cli.BoolFlag{
				Name:  "success-only",
				Usage: "Drop signatures whose transaction failed",
			},
			&cli.StringFlag{
				Name:    "jq",
				Usage:   "jq filter applied to the JSON output",
				Aliases: []string{"q"},
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("address is required")
			}
			address := c.Args().Get(0)

			tk, err := newToolkit(c)
			if err != nil {
				return err
			}

			ctx := context.Background()
			var records []solana.SignatureRecord
			switch {
			case c.Bool("recent"):
				n := c.Int("limit")
				if n <= 0 {
					n = c.Int("page-size")
				}
				records, err = tk.traverser.Recent(ctx, address, n)
			case c.Bool("success-only"):
				records, err = tk.traverser.Filtered(ctx, address, func(r solana.SignatureRecord) bool {
					return r.Successful()
				})
				if err == nil && c.Int("limit") > 0 && len(records) > c.Int("limit") {
					records = records[:c.Int("limit")]
				}
			case c.Int("limit") > 0:
				records, err = tk.traverser.First(ctx, address, c.Int("limit"))
			default:
				records, err = tk.traverser.All(ctx, address)
			}
			if err != nil {
				return fmt.Errorf("failed to traverse history for %s: %w", address, err)
			}

			return printJSON(signatureRows(records), c.String("jq"))
		},
	}
}

func historyContainsCommand() *cli.Command {
	return &cli.Command{
		Name:      "contains",
		Usage:     "Find history entries whose transaction references another address",
		ArgsUsage: "ADDRESS TARGET",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "first",
				Aliases: []string{"1"},
				Usage:   "Stop at the most recent match instead of collecting all",
			},
			&cli.StringFlag{
				Name:    "jq",
				Usage:   "jq filter applied to the JSON output",
				Aliases: []string{"q"},
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("address and target address are required")
			}
			address := c.Args().Get(0)
			target, err := solana.ParseAddress(c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("invalid target address %q: %w", c.Args().Get(1), err)
			}

			tk, err := newToolkit(c)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if c.Bool("first") {
				rec, err := tk.traverser.LastContaining(ctx, address, target)
				if err != nil {
					return fmt.Errorf("failed to search history for %s: %w", address, err)
				}
				if rec == nil {
					return fmt.Errorf("no transaction of %s references %s", address, target)
				}
				return printJSON(signatureRows([]solana.SignatureRecord{*rec}), c.String("jq"))
			}

			records, err := tk.traverser.AllContaining(ctx, address, target)
			if err != nil {
				return fmt.Errorf("failed to search history for %s: %w", address, err)
			}
			return printJSON(signatureRows(records), c.String("jq"))
		},
	}
}

// signatureRows flattens records into JSON-friendly rows so jq filters
// see strings rather than signature byte arrays.
func signatureRows(records []solana.SignatureRecord) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		row := map[string]interface{}{
			"signature": r.Signature.String(),
			"slot":      r.Slot,
			"success":   r.Successful(),
		}
		if r.BlockTime != nil {
			row["block_time"] = formatBlockTime(r.BlockTime)
		}
		if r.Err != nil {
			row["error"] = *r.Err
		}
		rows = append(rows, row)
	}
	return rows
}
