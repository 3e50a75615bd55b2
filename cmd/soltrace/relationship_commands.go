package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

func relationshipCommands() *cli.Command {
	return &cli.Command{
		Name:    "relationship",
		Aliases: []string{"rel"},
		Usage:   "Payment relationship queries between two addresses",
		Subcommands: []*cli.Command{
			hasPaidCommand(),
			totalPaidCommand(),
		},
	}
}

func hasPaidCommand() *cli.Command {
	return &cli.Command{
		Name:      "has-paid",
		Usage:     "Check whether PAYER has ever paid RECIPIENT",
		ArgsUsage: "RECIPIENT PAYER",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "jq",
				Usage:   "jq filter applied to the JSON output",
				Aliases: []string{"q"},
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("recipient and payer addresses are required")
			}
			recipient := c.Args().Get(0)
			payer := c.Args().Get(1)

			tk, err := newToolkit(c)
			if err != nil {
				return err
			}

			sig, err := tk.analyzer.HasPaymentRelationship(context.Background(), recipient, payer)
			if err != nil {
				return fmt.Errorf("failed to check payment relationship: %w", err)
			}

			out := map[string]interface{}{
				"recipient": recipient,
				"payer":     payer,
				"has_paid":  sig != nil,
			}
			if sig != nil {
				out["signature"] = sig.String()
			}
			return printJSON(out, c.String("jq"))
		},
	}
}

func totalPaidCommand() *cli.Command {
	return &cli.Command{
		Name:      "total",
		Usage:     "Sum payments from PAYER to RECIPIENT",
		ArgsUsage: "RECIPIENT PAYER",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "window",
				Aliases: []string{"w"},
				Usage:   "Only count payments within this trailing window (e.g., 720h); omit for all time",
			},
			&cli.StringFlag{
				Name:    "jq",
				Usage:   "jq filter applied to the JSON output",
				Aliases: []string{"q"},
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("recipient and payer addresses are required")
			}
			recipient := c.Args().Get(0)
			payer := c.Args().Get(1)

			tk, err := newToolkit(c)
			if err != nil {
				return err
			}

			var window *time.Duration
			if c.IsSet("window") {
				w := c.Duration("window")
				window = &w
			}

			total, err := tk.analyzer.TotalPaymentAmount(context.Background(), recipient, payer, window)
			if err != nil {
				return fmt.Errorf("failed to total payments: %w", err)
			}

			out := map[string]interface{}{
				"recipient":      recipient,
				"payer":          payer,
				"total_lamports": total,
				"total_sol":      float64(total) / 1e9,
			}
			if window != nil {
				out["window"] = window.String()
			}
			return printJSON(out, c.String("jq"))
		},
	}
}
