package main

import (
	"context"
	"fmt"

	"github.com/brojonat/soltrace/service/decode"
	"github.com/brojonat/soltrace/service/traverse"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/urfave/cli/v2"
)

func txCommands() *cli.Command {
	return &cli.Command{
		Name:  "tx",
		Usage: "Transaction decoding and classification commands",
		Subcommands: []*cli.Command{
			txInspectCommand(),
			txBatchCommand(),
		},
	}
}

func txInspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Aliases:   []string{"get", "show"},
		Usage:     "Fetch, reconcile, and classify a single transaction",
		ArgsUsage: "SIGNATURE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "As-of label carried into the classified record",
			},
			&cli.StringFlag{
				Name:    "jq",
				Usage:   "jq filter applied to the JSON output",
				Aliases: []string{"q"},
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("transaction signature is required")
			}
			signature, err := solanago.SignatureFromBase58(c.Args().Get(0))
			if err != nil {
				return fmt.Errorf("invalid signature %q: %w", c.Args().Get(0), err)
			}

			tk, err := newToolkit(c)
			if err != nil {
				return err
			}

			record, err := tk.enricher.ClassifyOne(context.Background(), signature, c.String("label"))
			if err != nil {
				return fmt.Errorf("failed to classify transaction: %w", err)
			}

			if c.Bool("json") || c.String("jq") != "" {
				return printJSON(record, c.String("jq"))
			}
			printClassified(record, tk.cfg.HighValueThreshold)
			return nil
		},
	}
}

func txBatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Classify several transactions concurrently",
		ArgsUsage: "SIGNATURE [SIGNATURE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "As-of label carried into every classified record",
			},
			&cli.StringFlag{
				Name:    "jq",
				Usage:   "jq filter applied to the JSON output",
				Aliases: []string{"q"},
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("at least one transaction signature is required")
			}
			signatures := make([]solanago.Signature, 0, c.NArg())
			for _, arg := range c.Args().Slice() {
				sig, err := solanago.SignatureFromBase58(arg)
				if err != nil {
					return fmt.Errorf("invalid signature %q: %w", arg, err)
				}
				signatures = append(signatures, sig)
			}

			tk, err := newToolkit(c)
			if err != nil {
				return err
			}

			results := tk.enricher.Enrich(context.Background(), signatures, tk.cfg.Concurrency, c.String("label"))
			return printJSON(batchRows(results, tk.cfg.HighValueThreshold), c.String("jq"))
		},
	}
}

// batchRows flattens enrichment results for JSON output. Failures stay in
// place as error strings so positions line up with the input.
func batchRows(results []traverse.Result, threshold uint64) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		entry := map[string]interface{}{
			"signature": r.Signature.String(),
		}
		if r.Err != nil {
			entry["error"] = r.Err.Error()
		} else {
			entry["record"] = r.Record
			entry["high_value"] = r.Record.IsHighValue(threshold)
		}
		out = append(out, entry)
	}
	return out
}

func printClassified(record *decode.ClassifiedTransaction, highValueThreshold uint64) {
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("Classified Transaction")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Signature:   %s\n", record.Signature)
	fmt.Printf("Slot:        %d\n", record.Slot)
	fmt.Printf("Block Time:  %s\n", formatBlockTime(record.BlockTime))
	if record.Successful() {
		fmt.Printf("Status:      success\n")
	} else {
		fmt.Printf("Status:      failed (%s)\n", string(record.Status.Reason))
	}
	fmt.Printf("Payer:       %s\n", record.Payer)
	fmt.Printf("Recipient:   %s\n", record.Recipient)
	fmt.Printf("Amount:      %.9f SOL\n", record.PaymentAmountSOL())
	fmt.Printf("Fee:         %d lamports\n", record.Fee)
	fmt.Printf("Asset Kind:  %s\n", record.AssetKind)
	if record.IsHighValue(highValueThreshold) {
		fmt.Printf("High Value:  yes\n")
	}
	if record.TokenMint != nil {
		fmt.Printf("Token Mint:  %s\n", record.TokenMint)
	}
	if record.MultiRecipient {
		fmt.Printf("Note:        multiple recipients tied; deterministic tie-break applied\n")
	}
	if record.PoolSides != nil {
		fmt.Printf("Pool Left:   %f %s\n", record.PoolSides.Left.Amount, record.PoolSides.Left.Mint)
		fmt.Printf("Pool Right:  %f %s\n", record.PoolSides.Right.Amount, record.PoolSides.Right.Mint)
		if ratio, err := record.QuoteRatio(); err == nil {
			fmt.Printf("Quote Ratio: %f\n", ratio)
		}
	}
	if record.BondCurveLegs != nil {
		fmt.Printf("Received:    %f %s\n", record.BondCurveLegs.Received.Amount, record.BondCurveLegs.Received.Mint)
		fmt.Printf("Spent:       %f %s\n", record.BondCurveLegs.Spent.Amount, record.BondCurveLegs.Spent.Mint)
	}
	if record.Label != "" {
		fmt.Printf("Label:       %s\n", record.Label)
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}
