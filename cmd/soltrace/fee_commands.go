package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

func feeCommand() *cli.Command {
	return &cli.Command{
		Name:  "fee",
		Usage: "Estimate the base fee for a minimal transaction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "jq",
				Usage:   "jq filter applied to the JSON output",
				Aliases: []string{"q"},
			},
		},
		Action: func(c *cli.Context) error {
			tk, err := newToolkit(c)
			if err != nil {
				return err
			}

			fee, err := tk.client.EstimateFee(context.Background())
			if err != nil {
				return fmt.Errorf("failed to estimate fee: %w", err)
			}

			return printJSON(map[string]interface{}{
				"fee_lamports": fee,
				"fee_sol":      float64(fee) / 1e9,
			}, c.String("jq"))
		},
	}
}
