package cmd

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"frizo/futures_grid/internal/margin"

	"github.com/spf13/cobra"
)

func newTiersCmd(a *app) *cobra.Command {
	var (
		notional float64
		output   string
	)

	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Print the maintenance margin tier table",
		Long: `Print the maintenance margin tiers used to default the maintenance margin rate.

With --notional only the tier covering that position value is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tiers := margin.Default().Tiers()
			if cmd.Flags().Changed("notional") {
				t, ok := margin.Default().Lookup(notional)
				if !ok {
					return fmt.Errorf("no margin tier covers notional %.2f", notional)
				}
				a.log.Debug("margin tier lookup", "notional", notional, "tier", t.String())
				tiers = []margin.Tier{t}
			}

			return writeOutput(cmd.OutOrStdout(), output, tiers, func(w io.Writer) error {
				return writeTierTable(w, tiers)
			})
		},
	}

	cmd.Flags().Float64VarP(&notional, "notional", "n", 0, "only show the tier for this position value")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")
	return cmd
}

func writeTierTable(w io.Writer, tiers []margin.Tier) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NOTIONAL FROM\tNOTIONAL TO\tMAINTENANCE RATE\tMAX LEVERAGE")
	for _, t := range tiers {
		to := "-"
		if !math.IsInf(t.MaxNotional, 1) {
			to = fmt.Sprintf("%.0f", t.MaxNotional)
		}
		fmt.Fprintf(tw, "%.0f\t%s\t%s%%\t%dx\n", t.MinNotional, to, t.MaintenanceRate.Shift(2).String(), t.MaxLeverage)
	}
	return tw.Flush()
}
