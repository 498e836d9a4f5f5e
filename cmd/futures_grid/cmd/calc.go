package cmd

import (
	"fmt"
	"io"

	"frizo/futures_grid/internal/config"
	"frizo/futures_grid/internal/grid"
	"frizo/futures_grid/internal/margin"
	"frizo/futures_grid/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type calcOptions struct {
	side          string
	lower         float64
	upper         float64
	grids         int
	investment    float64
	leverage      float64
	mmr           float64
	entry         float64
	manualReserve float64
	balance       float64
	autoReserve   bool
	formula       string
	preset        string
	output        string
}

// calcReport is what `calc` prints.
type calcReport struct {
	Symbol                  string       `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	FormulaVersion          string       `json:"formula_version" yaml:"formula_version"`
	Inputs                  grid.Inputs  `json:"inputs" yaml:"inputs"`
	Results                 grid.Results `json:"results" yaml:"results"`
	InvestmentAfterLeverage float64      `json:"investment_after_leverage" yaml:"investment_after_leverage"`
}

func newCalcCmd(a *app) *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate margin and liquidation prices for a grid",
		Long: `Calculate the margin figures of a futures grid strategy.

Inputs come from flags, or from a YAML preset (see "preset init") with flags
overriding individual preset fields.

Examples:
  futures_grid calc --side long --lower 50000 --upper 60000 --grids 50 --investment 1000 --leverage 10
  futures_grid calc --preset grid.yaml --leverage 20 --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCalc(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.side, "side", "s", "", "position side (long, short, neutral)")
	f.Float64Var(&opts.lower, "lower", 0, "lower bound of the grid range")
	f.Float64Var(&opts.upper, "upper", 0, "upper bound of the grid range")
	f.IntVarP(&opts.grids, "grids", "g", 0, "number of grid intervals (>= 2)")
	f.Float64VarP(&opts.investment, "investment", "i", 0, "investment in quote currency")
	f.Float64VarP(&opts.leverage, "leverage", "l", 0, "leverage multiplier (0, 125]")
	f.Float64Var(&opts.mmr, "mmr", 0, "maintenance margin rate (default: from the margin tier table)")
	f.Float64Var(&opts.entry, "entry", 0, "entry price (default: derived from the range)")
	f.Float64Var(&opts.manualReserve, "manual-reserve", 0, "manually reserved margin, disables auto reserve")
	f.Float64Var(&opts.balance, "balance", 0, "available account balance")
	f.BoolVar(&opts.autoReserve, "auto-reserve", true, "derive the reserve from the reserve rate model")
	f.StringVar(&opts.formula, "formula", "", "formula version (v1, v2; default from config)")
	f.StringVarP(&opts.preset, "preset", "p", "", "YAML preset file")
	f.StringVarP(&opts.output, "output", "o", "text", "output format (text, json, yaml)")

	return cmd
}

func (a *app) runCalc(cmd *cobra.Command, opts *calcOptions) error {
	preset, err := opts.resolvePreset(cmd)
	if err != nil {
		return err
	}

	inputs, err := preset.Inputs()
	if err != nil {
		return err
	}

	version := a.cfg.FormulaVersion
	if preset.FormulaVersion != "" {
		version = preset.FormulaVersion
	}
	formula, err := grid.ParseFormulaVersion(version)
	if err != nil {
		return err
	}

	notional := inputs.Investment * inputs.Leverage
	if maxLeverage := margin.Default().MaxLeverage(notional); maxLeverage > 0 && inputs.Leverage > float64(maxLeverage) {
		a.log.Warn("leverage above the margin tier limit",
			"leverage", inputs.Leverage,
			"max_leverage", maxLeverage,
			"notional", notional,
		)
	}

	results, err := grid.NewEngine(formula).Compute(inputs)
	if err != nil {
		a.log.Debug("grid calculation rejected", "formula", formula.String(), "error", err)
		return err
	}
	for _, warning := range results.Warnings {
		a.log.Warn(warning, "symbol", preset.Symbol, "side", inputs.PositionSide.String())
	}

	report := calcReport{
		Symbol:                  preset.Symbol,
		FormulaVersion:          formula.Version,
		Inputs:                  inputs,
		Results:                 results.Rounded(a.cfg.PricePrecision, a.cfg.AmountPrecision),
		InvestmentAfterLeverage: results.InvestmentAfterLeverage(),
	}

	return writeOutput(cmd.OutOrStdout(), opts.output, report, func(w io.Writer) error {
		return report.writeText(w, a.cfg.PricePrecision, a.cfg.AmountPrecision)
	})
}

// resolvePreset starts from the preset file, if any, and applies every flag set on the command line.
func (o *calcOptions) resolvePreset(cmd *cobra.Command) (*config.Preset, error) {
	preset := &config.Preset{}
	if o.preset != "" {
		p, err := config.LoadPreset(o.preset)
		if err != nil {
			return nil, err
		}
		preset = p
	}

	changed := cmd.Flags().Changed
	if changed("side") {
		preset.Side = o.side
	}
	if changed("lower") {
		preset.LowerPrice = o.lower
	}
	if changed("upper") {
		preset.UpperPrice = o.upper
	}
	if changed("grids") {
		preset.GridCount = o.grids
	}
	if changed("investment") {
		preset.Investment = o.investment
	}
	if changed("leverage") {
		preset.Leverage = o.leverage
	}
	if changed("mmr") {
		preset.MaintenanceMarginRate = utils.Ptr(o.mmr)
	}
	if changed("entry") {
		preset.EntryPrice = o.entry
	}
	if changed("auto-reserve") {
		preset.AutoReserveMargin = utils.Ptr(o.autoReserve)
	}
	if changed("manual-reserve") {
		preset.ManualReservedMargin = o.manualReserve
		// --manual-reserve alone overrides a preset's auto_reserve_margin: true,
		// together with an explicit --auto-reserve=true it is rejected
		if o.manualReserve != 0 && !changed("auto-reserve") {
			preset.AutoReserveMargin = utils.Ptr(false)
		}
	}
	if changed("balance") {
		preset.AvailableBalance = o.balance
	}
	if changed("formula") {
		preset.FormulaVersion = o.formula
	}

	return preset, nil
}

func (r calcReport) writeText(w io.Writer, pricePlaces, amountPlaces int32) error {
	price := func(v float64) string { return decimal.NewFromFloat(v).StringFixed(pricePlaces) }
	amount := func(v float64) string { return decimal.NewFromFloat(v).StringFixed(amountPlaces) }
	res := r.Results

	title := "Grid plan"
	if r.Symbol != "" {
		title += " " + r.Symbol
	}
	fmt.Fprintf(w, "%s (%s, formula %s)\n", title, r.Inputs.PositionSide, r.FormulaVersion)
	fmt.Fprintf(w, "  Entry price:         %s\n", price(res.EntryPrice))
	fmt.Fprintf(w, "  Grid step:           %s\n", price(res.GridStep))
	fmt.Fprintf(w, "  Position size:       %s\n", amount(res.PositionSize))
	fmt.Fprintf(w, "  Maintenance margin:  %s (rate %s)\n", amount(res.MaintenanceMargin),
		decimal.NewFromFloat(r.Inputs.MaintenanceMarginRate).String())
	fmt.Fprintf(w, "  Reserved margin:     %s (rate %s%%)\n", amount(res.ReservedMargin),
		decimal.NewFromFloat(res.ReserveRate).Shift(2).StringFixed(2))
	fmt.Fprintf(w, "  Usable margin:       %s\n", amount(res.UsableMargin))
	if res.LiquidationPrices.Long != nil {
		fmt.Fprintf(w, "  Liquidation (LONG):  %s\n", price(*res.LiquidationPrices.Long))
	}
	if res.LiquidationPrices.Short != nil {
		fmt.Fprintf(w, "  Liquidation (SHORT): %s\n", price(*res.LiquidationPrices.Short))
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "WARNING: %s\n", warning)
	}
	return nil
}
