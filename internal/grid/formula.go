package grid

import (
	"fmt"
	"strings"
)

// FormulaSet selects one variant for each formula that diverges between calculator versions.
type FormulaSet struct {
	Version       string
	EntryPrice    EntryPriceMethod
	Liquidation   LiquidationMethod
	ManualReserve ManualReserveMode
}

// FormulaV2 is the authoritative formula set and the default of Compute.
var FormulaV2 = FormulaSet{
	Version:       "v2",
	EntryPrice:    GeometricMean,
	Liquidation:   RatioToLeverage,
	ManualReserve: ReserveFromBalance,
}

// FormulaV1 is the legacy calculator, kept for strategies created before v2.
//
// Deprecated: use FormulaV2 unless reproducing figures recorded by the legacy calculator.
var FormulaV1 = FormulaSet{
	Version:       "v1",
	EntryPrice:    ArithmeticMean,
	Liquidation:   UsableMarginRatio,
	ManualReserve: ReserveFromInvestment,
}

// ParseFormulaVersion maps "v1"/"legacy" and "v2"/"" to the matching preset.
func ParseFormulaVersion(version string) (FormulaSet, error) {
	switch strings.ToLower(strings.TrimSpace(version)) {
	case "", "v2", "2", "latest":
		return FormulaV2, nil
	case "v1", "1", "legacy":
		return FormulaV1, nil
	default:
		return FormulaSet{}, fmt.Errorf("unknown formula version %q", version)
	}
}

func (f FormulaSet) String() string {
	name := f.Version
	if name == "" {
		name = "custom"
	}
	return fmt.Sprintf("%s(entry=%s, liquidation=%s, manual-reserve=%s)",
		name, f.EntryPrice, f.Liquidation, f.ManualReserve)
}
