package margin

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"frizo/futures_grid/pkg/utils"

	"github.com/shopspring/decimal"
)

// Tier for looking up the maintenance margin rate of a notional position
type Tier struct {
	MinNotional     float64         // 最小倉位價值 (inclusive)
	MaxNotional     float64         // 最大倉位價值 (exclusive)
	MaintenanceRate decimal.Decimal // 維持保證金率
	MaxLeverage     uint            // 最大槓桿
}

func (t Tier) String() string {
	upper := "inf"
	if !math.IsInf(t.MaxNotional, 1) {
		upper = fmt.Sprintf("%.0f", t.MaxNotional)
	}
	return fmt.Sprintf("[%.0f, %s) mmr=%s max_leverage=%dx",
		t.MinNotional, upper, t.MaintenanceRate.StringFixed(4), t.MaxLeverage)
}

// TierView is how a Tier is serialised. MaxNotional is null for the open-ended bracket.
type TierView struct {
	MinNotional     float64  `json:"min_notional" yaml:"min_notional"`
	MaxNotional     *float64 `json:"max_notional" yaml:"max_notional"`
	MaintenanceRate string   `json:"maintenance_rate" yaml:"maintenance_rate"`
	MaxLeverage     uint     `json:"max_leverage" yaml:"max_leverage"`
}

func (t Tier) View() TierView {
	view := TierView{
		MinNotional:     t.MinNotional,
		MaintenanceRate: t.MaintenanceRate.String(),
		MaxLeverage:     t.MaxLeverage,
	}
	if !math.IsInf(t.MaxNotional, 1) {
		view.MaxNotional = utils.Ptr(t.MaxNotional)
	}
	return view
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.View())
}

func (t Tier) MarshalYAML() (interface{}, error) {
	return t.View(), nil
}

func tier(min, max float64, rate string, maxLeverage uint) Tier {
	return Tier{
		MinNotional:     min,
		MaxNotional:     max,
		MaintenanceRate: decimal.RequireFromString(rate),
		MaxLeverage:     maxLeverage,
	}
}

// DefaultTiers USDT-margined bracket table
var DefaultTiers = []Tier{
	tier(0, 50000, "0.004", 125),           // 0.4% for notional < 50k USDT
	tier(50000, 250000, "0.005", 100),      // 0.5% for 50k-250k
	tier(250000, 1000000, "0.01", 50),      // 1.0% for 250k-1M
	tier(1000000, 5000000, "0.025", 20),    // 2.5% for 1M-5M
	tier(5000000, 10000000, "0.05", 10),    // 5.0% for 5M-10M
	tier(10000000, 20000000, "0.1", 5),     // 10% for 10M-20M
	tier(20000000, 50000000, "0.125", 4),   // 12.5% for 20M-50M
	tier(50000000, math.Inf(1), "0.15", 3), // 15% for > 50M
}

// Table (階梯保證金表)
type Table struct {
	tiers []Tier
}

// NewTable copies and sorts the given tiers by MinNotional. A nil or empty slice falls back to DefaultTiers.
func NewTable(tiers []Tier) (*Table, error) {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinNotional < sorted[j].MinNotional
	})

	for i, t := range sorted {
		if t.MaxNotional <= t.MinNotional {
			return nil, fmt.Errorf("tier %d: max notional %.2f must be greater than min notional %.2f", i, t.MaxNotional, t.MinNotional)
		}
		if !t.MaintenanceRate.IsPositive() || t.MaintenanceRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("tier %d: maintenance rate %s must be in (0, 1)", i, t.MaintenanceRate)
		}
		if i > 0 && t.MinNotional < sorted[i-1].MaxNotional {
			return nil, fmt.Errorf("tier %d overlaps tier %d", i, i-1)
		}
	}

	return &Table{tiers: sorted}, nil
}

var defaultTable = mustTable(DefaultTiers)

func mustTable(tiers []Tier) *Table {
	table, err := NewTable(tiers)
	if err != nil {
		panic(err)
	}
	return table
}

// Default returns the table built from DefaultTiers.
func Default() *Table {
	return defaultTable
}

// Tiers returns a copy of the brackets.
func (t *Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// Lookup finds the bracket containing notional.
func (t *Table) Lookup(notional float64) (Tier, bool) {
	notional = math.Abs(notional)
	for _, tier := range t.tiers {
		if notional >= tier.MinNotional && notional < tier.MaxNotional {
			return tier, true
		}
	}
	return Tier{}, false
}

// MaintenanceRate returns the bracket rate for notional, or the rate of the last bracket when nothing matches.
func (t *Table) MaintenanceRate(notional float64) float64 {
	if tier, ok := t.Lookup(notional); ok {
		return tier.MaintenanceRate.InexactFloat64()
	}
	if len(t.tiers) == 0 {
		return 0
	}
	return t.tiers[len(t.tiers)-1].MaintenanceRate.InexactFloat64()
}

// MaxLeverage returns the leverage cap of the bracket containing notional, 0 when no bracket matches.
func (t *Table) MaxLeverage(notional float64) uint {
	if tier, ok := t.Lookup(notional); ok {
		return tier.MaxLeverage
	}
	return 0
}
