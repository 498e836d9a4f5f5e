package grid

import "github.com/shopspring/decimal"

// Warning messages appended to Results.Warnings
const (
	WarnLongLiquidationInRange  = "Liquidation price (LONG) is within the grid range!"
	WarnShortLiquidationInRange = "Liquidation price (SHORT) is within the grid range!"
)

// LiquidationPrices holds the long and/or short liquidation price depending on the position side.
type LiquidationPrices struct {
	Long  *float64 `json:"long,omitempty" yaml:"long,omitempty"`
	Short *float64 `json:"short,omitempty" yaml:"short,omitempty"`
}

// Results of one grid calculation
type Results struct {
	EntryPrice        float64           `json:"entry_price" yaml:"entry_price"`
	GridStep          float64           `json:"grid_step" yaml:"grid_step"`
	PositionSize      float64           `json:"position_size" yaml:"position_size"`           // investment * leverage
	MaintenanceMargin float64           `json:"maintenance_margin" yaml:"maintenance_margin"` // 維持保證金
	LiquidationPrices LiquidationPrices `json:"liquidation_prices" yaml:"liquidation_prices"`
	ReservedMargin    float64           `json:"reserved_margin" yaml:"reserved_margin"`
	UsableMargin      float64           `json:"usable_margin" yaml:"usable_margin"`
	ReserveRate       float64           `json:"reserve_rate" yaml:"reserve_rate"`
	Warnings          []string          `json:"warnings" yaml:"warnings"`
}

// InvestmentAfterLeverage is the notional recorded with a saved strategy.
func (r Results) InvestmentAfterLeverage() float64 {
	return r.PositionSize
}

// Rounded returns a copy for display: prices rounded to pricePlaces, margin amounts to
// amountPlaces and the reserve rate to 4 places. Halves round away from zero.
func (r Results) Rounded(pricePlaces, amountPlaces int32) Results {
	out := r
	out.EntryPrice = round(r.EntryPrice, pricePlaces)
	out.GridStep = round(r.GridStep, pricePlaces)
	out.PositionSize = round(r.PositionSize, amountPlaces)
	out.MaintenanceMargin = round(r.MaintenanceMargin, amountPlaces)
	out.ReservedMargin = round(r.ReservedMargin, amountPlaces)
	out.UsableMargin = round(r.UsableMargin, amountPlaces)
	out.ReserveRate = round(r.ReserveRate, 4)
	out.LiquidationPrices = LiquidationPrices{
		Long:  roundPtr(r.LiquidationPrices.Long, pricePlaces),
		Short: roundPtr(r.LiquidationPrices.Short, pricePlaces),
	}
	out.Warnings = append(make([]string, 0, len(r.Warnings)), r.Warnings...)
	return out
}

func round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

func roundPtr(x *float64, places int32) *float64 {
	if x == nil {
		return nil
	}
	v := round(*x, places)
	return &v
}
