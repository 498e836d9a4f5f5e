package grid

import (
	"math"

	"frizo/futures_grid/internal/margin"
)

// MaxLeverage accepted by Validate
const MaxLeverage = 125

// MinGridCount accepted by Validate
const MinGridCount = 2

// Inputs of one grid calculation. Optional figures use zero for "not supplied".
type Inputs struct {
	PositionSide PositionSide `json:"position_side" yaml:"position_side"`
	LowerPrice   float64      `json:"lower_price" yaml:"lower_price"`
	UpperPrice   float64      `json:"upper_price" yaml:"upper_price"`
	GridCount    int          `json:"grid_count" yaml:"grid_count"`
	Investment   float64      `json:"investment" yaml:"investment"` // 投入保證金 (before reserve carve-out)
	Leverage     float64      `json:"leverage" yaml:"leverage"`

	MaintenanceMarginRate float64 `json:"maintenance_margin_rate" yaml:"maintenance_margin_rate"` // 維持保證金率

	AutoReserveMargin    bool    `json:"auto_reserve_margin" yaml:"auto_reserve_margin"`
	ManualReservedMargin float64 `json:"manual_reserved_margin,omitempty" yaml:"manual_reserved_margin,omitempty"`

	EntryPrice       float64 `json:"entry_price,omitempty" yaml:"entry_price,omitempty"`
	AvailableBalance float64 `json:"available_balance,omitempty" yaml:"available_balance,omitempty"` // only used for manual reserve suggestion
}

type inputsBuilder struct {
	inputs  Inputs
	table   *margin.Table
	mmrSet  bool
	autoSet bool
}

// Option customises NewInputs.
type Option func(*inputsBuilder)

// WithEntryPrice overrides the entry price derived from the range.
func WithEntryPrice(price float64) Option {
	return func(b *inputsBuilder) {
		b.inputs.EntryPrice = price
	}
}

// WithMaintenanceMarginRate skips the tier table lookup.
func WithMaintenanceMarginRate(rate float64) Option {
	return func(b *inputsBuilder) {
		b.inputs.MaintenanceMarginRate = rate
		b.mmrSet = true
	}
}

// WithMarginTable sets the tier table used for the default maintenance margin rate.
func WithMarginTable(table *margin.Table) Option {
	return func(b *inputsBuilder) {
		b.table = table
	}
}

// WithAutoReserve toggles automatic reserve carve-out.
func WithAutoReserve(auto bool) Option {
	return func(b *inputsBuilder) {
		b.inputs.AutoReserveMargin = auto
		b.autoSet = true
	}
}

// WithManualReserve sets a fixed reserve amount. A non-zero amount switches to manual
// reserve unless WithAutoReserve(true) is also given, which Validate rejects.
func WithManualReserve(amount float64) Option {
	return func(b *inputsBuilder) {
		b.inputs.ManualReservedMargin = amount
	}
}

// WithAvailableBalance supplies the account's free balance.
func WithAvailableBalance(balance float64) Option {
	return func(b *inputsBuilder) {
		b.inputs.AvailableBalance = balance
	}
}

// NewInputs builds validated Inputs. Auto reserve is on by default and the maintenance
// margin rate comes from the tier bracket of investment*leverage unless set explicitly.
func NewInputs(side PositionSide, lower, upper float64, gridCount int, investment, leverage float64, opts ...Option) (Inputs, error) {
	b := &inputsBuilder{
		inputs: Inputs{
			PositionSide:      side,
			LowerPrice:        lower,
			UpperPrice:        upper,
			GridCount:         gridCount,
			Investment:        investment,
			Leverage:          leverage,
			AutoReserveMargin: true,
		},
		table: margin.Default(),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.inputs.ManualReservedMargin != 0 && !b.autoSet {
		b.inputs.AutoReserveMargin = false
	}

	if !b.mmrSet {
		b.inputs.MaintenanceMarginRate = b.table.MaintenanceRate(investment * leverage)
	}

	if err := b.inputs.Validate(); err != nil {
		return Inputs{}, err
	}

	return b.inputs, nil
}

// Validate performs the form-level checks. Compute does not call it.
func (in Inputs) Validate() error {
	if !in.PositionSide.IsValid() {
		return invalid("position_side", "must be LONG, SHORT or NEUTRAL")
	}
	if !positive(in.LowerPrice) {
		return invalid("lower_price", "must be a positive number")
	}
	if !positive(in.UpperPrice) {
		return invalid("upper_price", "must be a positive number")
	}
	if in.LowerPrice >= in.UpperPrice {
		return invalid("lower_price", "lower price must be less than upper price")
	}
	if in.GridCount < MinGridCount {
		return invalid("grid_count", "must be at least 2")
	}
	if !positive(in.Investment) {
		return invalid("investment", "must be a positive number")
	}
	if !positive(in.Leverage) || in.Leverage > MaxLeverage {
		return invalid("leverage", "must be in (0, 125]")
	}
	if !positive(in.MaintenanceMarginRate) || in.MaintenanceMarginRate >= 1 {
		return invalid("maintenance_margin_rate", "must be in (0, 1)")
	}
	if !nonNegative(in.ManualReservedMargin) {
		return invalid("manual_reserved_margin", "must not be negative")
	}
	if in.AutoReserveMargin && in.ManualReservedMargin != 0 {
		return invalid("manual_reserved_margin", "must not be set while auto_reserve_margin is on")
	}
	if !nonNegative(in.EntryPrice) {
		return invalid("entry_price", "must not be negative")
	}
	if !nonNegative(in.AvailableBalance) {
		return invalid("available_balance", "must not be negative")
	}
	return nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func nonNegative(x float64) bool {
	return x >= 0 && !math.IsInf(x, 1)
}
