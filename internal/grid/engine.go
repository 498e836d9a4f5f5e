package grid

import "math"

// Reserve rate model: base + gridCount/600 + leverage/25 + relativeRange*0.5, clamped.
const (
	reserveRateBase        = 0.08
	reserveRateGridDivisor = 600.0
	reserveRateLevDivisor  = 25.0
	reserveRateRangeWeight = 0.5

	MinReserveRate = 0.10
	MaxReserveRate = 0.35
)

// Engine computes grid margin figures with a fixed FormulaSet. The zero value uses the
// v2 formulas; an Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	formula FormulaSet
}

// NewEngine binds an engine to a formula set.
func NewEngine(formula FormulaSet) Engine {
	return Engine{formula: formula}
}

// Formula returns the formula set in use.
func (e Engine) Formula() FormulaSet {
	if e.formula == (FormulaSet{}) {
		return FormulaV2
	}
	return e.formula
}

var defaultEngine = NewEngine(FormulaV2)

// Compute runs the calculation with FormulaV2.
func Compute(in Inputs) (Results, error) {
	return defaultEngine.Compute(in)
}

// Compute derives grid step, position size, reserve and usable margin, maintenance margin and
// liquidation prices. It fails with a *MarginError wrapping ErrReserveExceedsInvestment or
// ErrInsufficientBalance instead of returning a partial result.
func (e Engine) Compute(in Inputs) (Results, error) {
	f := e.Formula()

	// entry price
	entryPrice := in.EntryPrice
	if entryPrice == 0 {
		entryPrice = DefaultEntryPrice(f.EntryPrice, in.LowerPrice, in.UpperPrice)
	}

	// grid step, no rounding
	gridStep := (in.UpperPrice - in.LowerPrice) / float64(in.GridCount)

	// position size: the full investment is leveraged, the reserve does not reduce it
	positionSize := in.Investment * in.Leverage

	// reserve rate
	reserveRate := ReserveRate(in.GridCount, in.Leverage, in.LowerPrice, in.UpperPrice, entryPrice)

	// reserved / usable margin
	reservedMargin, usableMargin := e.margins(in, reserveRate)

	// maintenance margin
	maintenanceMargin := positionSize * in.MaintenanceMarginRate

	// validation runs before liquidation prices are derived
	manualOverflow := !in.AutoReserveMargin && in.ManualReservedMargin > in.Investment
	if usableMargin < 0 || manualOverflow {
		return Results{}, &MarginError{
			Err:               ErrReserveExceedsInvestment,
			Investment:        in.Investment,
			ReservedMargin:    reservedMargin,
			UsableMargin:      usableMargin,
			MaintenanceMargin: maintenanceMargin,
		}
	}
	if usableMargin <= maintenanceMargin {
		return Results{}, &MarginError{
			Err:               ErrInsufficientBalance,
			Investment:        in.Investment,
			ReservedMargin:    reservedMargin,
			UsableMargin:      usableMargin,
			MaintenanceMargin: maintenanceMargin,
		}
	}

	// liquidation prices
	liquidation := e.liquidationPrices(in, entryPrice, positionSize, usableMargin)

	// warnings
	warnings := []string{}
	if liquidation.Long != nil && *liquidation.Long >= in.LowerPrice {
		warnings = append(warnings, WarnLongLiquidationInRange)
	}
	if liquidation.Short != nil && *liquidation.Short <= in.UpperPrice {
		warnings = append(warnings, WarnShortLiquidationInRange)
	}

	return Results{
		EntryPrice:        entryPrice,
		GridStep:          gridStep,
		PositionSize:      positionSize,
		MaintenanceMargin: maintenanceMargin,
		LiquidationPrices: liquidation,
		ReservedMargin:    reservedMargin,
		UsableMargin:      usableMargin,
		ReserveRate:       reserveRate,
		Warnings:          warnings,
	}, nil
}

// DefaultEntryPrice derives a representative price from the grid bounds.
func DefaultEntryPrice(method EntryPriceMethod, lower, upper float64) float64 {
	if method == ArithmeticMean {
		return (lower + upper) / 2
	}
	return math.Sqrt(lower * upper)
}

// ReserveRate scales the safety reserve with grid density, leverage and the relative width of
// the range, clamped to [MinReserveRate, MaxReserveRate].
func ReserveRate(gridCount int, leverage, lower, upper, entryPrice float64) float64 {
	rate := reserveRateBase +
		float64(gridCount)/reserveRateGridDivisor +
		leverage/reserveRateLevDivisor +
		((upper-lower)/entryPrice)*reserveRateRangeWeight

	return math.Max(MinReserveRate, math.Min(MaxReserveRate, rate))
}

// margins returns (reservedMargin, usableMargin)
func (e Engine) margins(in Inputs, rate float64) (float64, float64) {
	if in.AutoReserveMargin {
		// reserve is carved out of the investment
		reserved := in.Investment * rate
		return reserved, in.Investment - reserved
	}

	switch e.Formula().ManualReserve {
	case ReserveFromInvestment:
		return in.ManualReservedMargin, in.Investment - in.ManualReservedMargin
	default:
		// reserve is drawn from the account balance, the investment stays usable
		reserved := 0.0
		if in.ManualReservedMargin > 0 {
			reserved = in.ManualReservedMargin
		} else if in.AvailableBalance > 0 {
			reserved = math.Min(in.AvailableBalance*rate, in.AvailableBalance)
		}
		return reserved, in.Investment
	}
}

// liquidationPrices
// NEUTRAL splits usable margin and position size in half and prices each leg separately.
func (e Engine) liquidationPrices(in Inputs, entryPrice, positionSize, usableMargin float64) LiquidationPrices {
	var out LiquidationPrices

	switch in.PositionSide {
	case LONG:
		long := e.longLiquidation(in, entryPrice, positionSize, usableMargin)
		out.Long = &long
	case SHORT:
		short := e.shortLiquidation(in, entryPrice, positionSize, usableMargin)
		out.Short = &short
	case NEUTRAL:
		halfPosition := positionSize / 2
		halfUsable := usableMargin / 2
		long := e.longLiquidation(in, entryPrice, halfPosition, halfUsable)
		short := e.shortLiquidation(in, entryPrice, halfPosition, halfUsable)
		out.Long = &long
		out.Short = &short
	}

	return out
}

func (e Engine) longLiquidation(in Inputs, entryPrice, positionSize, usableMargin float64) float64 {
	mmr := in.MaintenanceMarginRate
	if e.Formula().Liquidation == UsableMarginRatio {
		// P_liq_long = P_entry * (1 - usable/position) / (1 - mmr)
		return entryPrice * (1 - usableMargin/positionSize) / (1 - mmr)
	}
	// P_liq_long = P_entry * (1 - 1/leverage + mmr), a price can not go below zero
	return math.Max(0, entryPrice*(1-1/in.Leverage+mmr))
}

func (e Engine) shortLiquidation(in Inputs, entryPrice, positionSize, usableMargin float64) float64 {
	mmr := in.MaintenanceMarginRate
	if e.Formula().Liquidation == UsableMarginRatio {
		// P_liq_short = P_entry * (1 + usable/position) / (1 + mmr)
		return entryPrice * (1 + usableMargin/positionSize) / (1 + mmr)
	}
	// P_liq_short = P_entry * (1 + 1/leverage - mmr)
	return entryPrice * (1 + 1/in.Leverage - mmr)
}
