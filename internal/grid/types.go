package grid

import (
	"fmt"
	"strings"
)

// PositionSide LONG, SHORT or NEUTRAL (hedged)
type PositionSide int

const (
	_       PositionSide = iota
	LONG                 // 做多
	SHORT                // 做空
	NEUTRAL              // 中性 (多空各半)
)

func (ps PositionSide) String() string {
	switch ps {
	case LONG:
		return "LONG"
	case SHORT:
		return "SHORT"
	case NEUTRAL:
		return "NEUTRAL"
	default:
		return "unknown"
	}
}

func (ps PositionSide) IsValid() bool {
	return ps == LONG || ps == SHORT || ps == NEUTRAL
}

// ParsePositionSide accepts long/short/neutral in any case.
func ParsePositionSide(s string) (PositionSide, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG":
		return LONG, nil
	case "SHORT":
		return SHORT, nil
	case "NEUTRAL":
		return NEUTRAL, nil
	default:
		return 0, fmt.Errorf("unknown position side %q", s)
	}
}

func (ps PositionSide) MarshalText() ([]byte, error) {
	if !ps.IsValid() {
		return nil, fmt.Errorf("unknown position side %d", int(ps))
	}
	return []byte(ps.String()), nil
}

func (ps *PositionSide) UnmarshalText(text []byte) error {
	side, err := ParsePositionSide(string(text))
	if err != nil {
		return err
	}
	*ps = side
	return nil
}

// ========================================================

// EntryPriceMethod derives the representative price when no entry price is given
type EntryPriceMethod int

const (
	GeometricMean  EntryPriceMethod = iota // sqrt(lower * upper)
	ArithmeticMean                         // (lower + upper) / 2
)

func (m EntryPriceMethod) String() string {
	switch m {
	case GeometricMean:
		return "geometric-mean"
	case ArithmeticMean:
		return "arithmetic-mean"
	default:
		return "unknown"
	}
}

// ========================================================

// LiquidationMethod (強平價公式)
type LiquidationMethod int

const (
	// RatioToLeverage: entry * (1 -/+ 1/leverage +/- mmr)
	RatioToLeverage LiquidationMethod = iota
	// UsableMarginRatio: entry * (1 -/+ usable/positionSize) / (1 -/+ mmr)
	UsableMarginRatio
)

func (m LiquidationMethod) String() string {
	switch m {
	case RatioToLeverage:
		return "ratio-to-leverage"
	case UsableMarginRatio:
		return "usable-margin"
	default:
		return "unknown"
	}
}

// ========================================================

// ManualReserveMode decides where a manual reserve is drawn from
type ManualReserveMode int

const (
	// ReserveFromBalance: reserve comes out of the account balance, usable margin stays the full investment.
	// Without a manual amount the reserve is suggested from the available balance.
	ReserveFromBalance ManualReserveMode = iota
	// ReserveFromInvestment: reserve is the manual amount (or 0) and is carved out of the investment.
	ReserveFromInvestment
)

func (m ManualReserveMode) String() string {
	switch m {
	case ReserveFromBalance:
		return "from-balance"
	case ReserveFromInvestment:
		return "from-investment"
	default:
		return "unknown"
	}
}
