package api

import (
	"frizo/futures_grid/internal/config"
	"frizo/futures_grid/internal/grid"
)

// CalculateRequest is the body of POST /api/v1/grid/calculate
type CalculateRequest struct {
	Symbol         string `json:"symbol"`
	FormulaVersion string `json:"formula_version"`

	PositionSide string  `json:"position_side" binding:"required"`
	LowerPrice   float64 `json:"lower_price"`
	UpperPrice   float64 `json:"upper_price"`
	GridCount    int     `json:"grid_count"`
	Investment   float64 `json:"investment"`
	Leverage     float64 `json:"leverage"`

	MaintenanceMarginRate *float64 `json:"maintenance_margin_rate"`
	AutoReserveMargin     *bool    `json:"auto_reserve_margin"`
	ManualReservedMargin  float64  `json:"manual_reserved_margin"`
	EntryPrice            float64  `json:"entry_price"`
	AvailableBalance      float64  `json:"available_balance"`
}

func (r *CalculateRequest) preset() *config.Preset {
	return &config.Preset{
		Symbol:                r.Symbol,
		FormulaVersion:        r.FormulaVersion,
		Side:                  r.PositionSide,
		LowerPrice:            r.LowerPrice,
		UpperPrice:            r.UpperPrice,
		GridCount:             r.GridCount,
		Investment:            r.Investment,
		Leverage:              r.Leverage,
		MaintenanceMarginRate: r.MaintenanceMarginRate,
		AutoReserveMargin:     r.AutoReserveMargin,
		ManualReservedMargin:  r.ManualReservedMargin,
		EntryPrice:            r.EntryPrice,
		AvailableBalance:      r.AvailableBalance,
	}
}

// CalculateResponse carries the rounded results and the inputs after defaults were applied.
type CalculateResponse struct {
	ID                      string       `json:"id"`
	Symbol                  string       `json:"symbol,omitempty"`
	FormulaVersion          string       `json:"formula_version"`
	Inputs                  grid.Inputs  `json:"inputs"`
	Results                 grid.Results `json:"results"`
	InvestmentAfterLeverage float64      `json:"investment_after_leverage"`
}

// ErrorBody is the error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail code/message pair, plus margin figures for margin errors
type ErrorDetail struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Field   string             `json:"field,omitempty"`
	Margin  *MarginErrorDetail `json:"margin,omitempty"`
}

// MarginErrorDetail mirrors grid.MarginError
type MarginErrorDetail struct {
	Investment        float64 `json:"investment"`
	ReservedMargin    float64 `json:"reserved_margin"`
	UsableMargin      float64 `json:"usable_margin"`
	MaintenanceMargin float64 `json:"maintenance_margin"`
}

// Error codes
const (
	CodeInvalidRequest           = "INVALID_REQUEST"
	CodeInvalidInput             = "INVALID_INPUT"
	CodeInsufficientBalance      = "INSUFFICIENT_BALANCE"
	CodeReserveExceedsInvestment = "RESERVE_EXCEEDS_INVESTMENT"
	CodeInternal                 = "INTERNAL_ERROR"
	CodeNotFound                 = "NOT_FOUND"
)
