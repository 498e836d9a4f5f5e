package api

import (
	"errors"
	"net/http"

	"frizo/futures_grid/internal/common"
	"frizo/futures_grid/internal/grid"
	"frizo/futures_grid/internal/logger"
	"frizo/futures_grid/internal/margin"
	"frizo/futures_grid/internal/version"

	"github.com/gin-gonic/gin"
)

// GridHandler handles grid calculation requests
type GridHandler struct {
	formula         grid.FormulaSet
	table           *margin.Table
	pricePrecision  int32
	amountPrecision int32
	log             *logger.Logger
}

// NewGridHandler creates a new grid handler
func NewGridHandler(formula grid.FormulaSet, table *margin.Table, pricePrecision, amountPrecision int32, log *logger.Logger) *GridHandler {
	return &GridHandler{
		formula:         formula,
		table:           table,
		pricePrecision:  pricePrecision,
		amountPrecision: amountPrecision,
		log:             log,
	}
}

// Calculate handles POST /api/v1/grid/calculate
func (h *GridHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrorDetail{Code: CodeInvalidRequest, Message: err.Error()})
		return
	}

	formula := h.formula
	if req.FormulaVersion != "" {
		f, err := grid.ParseFormulaVersion(req.FormulaVersion)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrorDetail{Code: CodeInvalidInput, Message: err.Error(), Field: "formula_version"})
			return
		}
		formula = f
	}

	inputs, err := req.preset().Inputs(grid.WithMarginTable(h.table))
	if err != nil {
		detail := ErrorDetail{Code: CodeInvalidInput, Message: err.Error()}
		var inputErr *grid.InputError
		if errors.As(err, &inputErr) {
			detail.Field = inputErr.Field
		} else {
			detail.Field = "position_side"
		}
		respondError(c, http.StatusBadRequest, detail)
		return
	}

	log := h.log.WithFields(map[string]interface{}{
		"request_id": requestID(c),
		"formula":    formula.Version,
	})

	results, err := grid.NewEngine(formula).Compute(inputs)
	if err != nil {
		log.Info("grid calculation rejected",
			"side", inputs.PositionSide.String(),
			"error", err,
		)
		respondMarginError(c, err)
		return
	}

	if len(results.Warnings) > 0 {
		log.Warn("liquidation price inside grid range",
			"symbol", req.Symbol,
			"warnings", results.Warnings,
		)
	}

	c.JSON(http.StatusOK, CalculateResponse{
		ID:                      common.GeneratePlanID(),
		Symbol:                  req.Symbol,
		FormulaVersion:          formula.Version,
		Inputs:                  inputs,
		Results:                 results.Rounded(h.pricePrecision, h.amountPrecision),
		InvestmentAfterLeverage: results.InvestmentAfterLeverage(),
	})
}

// MarginHandler exposes the maintenance margin tier table
type MarginHandler struct {
	table *margin.Table
}

// NewMarginHandler creates a new margin handler
func NewMarginHandler(table *margin.Table) *MarginHandler {
	return &MarginHandler{table: table}
}

// ListTiers handles GET /api/v1/margin/tiers
func (h *MarginHandler) ListTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": h.table.Tiers()})
}

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Version handles GET /version
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}

func respondMarginError(c *gin.Context, err error) {
	detail := ErrorDetail{Code: CodeInternal, Message: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, grid.ErrReserveExceedsInvestment):
		detail.Code = CodeReserveExceedsInvestment
		status = http.StatusUnprocessableEntity
	case errors.Is(err, grid.ErrInsufficientBalance):
		detail.Code = CodeInsufficientBalance
		status = http.StatusUnprocessableEntity
	}

	var marginErr *grid.MarginError
	if errors.As(err, &marginErr) {
		detail.Margin = &MarginErrorDetail{
			Investment:        marginErr.Investment,
			ReservedMargin:    marginErr.ReservedMargin,
			UsableMargin:      marginErr.UsableMargin,
			MaintenanceMargin: marginErr.MaintenanceMargin,
		}
	}

	respondError(c, status, detail)
}

func respondError(c *gin.Context, status int, detail ErrorDetail) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: detail})
}
