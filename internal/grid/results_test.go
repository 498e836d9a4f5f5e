package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsRounded(t *testing.T) {
	res, err := Compute(withSide(standardLong(), NEUTRAL))
	require.NoError(t, err)

	rounded := res.Rounded(2, 2)

	assert.Equal(t, 54772.26, rounded.EntryPrice)
	assert.Equal(t, 200.0, rounded.GridStep)
	assert.Equal(t, 49514.12, *rounded.LiquidationPrices.Long)
	assert.Equal(t, 60030.39, *rounded.LiquidationPrices.Short)
	assert.Equal(t, 650.0, rounded.UsableMargin)
	assert.Equal(t, 0.35, rounded.ReserveRate)

	// original untouched
	assert.InDelta(t, 49514.119198, *res.LiquidationPrices.Long, 1e-6)
}

func TestResultsRoundedHalfAwayFromZero(t *testing.T) {
	long := 100.125
	res := Results{GridStep: 0.005, UsableMargin: 2.5, LiquidationPrices: LiquidationPrices{Long: &long}}

	rounded := res.Rounded(2, 0)
	assert.Equal(t, 0.01, rounded.GridStep)
	assert.Equal(t, 3.0, rounded.UsableMargin)
	assert.Equal(t, 100.13, *rounded.LiquidationPrices.Long)
	assert.Nil(t, rounded.LiquidationPrices.Short)
}

func TestResultsRoundedCopiesWarnings(t *testing.T) {
	res := Results{Warnings: []string{WarnLongLiquidationInRange}}
	rounded := res.Rounded(2, 2)
	rounded.Warnings[0] = "changed"

	assert.Equal(t, WarnLongLiquidationInRange, res.Warnings[0])
}

func TestResultsJSON(t *testing.T) {
	res, err := Compute(standardLong())
	require.NoError(t, err)

	data, err := json.Marshal(res.Rounded(2, 2))
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"liquidation_prices":{"long":49514.12}`)
	assert.Contains(t, body, `"position_size":10000`)
	assert.Contains(t, body, `"warnings":[]`)
}
