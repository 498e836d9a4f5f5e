package margin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultTableLookup(t *testing.T) {
	table := Default()

	t.Run("SmallNotional", func(t *testing.T) {
		tier, ok := table.Lookup(10000)
		require.True(t, ok)
		assert.Equal(t, "0.004", tier.MaintenanceRate.String())
		assert.Equal(t, uint(125), tier.MaxLeverage)
		assert.Equal(t, 0.004, table.MaintenanceRate(10000))
	})

	t.Run("LowerBoundIsInclusive", func(t *testing.T) {
		assert.Equal(t, 0.005, table.MaintenanceRate(50000))
		assert.Equal(t, uint(100), table.MaxLeverage(50000))
	})

	t.Run("UpperBoundIsExclusive", func(t *testing.T) {
		assert.Equal(t, 0.004, table.MaintenanceRate(49999.99))
	})

	t.Run("LastTierIsOpenEnded", func(t *testing.T) {
		assert.Equal(t, 0.15, table.MaintenanceRate(1e12))
		assert.Equal(t, uint(3), table.MaxLeverage(1e12))
	})

	t.Run("NegativeNotionalUsesAbsoluteValue", func(t *testing.T) {
		assert.Equal(t, 0.01, table.MaintenanceRate(-300000))
	})
}

func TestNewTable(t *testing.T) {
	t.Run("EmptyFallsBackToDefault", func(t *testing.T) {
		table, err := NewTable(nil)
		require.NoError(t, err)
		assert.Len(t, table.Tiers(), len(DefaultTiers))
	})

	t.Run("SortsByMinNotional", func(t *testing.T) {
		table, err := NewTable([]Tier{
			tier(1000, math.Inf(1), "0.02", 10),
			tier(0, 1000, "0.01", 20),
		})
		require.NoError(t, err)

		tiers := table.Tiers()
		assert.Equal(t, 0.0, tiers[0].MinNotional)
		assert.Equal(t, 0.01, table.MaintenanceRate(500))
		assert.Equal(t, 0.02, table.MaintenanceRate(5000))
	})

	t.Run("RejectsOverlap", func(t *testing.T) {
		_, err := NewTable([]Tier{
			tier(0, 1000, "0.01", 20),
			tier(500, 2000, "0.02", 10),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "overlaps")
	})

	t.Run("RejectsBadRate", func(t *testing.T) {
		_, err := NewTable([]Tier{{MinNotional: 0, MaxNotional: 10, MaintenanceRate: decimal.Zero, MaxLeverage: 1}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "maintenance rate")
	})

	t.Run("RejectsInvertedBounds", func(t *testing.T) {
		_, err := NewTable([]Tier{tier(10, 5, "0.01", 1)})
		assert.Error(t, err)
	})
}

func TestTablesAreIsolatedFromCallerSlice(t *testing.T) {
	tiers := []Tier{tier(0, math.Inf(1), "0.01", 20)}
	table, err := NewTable(tiers)
	require.NoError(t, err)

	tiers[0].MaxLeverage = 1
	assert.Equal(t, uint(20), table.MaxLeverage(100))
}

func TestDefaultIsolatedFromDefaultTiers(t *testing.T) {
	saved := DefaultTiers[0]
	t.Cleanup(func() { DefaultTiers[0] = saved })

	DefaultTiers[0].MaintenanceRate = decimal.RequireFromString("0.5")
	DefaultTiers[0].MaxLeverage = 1

	assert.Equal(t, 0.004, Default().MaintenanceRate(10000))
	assert.Equal(t, uint(125), Default().MaxLeverage(10000))
}

func TestTierSerialisation(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		data, err := json.Marshal([]Tier{DefaultTiers[0], DefaultTiers[len(DefaultTiers)-1]})
		require.NoError(t, err)
		assert.JSONEq(t, `[
			{"min_notional":0,"max_notional":50000,"maintenance_rate":"0.004","max_leverage":125},
			{"min_notional":50000000,"max_notional":null,"maintenance_rate":"0.15","max_leverage":3}
		]`, string(data))
	})

	t.Run("YAML", func(t *testing.T) {
		data, err := yaml.Marshal(DefaultTiers[len(DefaultTiers)-1])
		require.NoError(t, err)

		var view map[string]interface{}
		require.NoError(t, yaml.Unmarshal(data, &view))
		assert.Nil(t, view["max_notional"])
		assert.Equal(t, "0.15", view["maintenance_rate"])
		assert.Equal(t, 3, view["max_leverage"])
	})

	t.Run("View", func(t *testing.T) {
		view := DefaultTiers[1].View()
		require.NotNil(t, view.MaxNotional)
		assert.Equal(t, 250000.0, *view.MaxNotional)
		assert.Equal(t, "0.005", view.MaintenanceRate)
	})
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "[0, 50000) mmr=0.0040 max_leverage=125x", DefaultTiers[0].String())
	assert.Equal(t, "[50000000, inf) mmr=0.1500 max_leverage=3x", DefaultTiers[len(DefaultTiers)-1].String())
}
