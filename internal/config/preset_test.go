package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"frizo/futures_grid/internal/grid"
	"frizo/futures_grid/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePreset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadPreset(t *testing.T) {
	path := writePreset(t, `
name: eth-neutral
symbol: ETHUSDT
formula_version: v1
side: neutral
lower_price: 3000
upper_price: 3600
grid_count: 40
investment: 2000
leverage: 5
maintenance_margin_rate: 0.005
auto_reserve_margin: false
manual_reserved_margin: 300
`)

	preset, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", preset.Symbol)

	in, err := preset.Inputs()
	require.NoError(t, err)
	assert.Equal(t, grid.NEUTRAL, in.PositionSide)
	assert.Equal(t, 40, in.GridCount)
	assert.Equal(t, 0.005, in.MaintenanceMarginRate)
	assert.False(t, in.AutoReserveMargin)
	assert.Equal(t, 300.0, in.ManualReservedMargin)

	formula, err := preset.Formula()
	require.NoError(t, err)
	assert.Equal(t, grid.FormulaV1, formula)
}

func TestLoadPresetDefaults(t *testing.T) {
	path := writePreset(t, `
side: long
lower_price: 50000
upper_price: 60000
grid_count: 50
investment: 1000
leverage: 10
`)

	preset, err := LoadPreset(path)
	require.NoError(t, err)

	in, err := preset.Inputs()
	require.NoError(t, err)
	assert.True(t, in.AutoReserveMargin)
	assert.Equal(t, 0.004, in.MaintenanceMarginRate)

	formula, err := preset.Formula()
	require.NoError(t, err)
	assert.Equal(t, grid.FormulaV2, formula)
}

func TestLoadPresetErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadPreset(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read preset file")
	})

	t.Run("BadYAML", func(t *testing.T) {
		_, err := LoadPreset(writePreset(t, "side: [long"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse preset")
	})

	t.Run("InvertedRange", func(t *testing.T) {
		_, err := LoadPreset(writePreset(t, "side: long\nlower_price: 2\nupper_price: 1\ngrid_count: 5\ninvestment: 1\nleverage: 1\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, grid.ErrInvalidInputs)
	})

	t.Run("UnknownFormula", func(t *testing.T) {
		_, err := LoadPreset(writePreset(t, "formula_version: v7\nside: long\nlower_price: 1\nupper_price: 2\ngrid_count: 5\ninvestment: 1\nleverage: 1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown formula version")
	})
}

func TestPresetInputsOptionalFields(t *testing.T) {
	t.Run("NegativeValuesReachValidation", func(t *testing.T) {
		tests := []struct {
			name   string
			modify func(*Preset)
			field  string
		}{
			{"ManualReserve", func(p *Preset) {
				p.AutoReserveMargin = nil
				p.ManualReservedMargin = -500
			}, "manual_reserved_margin"},
			{"EntryPrice", func(p *Preset) { p.EntryPrice = -1 }, "entry_price"},
			{"AvailableBalance", func(p *Preset) { p.AvailableBalance = -1 }, "available_balance"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				preset := DefaultPreset()
				tt.modify(preset)

				_, err := preset.Inputs()
				require.Error(t, err)
				assert.ErrorIs(t, err, grid.ErrInvalidInputs)

				var inputErr *grid.InputError
				require.True(t, errors.As(err, &inputErr))
				assert.Equal(t, tt.field, inputErr.Field)
			})
		}
	})

	t.Run("ManualReserveWithoutAutoFlag", func(t *testing.T) {
		preset := DefaultPreset()
		preset.AutoReserveMargin = nil
		preset.ManualReservedMargin = 50

		in, err := preset.Inputs()
		require.NoError(t, err)
		assert.False(t, in.AutoReserveMargin)
		assert.Equal(t, 50.0, in.ManualReservedMargin)
	})

	t.Run("ManualReserveWithAutoReserveOn", func(t *testing.T) {
		preset := DefaultPreset()
		preset.AutoReserveMargin = utils.Ptr(true)
		preset.ManualReservedMargin = 50

		_, err := preset.Inputs()
		require.Error(t, err)
		assert.ErrorIs(t, err, grid.ErrInvalidInputs)
		assert.Contains(t, err.Error(), "auto_reserve_margin")
	})
}

func TestPresetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets", "default.yaml")
	require.NoError(t, DefaultPreset().SaveToFile(path))

	preset, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreset(), preset)

	res, err := func() (grid.Results, error) {
		in, err := preset.Inputs()
		if err != nil {
			return grid.Results{}, err
		}
		return grid.Compute(in)
	}()
	require.NoError(t, err)
	assert.Equal(t, 10000.0, res.PositionSize)
}
