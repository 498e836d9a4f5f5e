package config

import (
	"fmt"
	"os"

	"frizo/futures_grid/internal/grid"
	"frizo/futures_grid/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Preset is a grid calculation stored as YAML.
type Preset struct {
	Name           string `yaml:"name,omitempty"`
	Symbol         string `yaml:"symbol,omitempty"`
	FormulaVersion string `yaml:"formula_version,omitempty"`

	Side       string  `yaml:"side"`
	LowerPrice float64 `yaml:"lower_price"`
	UpperPrice float64 `yaml:"upper_price"`
	GridCount  int     `yaml:"grid_count"`
	Investment float64 `yaml:"investment"`
	Leverage   float64 `yaml:"leverage"`

	// nil means "use the default"
	MaintenanceMarginRate *float64 `yaml:"maintenance_margin_rate,omitempty"`
	AutoReserveMargin     *bool    `yaml:"auto_reserve_margin,omitempty"`

	ManualReservedMargin float64 `yaml:"manual_reserved_margin,omitempty"`
	EntryPrice           float64 `yaml:"entry_price,omitempty"`
	AvailableBalance     float64 `yaml:"available_balance,omitempty"`
}

// DefaultPreset is written by `preset init`.
func DefaultPreset() *Preset {
	return &Preset{
		Name:              "btc-long-grid",
		Symbol:            "BTCUSDT",
		FormulaVersion:    grid.FormulaV2.Version,
		Side:              grid.LONG.String(),
		LowerPrice:        50000,
		UpperPrice:        60000,
		GridCount:         50,
		Investment:        1000,
		Leverage:          10,
		AutoReserveMargin: utils.Ptr(true),
	}
}

// LoadPreset reads and validates a YAML preset.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset file: %w", err)
	}

	preset := &Preset{}
	if err := yaml.Unmarshal(data, preset); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}

	if _, err := preset.Inputs(); err != nil {
		return nil, fmt.Errorf("invalid preset %s: %w", path, err)
	}
	if _, err := preset.Formula(); err != nil {
		return nil, fmt.Errorf("invalid preset %s: %w", path, err)
	}

	return preset, nil
}

// SaveToFile writes the preset as YAML.
func (p *Preset) SaveToFile(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preset: %w", err)
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("create preset dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write preset file: %w", err)
	}
	return nil
}

// Inputs converts the preset into validated grid inputs. extra options are applied
// before the preset's own fields.
func (p *Preset) Inputs(extra ...grid.Option) (grid.Inputs, error) {
	side, err := grid.ParsePositionSide(p.Side)
	if err != nil {
		return grid.Inputs{}, err
	}

	opts := append([]grid.Option{}, extra...)
	if p.MaintenanceMarginRate != nil {
		opts = append(opts, grid.WithMaintenanceMarginRate(*p.MaintenanceMarginRate))
	}
	if p.AutoReserveMargin != nil {
		opts = append(opts, grid.WithAutoReserve(*p.AutoReserveMargin))
	}
	if p.ManualReservedMargin != 0 {
		opts = append(opts, grid.WithManualReserve(p.ManualReservedMargin))
	}
	if p.EntryPrice != 0 {
		opts = append(opts, grid.WithEntryPrice(p.EntryPrice))
	}
	if p.AvailableBalance != 0 {
		opts = append(opts, grid.WithAvailableBalance(p.AvailableBalance))
	}

	return grid.NewInputs(side, p.LowerPrice, p.UpperPrice, p.GridCount, p.Investment, p.Leverage, opts...)
}

// Formula returns the preset's formula set, v2 when unset.
func (p *Preset) Formula() (grid.FormulaSet, error) {
	return grid.ParseFormulaVersion(p.FormulaVersion)
}
