package cmd

import (
	"fmt"

	"frizo/futures_grid/internal/config"
	"frizo/futures_grid/pkg/utils"

	"github.com/spf13/cobra"
)

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Generate or validate grid presets",
		Long: `Manage YAML grid presets used by "calc --preset".

Subcommands:
  init     - Write a default preset
  validate - Check a preset file

Examples:
  futures_grid preset init --output grid.yaml
  futures_grid preset validate --file grid.yaml`,
	}

	cmd.AddCommand(newPresetInitCmd(), newPresetValidateCmd())
	return cmd
}

func newPresetInitCmd() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default preset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if utils.FileExists(output) && !force {
				return fmt.Errorf("preset %s already exists (use --force to overwrite)", output)
			}
			if err := config.DefaultPreset().SaveToFile(output); err != nil {
				return fmt.Errorf("save preset: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default preset: %s\n", output)
			fmt.Fprintln(out, "\nEdit the file and run with:")
			fmt.Fprintf(out, "  futures_grid calc --preset %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "grid.yaml", "output preset file path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing preset")
	return cmd
}

func newPresetValidateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a preset file",
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := config.LoadPreset(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			formula, _ := preset.Formula()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Preset valid: %s\n", path)
			fmt.Fprintf(out, "  Grid: %s %.2f - %.2f, %d grids\n", preset.Side, preset.LowerPrice, preset.UpperPrice, preset.GridCount)
			fmt.Fprintf(out, "  Investment: %.2f at %gx\n", preset.Investment, preset.Leverage)
			fmt.Fprintf(out, "  Formula: %s\n", formula)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "path to preset file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
