package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"frizo/futures_grid/internal/config"
	"frizo/futures_grid/internal/logger"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// app carries state shared by every subcommand once the root pre-run has loaded it.
type app struct {
	configFile string
	logLevel   string

	cfg *config.Config
	log *logger.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "futures_grid",
		Short: "Margin and liquidation calculator for futures grid strategies",
		Long: `futures_grid sizes a futures grid strategy before it is placed.

Given a price range, grid count, investment and leverage it reports:
  - entry price and grid step
  - position size and maintenance margin
  - reserved and usable margin
  - estimated liquidation prices, with a warning when one falls inside the grid

The same calculation is served over HTTP by "futures_grid serve".`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", ".env.local", "path to .env configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newCalcCmd(a),
		newServeCmd(a),
		newTiersCmd(a),
		newPresetCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvFile(a.configFile)
	if err != nil {
		return err
	}

	// Override log level from command line
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	a.cfg = cfg
	a.log = logger.NewWithOptions(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Output: cmd.ErrOrStderr(),
	})
	logger.SetDefault(a.log)

	a.log.Debug("configuration loaded",
		"config_file", a.configFile,
		"environment", cfg.Environment,
		"formula_version", cfg.FormulaVersion,
	)
	return nil
}

// writeOutput renders v as json or yaml, or calls text for the human readable form.
func writeOutput(w io.Writer, format string, v interface{}, text func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case "", "text":
		return text(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (supported: text, json, yaml)", format)
	}
}
