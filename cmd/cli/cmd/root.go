// Package cmd provides the CLI commands for breakeven.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"breakeven/core/engine"
	"breakeven/core/ui"
	"breakeven/internal/config"
	"breakeven/internal/errors"
	"breakeven/internal/logging"
)

// Version is the CLI version
const Version = "0.1.0"

var (
	cfgFile      string
	verbose      bool
	outputFormat string
	noColor      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "breakeven",
	Short: "Cost-volume-profit break-even analysis",
	Long: `breakeven computes break-even points, safety margins, operating leverage,
target-profit volumes, multi-product weighted break-even and sensitivity sweeps.

Examples:
  breakeven analyze --fixed-costs 10000 --price 50 --variable-cost 30 --expected 800
  breakeven multi --product A:100:60:0.6 --product B:50:30:0.4 --total-fixed-costs 10000
  breakeven sensitivity --fixed-costs 10000 --price 50 --variable-cost 30 --driver unit_price
  breakeven analyze --scenario plan.hcl
  breakeven serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.json, .yaml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "output format: json or table (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors in table output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(multiCmd)
	rootCmd.AddCommand(sensitivityCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if noColor {
		cfg.Output.NoColor = true
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "breakeven version %s\n", Version)
	},
}

// newEngine builds an engine from the global configuration
func newEngine() (*engine.Engine, error) {
	ec, err := config.Get().Engine()
	if err != nil {
		return nil, err
	}
	return engine.New(ec), nil
}

// printResult writes the whole result as tables, or the picked part as JSON
func printResult(w io.Writer, result *engine.Result, picked interface{}) error {
	cfg := config.Get()
	switch cfg.Output.Format {
	case "", "json":
		return printJSON(w, picked)
	case "table":
		ui.NewReport(ui.NewWriter(w, cfg.Output.NoColor), cfg.Analysis.Currency).Render(result)
		return nil
	default:
		return errors.Newf(errors.TypeInput, "unknown output format %q", cfg.Output.Format)
	}
}

// printJSON writes v as JSON, indented per configuration
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if config.Get().Output.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
