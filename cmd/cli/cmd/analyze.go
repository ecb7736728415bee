// Package cmd - analysis commands
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"breakeven/adapters/scenario"
	"breakeven/core/engine"
	"breakeven/core/types"
	"breakeven/internal/config"
	"breakeven/internal/logging"
)

var (
	analyzeCosts  costFlags
	scenarioFile  string
	expectedUnits string
	targetProfit  string

	chartCosts costFlags
	chartMin   string
	chartMax   string

	multiProducts   []string
	multiTotalFixed string

	sensCosts  costFlags
	sensDriver string
	sensMin    string
	sensMax    string
	sensStep   string
)

// analyzeCmd runs a single-product analysis or a full scenario
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Break-even, safety margin, profit and leverage for one product",
	Long: `Analyze a single cost structure.

With --scenario the whole scenario file is evaluated, including any chart,
products and sensitivity blocks it contains.

Examples:
  breakeven analyze --fixed-costs 10000 --price 50 --variable-cost 30
  breakeven analyze --fixed-costs 10000 --price 50 --variable-cost 30 --expected 800 --target-profit 5000
  breakeven analyze --scenario plan.hcl`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Cost, revenue and profit sampled over a unit range",
	Args:  cobra.NoArgs,
	RunE:  runChart,
}

var multiCmd = &cobra.Command{
	Use:   "multi",
	Short: "Weighted break-even for a sales mix",
	Long: `Compute the aggregate break-even of several products sold in a fixed mix.

Each --product is NAME:PRICE:VARIABLE_COST:MIX_SHARE[:FIXED_COSTS]. Mix shares
must sum to 1. With --total-fixed-costs the total is split by mix share.`,
	Args: cobra.NoArgs,
	RunE: runMulti,
}

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Sweep one driver and report break-even at each step",
	Args:  cobra.NoArgs,
	RunE:  runSensitivity,
}

func init() {
	analyzeCosts.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&scenarioFile, "scenario", "s", "", "scenario file (.hcl or .json)")
	analyzeCmd.Flags().StringVarP(&expectedUnits, "expected", "e", "", "expected unit sales")
	analyzeCmd.Flags().StringVarP(&targetProfit, "target-profit", "t", "", "solve for the volume earning this profit")

	chartCosts.register(chartCmd)
	chartCmd.Flags().StringVar(&chartMin, "min", "0", "lowest unit level")
	chartCmd.Flags().StringVar(&chartMax, "max", "", "highest unit level (default twice break-even)")

	multiCmd.Flags().StringArrayVarP(&multiProducts, "product", "p", nil, "product as NAME:PRICE:VARIABLE_COST:MIX_SHARE[:FIXED_COSTS]")
	multiCmd.Flags().StringVar(&multiTotalFixed, "total-fixed-costs", "", "fixed costs to spread by mix share")

	sensCosts.register(sensitivityCmd)
	sensitivityCmd.Flags().StringVarP(&sensDriver, "driver", "d", "", "fixed_costs, unit_price or unit_variable_cost")
	sensitivityCmd.Flags().StringVar(&sensMin, "min", "", "lowest percent change")
	sensitivityCmd.Flags().StringVar(&sensMax, "max", "", "highest percent change")
	sensitivityCmd.Flags().StringVar(&sensStep, "step", "", "percent increment")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var req *engine.Request
	if scenarioFile != "" {
		loaded, err := scenario.Load(scenarioFile)
		if err != nil {
			return err
		}
		req = loaded
	} else {
		costs, err := analyzeCosts.costs()
		if err != nil {
			return err
		}
		expected, err := parseOptional("expected", expectedUnits)
		if err != nil {
			return err
		}
		target, err := parseOptional("target-profit", targetProfit)
		if err != nil {
			return err
		}
		req = &engine.Request{
			Costs:         costs,
			ExpectedUnits: expected.Decimal,
			TargetProfit:  target,
		}
	}

	return run(cmd, "analyze", *req, func(r *engine.Result) interface{} { return r })
}

func runChart(cmd *cobra.Command, args []string) error {
	costs, err := chartCosts.costs()
	if err != nil {
		return err
	}
	lo, err := parseDecimal("min", chartMin)
	if err != nil {
		return err
	}
	hi, err := parseOptional("max", chartMax)
	if err != nil {
		return err
	}

	req := engine.Request{Costs: costs, Chart: &types.ChartRange{Min: lo, Max: hi}}
	return run(cmd, "chart", req, func(r *engine.Result) interface{} { return r.Chart })
}

func runMulti(cmd *cobra.Command, args []string) error {
	var products []types.Product
	for _, spec := range multiProducts {
		p, err := parseProduct(spec)
		if err != nil {
			return err
		}
		products = append(products, p)
	}
	total, err := parseOptional("total-fixed-costs", multiTotalFixed)
	if err != nil {
		return err
	}

	req := engine.Request{Products: products, TotalFixedCosts: total}
	return run(cmd, "multi", req, func(r *engine.Result) interface{} { return r.MultiProduct })
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	costs, err := sensCosts.costs()
	if err != nil {
		return err
	}

	sr := &engine.SensitivityRequest{Driver: types.Driver(sensDriver)}
	if sensMin != "" || sensMax != "" || sensStep != "" {
		ec, err := config.Get().Engine()
		if err != nil {
			return err
		}
		def := ec.DefaultSweep
		if sr.Range.MinPercent, err = orDefault("min", sensMin, def.MinPercent.String()); err != nil {
			return err
		}
		if sr.Range.MaxPercent, err = orDefault("max", sensMax, def.MaxPercent.String()); err != nil {
			return err
		}
		if sr.Range.Step, err = orDefault("step", sensStep, def.Step.String()); err != nil {
			return err
		}
	}

	req := engine.Request{Costs: costs, Sensitivity: sr}
	return run(cmd, "sensitivity", req, func(r *engine.Result) interface{} { return r.Sensitivity })
}

// run executes req, logs the outcome and prints the selected part of the result
func run(cmd *cobra.Command, name string, req engine.Request, pick func(*engine.Result) interface{}) error {
	start := time.Now()
	log := logging.Named("cli").With(zap.String("command", name))

	eng, err := newEngine()
	if err != nil {
		return err
	}

	result, err := eng.Run(req)
	if err != nil {
		log.Debug("analysis failed", zap.Error(err))
		return err
	}
	log.Debug("analysis completed", zap.Duration("duration", time.Since(start)))

	return printResult(cmd.OutOrStdout(), result, pick(result))
}
