// Package engine is the request-level entry point to the CVP calculations.
// CLI and HTTP are thin wrappers around this engine: they build a Request,
// call Run, and render the Result.
package engine

import (
	"github.com/shopspring/decimal"

	"breakeven/core/cvp"
	"breakeven/core/types"
	"breakeven/internal/errors"
)

// Engine runs analysis requests. It holds only defaults and is safe for
// concurrent use.
type Engine struct {
	config Config
}

// Config configures the engine
type Config struct {
	// DefaultDriver is swept when a sensitivity request names none
	DefaultDriver types.Driver

	// DefaultSweep is used when a sensitivity request has an empty range
	DefaultSweep types.SweepRange
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		DefaultDriver: types.DriverFixedCosts,
		DefaultSweep:  cvp.DefaultSweepRange(),
	}
}

// Request is an immutable description of everything to compute for one
// analysis. Sections left nil are skipped.
type Request struct {
	// Costs enables the single-product analysis
	Costs *types.CostStructure `json:"costs,omitempty"`

	// ExpectedUnits adds safety margin, profit and leverage when positive
	ExpectedUnits decimal.Decimal `json:"expected_units"`

	// TargetProfit asks for the volume that earns this profit
	TargetProfit decimal.NullDecimal `json:"target_profit"`

	// Chart asks for a chart series over the given range
	Chart *types.ChartRange `json:"chart,omitempty"`

	// Products enables the multi-product calculation
	Products []types.Product `json:"products,omitempty"`

	// TotalFixedCosts, when set, is spread over Products by mix share and
	// replaces any per-product allocation
	TotalFixedCosts decimal.NullDecimal `json:"total_fixed_costs"`

	// Sensitivity asks for a sweep of one driver of Costs
	Sensitivity *SensitivityRequest `json:"sensitivity,omitempty"`
}

// SensitivityRequest selects the driver and range of a sweep
type SensitivityRequest struct {
	Driver types.Driver     `json:"driver"`
	Range  types.SweepRange `json:"range"`
}

// Result carries one entry per requested section
type Result struct {
	Analysis     *types.Analysis           `json:"analysis,omitempty"`
	TargetUnits  *decimal.Decimal          `json:"target_units,omitempty"`
	Chart        *types.ChartSeries        `json:"chart,omitempty"`
	MultiProduct *types.MultiProductResult `json:"multi_product,omitempty"`
	Sensitivity  *types.SensitivityResult  `json:"sensitivity,omitempty"`
}

// New creates an engine
func New(config Config) *Engine {
	if !config.DefaultDriver.IsValid() {
		config.DefaultDriver = types.DriverFixedCosts
	}
	if config.DefaultSweep.Step.IsZero() {
		config.DefaultSweep = cvp.DefaultSweepRange()
	}
	return &Engine{config: config}
}

// Run evaluates every section of req. The first failing section fails the
// whole request.
func (e *Engine) Run(req Request) (*Result, error) {
	if req.Costs == nil && len(req.Products) == 0 {
		return nil, errors.Input("request has neither a cost structure nor products")
	}
	if req.Costs == nil && (req.Chart != nil || req.Sensitivity != nil || req.TargetProfit.Valid) {
		return nil, errors.Input("chart, target profit and sensitivity require a cost structure")
	}

	result := &Result{}

	if req.Costs != nil {
		analyzer, err := cvp.NewAnalyzer(*req.Costs)
		if err != nil {
			return nil, err
		}

		analysis := analyzer.Analyze(req.ExpectedUnits)
		result.Analysis = &analysis

		if req.TargetProfit.Valid {
			units := analyzer.UnitsForTargetProfit(req.TargetProfit.Decimal)
			result.TargetUnits = &units
		}

		if req.Chart != nil {
			series := analyzer.GenerateChartSeries(*req.Chart)
			result.Chart = &series
		}

		if req.Sensitivity != nil {
			sensitivity, err := e.Sensitivity(*req.Costs, *req.Sensitivity)
			if err != nil {
				return nil, err
			}
			result.Sensitivity = sensitivity
		}
	}

	if len(req.Products) > 0 {
		multi, err := e.MultiProduct(req.Products, req.TotalFixedCosts)
		if err != nil {
			return nil, err
		}
		result.MultiProduct = multi
	}

	return result, nil
}

// MultiProduct runs the weighted break-even calculation, first spreading
// totalFixedCosts over the products when it is set.
func (e *Engine) MultiProduct(products []types.Product, totalFixedCosts decimal.NullDecimal) (*types.MultiProductResult, error) {
	if totalFixedCosts.Valid {
		allocated, err := cvp.AllocateFixedCosts(products, totalFixedCosts.Decimal)
		if err != nil {
			return nil, err
		}
		products = allocated
	}
	return cvp.BreakEvenMultiProduct(products)
}

// Sensitivity sweeps costs, filling in the configured driver and range
// where req leaves them empty.
func (e *Engine) Sensitivity(costs types.CostStructure, req SensitivityRequest) (*types.SensitivityResult, error) {
	driver := req.Driver
	if driver == "" {
		driver = e.config.DefaultDriver
	}
	r := req.Range
	if r.MinPercent.IsZero() && r.MaxPercent.IsZero() && r.Step.IsZero() {
		r = e.config.DefaultSweep
	}
	return cvp.Sensitivity(costs, driver, r)
}
