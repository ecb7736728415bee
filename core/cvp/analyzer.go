// Package cvp is the cost-volume-profit engine: single-product break-even
// analysis, weighted multi-product break-even and sensitivity sweeps.
//
// Every function is a pure transformation of its inputs. Nothing here logs,
// performs I/O or holds state between calls, so analyzers may be used
// concurrently.
package cvp

import (
	"github.com/shopspring/decimal"

	"breakeven/core/types"
	"breakeven/internal/errors"
)

// ChartPoints is the number of samples in a chart series
const ChartPoints = 100

var two = decimal.NewFromInt(2)

// Analyzer answers break-even questions about one cost structure.
// The contribution margin is validated and cached at construction.
type Analyzer struct {
	costs  types.CostStructure
	margin decimal.Decimal
}

// NewAnalyzer validates costs and returns an analyzer for them.
// It fails with an INVALID_MODEL error when the contribution margin is not
// strictly positive, the unit price is not positive, or fixed costs are
// negative.
func NewAnalyzer(costs types.CostStructure) (*Analyzer, error) {
	if costs.FixedCosts.IsNegative() {
		return nil, errors.InvalidModel("fixed costs cannot be negative").
			WithContext("fixed_costs", costs.FixedCosts.String())
	}
	if !costs.UnitPrice.IsPositive() {
		return nil, errors.InvalidModel("unit price must be positive").
			WithContext("unit_price", costs.UnitPrice.String())
	}

	margin := costs.ContributionMargin()
	if !margin.IsPositive() {
		return nil, errors.Newf(errors.TypeInvalidModel,
			"contribution margin must be positive: unit price %s does not exceed unit variable cost %s",
			costs.UnitPrice, costs.UnitVariableCost).
			WithContext("contribution_margin", margin.String())
	}

	return &Analyzer{costs: costs, margin: margin}, nil
}

// Costs returns the analyzed cost structure
func (a *Analyzer) Costs() types.CostStructure {
	return a.costs
}

// ContributionMargin returns the per-unit contribution margin
func (a *Analyzer) ContributionMargin() decimal.Decimal {
	return a.margin
}

// BreakEvenUnits returns fixed costs / contribution margin
func (a *Analyzer) BreakEvenUnits() decimal.Decimal {
	return a.costs.FixedCosts.Div(a.margin)
}

// BreakEvenValue returns break-even units * unit price
func (a *Analyzer) BreakEvenValue() decimal.Decimal {
	return a.BreakEvenUnits().Mul(a.costs.UnitPrice)
}

// BreakEven returns the break-even point in units and currency
func (a *Analyzer) BreakEven() types.BreakEven {
	units := a.BreakEvenUnits()
	return types.BreakEven{
		Units: units,
		Value: units.Mul(a.costs.UnitPrice),
	}
}

// ContributionMarginRatio returns contribution margin / unit price, in (0,1)
func (a *Analyzer) ContributionMarginRatio() decimal.Decimal {
	return a.margin.Div(a.costs.UnitPrice)
}

// SafetyMargin returns how far expectedUnits exceeds break-even.
// Expected sales below break-even yield a BELOW_BREAK_EVEN error.
func (a *Analyzer) SafetyMargin(expectedUnits decimal.Decimal) (types.SafetyMargin, error) {
	breakEven := a.BreakEvenUnits()
	if expectedUnits.LessThan(breakEven) {
		return types.SafetyMargin{}, errors.Newf(errors.TypeBelowBreakEven,
			"expected sales of %s units are below the break-even point of %s units",
			expectedUnits, breakEven).
			WithContext("expected_units", expectedUnits.String()).
			WithContext("break_even_units", breakEven.String())
	}

	units := expectedUnits.Sub(breakEven)
	percent := decimal.Zero
	if !expectedUnits.IsZero() {
		percent = units.Div(expectedUnits).Mul(types.Hundred)
	}

	return types.SafetyMargin{
		Units:   units,
		Value:   units.Mul(a.costs.UnitPrice),
		Percent: percent,
	}, nil
}

// EstimatedProfit returns revenue minus variable and fixed costs at
// unitsSold. A negative result is a loss.
func (a *Analyzer) EstimatedProfit(unitsSold decimal.Decimal) decimal.Decimal {
	revenue := unitsSold.Mul(a.costs.UnitPrice)
	variable := unitsSold.Mul(a.costs.UnitVariableCost)
	return revenue.Sub(variable).Sub(a.costs.FixedCosts)
}

// OperatingLeverageDegree returns total contribution / operating profit at
// unitsSold. It is undefined at the break-even volume, where profit is zero.
func (a *Analyzer) OperatingLeverageDegree(unitsSold decimal.Decimal) (decimal.Decimal, error) {
	breakEven := a.BreakEvenUnits()
	contribution := unitsSold.Mul(a.margin)
	profit := contribution.Sub(a.costs.FixedCosts)

	// Exact match on the computed break-even, or an exactly zero profit.
	if unitsSold.Equal(breakEven) || profit.IsZero() {
		return decimal.Zero, errors.Newf(errors.TypeUndefinedAtBreakEven,
			"operating leverage is undefined at the break-even volume of %s units", breakEven).
			WithContext("units_sold", unitsSold.String())
	}

	return contribution.Div(profit), nil
}

// UnitsForTargetProfit returns the volume that earns targetProfit.
// A negative target solves for the volume that limits a loss to that amount.
func (a *Analyzer) UnitsForTargetProfit(targetProfit decimal.Decimal) decimal.Decimal {
	return a.costs.FixedCosts.Add(targetProfit).Div(a.margin)
}

// GenerateChartSeries samples ChartPoints evenly spaced unit levels from
// r.Min to r.Max inclusive. A null r.Max defaults to twice break-even.
func (a *Analyzer) GenerateChartSeries(r types.ChartRange) types.ChartSeries {
	lo := r.Min
	hi := a.BreakEvenUnits().Mul(two)
	if r.Max.Valid {
		hi = r.Max.Decimal
	}

	step := hi.Sub(lo).Div(decimal.NewFromInt(ChartPoints - 1))
	points := make([]types.ChartPoint, ChartPoints)
	for i := range points {
		units := lo.Add(step.Mul(decimal.NewFromInt(int64(i))))
		if i == ChartPoints-1 {
			units = hi
		}
		points[i] = a.chartPoint(units)
	}

	return types.ChartSeries{Points: points}
}

func (a *Analyzer) chartPoint(units decimal.Decimal) types.ChartPoint {
	variable := units.Mul(a.costs.UnitVariableCost)
	total := a.costs.FixedCosts.Add(variable)
	revenue := units.Mul(a.costs.UnitPrice)
	return types.ChartPoint{
		Units:        units,
		FixedCost:    a.costs.FixedCosts,
		VariableCost: variable,
		TotalCost:    total,
		Revenue:      revenue,
		Profit:       revenue.Sub(total),
	}
}

// Analyze builds a full snapshot. When expectedUnits is positive it also
// carries estimated profit, plus safety margin and operating leverage where
// those are defined; undefined figures are left nil rather than failing.
func (a *Analyzer) Analyze(expectedUnits decimal.Decimal) types.Analysis {
	result := types.Analysis{
		Inputs:                  a.costs,
		ContributionMargin:      a.margin,
		ContributionMarginRatio: a.ContributionMarginRatio(),
		BreakEven:               a.BreakEven(),
		ExpectedUnits:           expectedUnits,
	}
	if !expectedUnits.IsPositive() {
		return result
	}

	profit := a.EstimatedProfit(expectedUnits)
	result.EstimatedProfit = &profit

	if margin, err := a.SafetyMargin(expectedUnits); err == nil {
		result.SafetyMargin = &margin
	}
	if degree, err := a.OperatingLeverageDegree(expectedUnits); err == nil {
		result.OperatingLeverage = &degree
	}

	return result
}
