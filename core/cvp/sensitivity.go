// Package cvp - Sensitivity sweeps
package cvp

import (
	"github.com/shopspring/decimal"

	"breakeven/core/types"
	"breakeven/internal/errors"
)

// MaxSweepPoints caps the number of percentages a single sweep evaluates
const MaxSweepPoints = 1000

var elasticityProbe = decimal.NewFromInt(10)

// DefaultSweepRange is -30% to +30% in 10% steps
func DefaultSweepRange() types.SweepRange {
	return types.SweepRange{
		MinPercent: decimal.NewFromInt(-30),
		MaxPercent: decimal.NewFromInt(30),
		Step:       decimal.NewFromInt(10),
	}
}

// Perturbation rescales one driver of base by factor and returns the new
// structure together with the driver's adjusted value.
type Perturbation func(base types.CostStructure, factor decimal.Decimal) (types.CostStructure, decimal.Decimal)

// PerturbationFor returns the perturbation for driver
func PerturbationFor(driver types.Driver) (Perturbation, error) {
	switch driver {
	case types.DriverFixedCosts:
		return func(c types.CostStructure, f decimal.Decimal) (types.CostStructure, decimal.Decimal) {
			c.FixedCosts = c.FixedCosts.Mul(f)
			return c, c.FixedCosts
		}, nil
	case types.DriverUnitPrice:
		return func(c types.CostStructure, f decimal.Decimal) (types.CostStructure, decimal.Decimal) {
			c.UnitPrice = c.UnitPrice.Mul(f)
			return c, c.UnitPrice
		}, nil
	case types.DriverUnitVariableCost:
		return func(c types.CostStructure, f decimal.Decimal) (types.CostStructure, decimal.Decimal) {
			c.UnitVariableCost = c.UnitVariableCost.Mul(f)
			return c, c.UnitVariableCost
		}, nil
	default:
		return nil, errors.Newf(errors.TypeInput, "unknown sensitivity driver %q", driver).
			WithContext("driver", string(driver))
	}
}

// Percents expands r into the percentages it covers, MinPercent first.
// MaxPercent is included when the step lands on it exactly.
func Percents(r types.SweepRange) ([]decimal.Decimal, error) {
	if !r.MinPercent.LessThan(r.MaxPercent) {
		return nil, errors.Newf(errors.TypeInput,
			"minimum percent %s must be less than maximum percent %s", r.MinPercent, r.MaxPercent)
	}
	if !r.Step.IsPositive() {
		return nil, errors.Newf(errors.TypeInput, "step must be positive, got %s", r.Step)
	}

	// Bound in decimal first; IntPart wraps beyond int64.
	intervals := r.MaxPercent.Sub(r.MinPercent).Div(r.Step).Floor()
	if intervals.GreaterThanOrEqual(decimal.NewFromInt(MaxSweepPoints)) {
		return nil, errors.Newf(errors.TypeInput,
			"sweep would evaluate %s points, limit is %d", intervals.Add(decimal.NewFromInt(1)), MaxSweepPoints)
	}
	count := intervals.IntPart() + 1

	percents := make([]decimal.Decimal, 0, count)
	for p := r.MinPercent; p.LessThanOrEqual(r.MaxPercent); p = p.Add(r.Step) {
		percents = append(percents, p)
	}
	return percents, nil
}

// Sweep re-evaluates base with one input varied linearly across r. For every
// percentage p the base is perturbed by factor 1 + p/100 and eval is called
// with an analyzer for the result. Perturbations that leave an invalid model
// (for example a price at or below variable cost) are skipped.
func Sweep[T any](base types.CostStructure, r types.SweepRange, perturb Perturbation,
	eval func(percent, adjusted decimal.Decimal, a *Analyzer) T) ([]T, error) {
	percents, err := Percents(r)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(percents))
	for _, p := range percents {
		factor := decimal.NewFromInt(1).Add(p.Div(types.Hundred))
		costs, adjusted := perturb(base, factor)
		a, err := NewAnalyzer(costs)
		if err != nil {
			continue
		}
		out = append(out, eval(p, adjusted, a))
	}
	return out, nil
}

// Sensitivity sweeps driver across r and reports break-even at each step.
// Break-even value is priced at the perturbed unit price.
func Sensitivity(base types.CostStructure, driver types.Driver, r types.SweepRange) (*types.SensitivityResult, error) {
	baseAnalyzer, err := NewAnalyzer(base)
	if err != nil {
		return nil, err
	}
	perturb, err := PerturbationFor(driver)
	if err != nil {
		return nil, err
	}

	baseUnits := baseAnalyzer.BreakEvenUnits()
	points, err := Sweep(base, r, perturb, func(p, adjusted decimal.Decimal, a *Analyzer) types.SweepPoint {
		be := a.BreakEven()
		return types.SweepPoint{
			Percent:        p,
			AdjustedValue:  adjusted,
			BreakEvenUnits: be.Units,
			BreakEvenValue: be.Value,
			ChangePercent:  changePercent(be.Units, baseUnits),
		}
	})
	if err != nil {
		return nil, err
	}

	return &types.SensitivityResult{
		Driver:             driver,
		Base:               base,
		BaseBreakEvenUnits: baseUnits,
		Points:             points,
		Elasticity:         Elasticity(points),
	}, nil
}

// Elasticity averages |break-even change / driver change| over the +10% and
// -10% points. It returns nil unless both are present.
func Elasticity(points []types.SweepPoint) *decimal.Decimal {
	var up, down *types.SweepPoint
	for i := range points {
		switch {
		case points[i].Percent.Equal(elasticityProbe):
			up = &points[i]
		case points[i].Percent.Equal(elasticityProbe.Neg()):
			down = &points[i]
		}
	}
	if up == nil || down == nil {
		return nil
	}

	upE := up.ChangePercent.Div(elasticityProbe).Abs()
	downE := down.ChangePercent.Div(elasticityProbe.Neg()).Abs()
	e := upE.Add(downE).Div(two)
	return &e
}

func changePercent(units, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return units.Sub(base).Div(base).Mul(types.Hundred)
}
