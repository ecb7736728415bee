// Package cvp - Weighted multi-product break-even
package cvp

import (
	"github.com/shopspring/decimal"

	"breakeven/core/types"
	"breakeven/internal/errors"
)

// MixTolerance is how far the sum of mix shares may drift from one
var MixTolerance = decimal.RequireFromString("0.0001")

// BreakEvenMultiProduct computes the aggregate break-even volume of a sales
// mix and splits it across products by mix share. Each product's volume is
// proportional to its share of unit sales, not to its own margin.
func BreakEvenMultiProduct(products []types.Product) (*types.MultiProductResult, error) {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.MixShare)
	}
	if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(MixTolerance) {
		return nil, errors.Newf(errors.TypeInvalidMix,
			"sales mix shares must sum to 100%%, got %s%%", sum.Mul(types.Hundred)).
			WithContext("mix_sum", sum.String())
	}

	weighted := decimal.Zero
	totalFixed := decimal.Zero
	for i, p := range products {
		if err := validateProduct(i, p); err != nil {
			return nil, err
		}
		weighted = weighted.Add(p.ContributionMargin().Mul(p.MixShare))
		totalFixed = totalFixed.Add(p.AllocatedFixedCosts)
	}

	if !weighted.IsPositive() {
		return nil, errors.Newf(errors.TypeInvalidModel,
			"weighted contribution margin must be positive, got %s", weighted).
			WithContext("weighted_contribution_margin", weighted.String())
	}

	totalUnits := totalFixed.Div(weighted)
	result := &types.MultiProductResult{
		WeightedContributionMargin: weighted,
		TotalFixedCosts:            totalFixed,
		TotalBreakEvenUnits:        totalUnits,
		TotalBreakEvenValue:        decimal.Zero,
		Products:                   make([]types.ProductBreakEven, 0, len(products)),
	}

	for _, p := range products {
		units := totalUnits.Mul(p.MixShare)
		value := units.Mul(p.UnitPrice)
		result.TotalBreakEvenValue = result.TotalBreakEvenValue.Add(value)
		result.Products = append(result.Products, types.ProductBreakEven{
			Name:  p.Name,
			Units: units,
			Value: value,
		})
	}

	return result, nil
}

func validateProduct(index int, p types.Product) error {
	if p.Name == "" {
		return errors.Newf(errors.TypeInput, "product %d has no name", index)
	}
	if !p.MixShare.IsPositive() || p.MixShare.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Newf(errors.TypeInvalidMix,
			"product %q mix share must be in (0, 1], got %s", p.Name, p.MixShare).
			WithContext("product", p.Name)
	}
	if p.AllocatedFixedCosts.IsNegative() {
		return errors.Newf(errors.TypeInvalidModel,
			"product %q allocated fixed costs cannot be negative", p.Name).
			WithContext("product", p.Name)
	}
	return nil
}

// AllocateFixedCosts returns copies of products with totalFixedCosts split
// between them by mix share.
func AllocateFixedCosts(products []types.Product, totalFixedCosts decimal.Decimal) ([]types.Product, error) {
	if totalFixedCosts.IsNegative() {
		return nil, errors.InvalidModel("total fixed costs cannot be negative").
			WithContext("total_fixed_costs", totalFixedCosts.String())
	}

	allocated := make([]types.Product, len(products))
	for i, p := range products {
		p.AllocatedFixedCosts = totalFixedCosts.Mul(p.MixShare)
		allocated[i] = p
	}
	return allocated, nil
}
