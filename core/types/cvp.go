// Package types - Cost-volume-profit value objects
package types

import "github.com/shopspring/decimal"

// CostStructure is the input to a single-product analysis
type CostStructure struct {
	// FixedCosts is the period's total fixed cost
	FixedCosts decimal.Decimal `json:"fixed_costs"`

	// UnitPrice is the selling price per unit
	UnitPrice decimal.Decimal `json:"unit_price"`

	// UnitVariableCost is the variable cost per unit
	UnitVariableCost decimal.Decimal `json:"unit_variable_cost"`
}

// ContributionMargin returns UnitPrice - UnitVariableCost
func (c CostStructure) ContributionMargin() decimal.Decimal {
	return c.UnitPrice.Sub(c.UnitVariableCost)
}

// BreakEven is the volume at which profit is zero
type BreakEven struct {
	Units decimal.Decimal `json:"units"`
	Value decimal.Decimal `json:"value"`
}

// SafetyMargin is how far expected sales sit above break-even
type SafetyMargin struct {
	Units   decimal.Decimal `json:"units"`
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
}

// ChartRange bounds a chart series in units. A null Max means twice the
// break-even volume.
type ChartRange struct {
	Min decimal.Decimal     `json:"min"`
	Max decimal.NullDecimal `json:"max"`
}

// ChartPoint is one sampled unit level of the cost/revenue/profit curve
type ChartPoint struct {
	Units        decimal.Decimal `json:"units"`
	FixedCost    decimal.Decimal `json:"fixed_cost"`
	VariableCost decimal.Decimal `json:"variable_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Revenue      decimal.Decimal `json:"revenue"`
	Profit       decimal.Decimal `json:"profit"`
}

// ChartSeries is an ordered run of evenly spaced chart points
type ChartSeries struct {
	Points []ChartPoint `json:"points"`
}

// Len returns the number of points
func (s ChartSeries) Len() int {
	return len(s.Points)
}

// Analysis is a snapshot of a single-product analysis. The optional fields
// are populated only when an expected sales volume was supplied.
type Analysis struct {
	Inputs                  CostStructure   `json:"inputs"`
	ContributionMargin      decimal.Decimal `json:"contribution_margin"`
	ContributionMarginRatio decimal.Decimal `json:"contribution_margin_ratio"`
	BreakEven               BreakEven       `json:"break_even"`

	ExpectedUnits     decimal.Decimal  `json:"expected_units"`
	SafetyMargin      *SafetyMargin    `json:"safety_margin,omitempty"`
	EstimatedProfit   *decimal.Decimal `json:"estimated_profit,omitempty"`
	OperatingLeverage *decimal.Decimal `json:"operating_leverage,omitempty"`
}

// Product is one line in a multi-product sales mix
type Product struct {
	// Name is used for display and lookup; duplicates are allowed
	Name string `json:"name"`

	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitVariableCost decimal.Decimal `json:"unit_variable_cost"`

	// MixShare is the fraction of unit sales this product represents
	MixShare decimal.Decimal `json:"mix_share"`

	// AllocatedFixedCosts is this product's share of fixed costs
	AllocatedFixedCosts decimal.Decimal `json:"allocated_fixed_costs"`
}

// ContributionMargin returns UnitPrice - UnitVariableCost
func (p Product) ContributionMargin() decimal.Decimal {
	return p.UnitPrice.Sub(p.UnitVariableCost)
}

// ProductBreakEven is one product's slice of the aggregate break-even point
type ProductBreakEven struct {
	Name  string          `json:"name"`
	Units decimal.Decimal `json:"units"`
	Value decimal.Decimal `json:"value"`
}

// MultiProductResult is the outcome of a weighted break-even calculation
type MultiProductResult struct {
	WeightedContributionMargin decimal.Decimal    `json:"weighted_contribution_margin"`
	TotalFixedCosts            decimal.Decimal    `json:"total_fixed_costs"`
	TotalBreakEvenUnits        decimal.Decimal    `json:"total_break_even_units"`
	TotalBreakEvenValue        decimal.Decimal    `json:"total_break_even_value"`
	Products                   []ProductBreakEven `json:"products"`
}

// SweepRange is an inclusive percent range stepped in fixed increments
type SweepRange struct {
	MinPercent decimal.Decimal `json:"min_percent"`
	MaxPercent decimal.Decimal `json:"max_percent"`
	Step       decimal.Decimal `json:"step"`
}

// SweepPoint is the break-even outcome at one perturbation
type SweepPoint struct {
	// Percent is the change applied to the driver
	Percent decimal.Decimal `json:"percent"`

	// AdjustedValue is the driver's value after the change
	AdjustedValue decimal.Decimal `json:"adjusted_value"`

	BreakEvenUnits decimal.Decimal `json:"break_even_units"`
	BreakEvenValue decimal.Decimal `json:"break_even_value"`

	// ChangePercent is the break-even unit change relative to the base case
	ChangePercent decimal.Decimal `json:"change_percent"`
}

// SensitivityResult is a sweep of one driver around a base cost structure
type SensitivityResult struct {
	Driver             Driver          `json:"driver"`
	Base               CostStructure   `json:"base"`
	BaseBreakEvenUnits decimal.Decimal `json:"base_break_even_units"`
	Points             []SweepPoint    `json:"points"`

	// Elasticity is the mean absolute break-even response to a ±10% change;
	// nil when the sweep does not contain both points
	Elasticity *decimal.Decimal `json:"elasticity,omitempty"`
}
