package ui

import (
	"github.com/shopspring/decimal"

	"breakeven/core/engine"
	"breakeven/core/types"
)

// Report renders engine results as tables
type Report struct {
	w        *Writer
	currency types.Currency
}

// NewReport creates a report labelling monetary values with currency
func NewReport(w *Writer, currency types.Currency) *Report {
	if currency == "" {
		currency = types.CurrencyUSD
	}
	return &Report{w: w, currency: currency}
}

// Render prints every section present in result
func (r *Report) Render(result *engine.Result) {
	if result.Analysis != nil {
		r.Analysis(result.Analysis, result.TargetUnits)
	}
	if result.Chart != nil {
		r.Chart(result.Chart)
	}
	if result.MultiProduct != nil {
		r.MultiProduct(result.MultiProduct)
	}
	if result.Sensitivity != nil {
		r.Sensitivity(result.Sensitivity)
	}
}

// Analysis prints the single-product figures
func (r *Report) Analysis(a *types.Analysis, targetUnits *decimal.Decimal) {
	r.w.Header("Break-even analysis")

	t := r.w.NewTable("Metric", "Value")
	t.AddRow("Fixed costs", r.money(a.Inputs.FixedCosts))
	t.AddRow("Unit price", r.money(a.Inputs.UnitPrice))
	t.AddRow("Unit variable cost", r.money(a.Inputs.UnitVariableCost))
	t.AddRow("Contribution margin", r.money(a.ContributionMargin))
	t.AddRow("Contribution margin ratio", percent(a.ContributionMarginRatio.Mul(types.Hundred)))
	t.AddRow("Break-even units", units(a.BreakEven.Units))
	t.AddRow("Break-even value", r.money(a.BreakEven.Value))

	if a.ExpectedUnits.IsPositive() {
		t.AddRow("Expected units", units(a.ExpectedUnits))
		if a.EstimatedProfit != nil {
			t.AddRow("Estimated profit", r.money(*a.EstimatedProfit))
		}
		if a.SafetyMargin != nil {
			t.AddRow("Margin of safety (units)", units(a.SafetyMargin.Units))
			t.AddRow("Margin of safety (value)", r.money(a.SafetyMargin.Value))
			t.AddRow("Margin of safety", percent(a.SafetyMargin.Percent))
		}
		if a.OperatingLeverage != nil {
			t.AddRow("Operating leverage", a.OperatingLeverage.StringFixed(4))
		}
	}
	if targetUnits != nil {
		t.AddRow("Units for target profit", units(*targetUnits))
	}
	t.Render()

	if a.ExpectedUnits.IsPositive() {
		if a.SafetyMargin == nil {
			r.w.Warning("expected sales are below break-even; margin of safety is undefined")
		}
		if a.OperatingLeverage == nil {
			r.w.Warning("operating leverage is undefined at break-even")
		}
	}
}

// Chart prints the sampled cost and revenue lines
func (r *Report) Chart(c *types.ChartSeries) {
	r.w.Header("Cost-volume-profit chart")

	t := r.w.NewTable("Units", "Fixed", "Variable", "Total cost", "Revenue", "Profit")
	for _, p := range c.Points {
		t.AddRow(units(p.Units), r.money(p.FixedCost), r.money(p.VariableCost),
			r.money(p.TotalCost), r.money(p.Revenue), r.money(p.Profit))
	}
	t.Render()
}

// MultiProduct prints the weighted break-even and its per-product split
func (r *Report) MultiProduct(m *types.MultiProductResult) {
	r.w.Header("Multi-product break-even")

	t := r.w.NewTable("Product", "Units", "Value")
	for _, p := range m.Products {
		t.AddRow(p.Name, units(p.Units), r.money(p.Value))
	}
	t.AddRow("Total", units(m.TotalBreakEvenUnits), r.money(m.TotalBreakEvenValue))
	t.Render()

	r.w.Println("")
	r.w.Println("Weighted contribution margin: %s", r.money(m.WeightedContributionMargin))
	r.w.Println("Total fixed costs:            %s", r.money(m.TotalFixedCosts))
}

// Sensitivity prints the break-even at each sweep step
func (r *Report) Sensitivity(s *types.SensitivityResult) {
	r.w.Header("Sensitivity: " + s.Driver.String())

	t := r.w.NewTable("Change", "Adjusted value", "Break-even units", "Break-even value", "BE change")
	for _, p := range s.Points {
		t.AddRow(percent(p.Percent), r.money(p.AdjustedValue), units(p.BreakEvenUnits),
			r.money(p.BreakEvenValue), percent(p.ChangePercent))
	}
	t.Render()

	if s.Elasticity != nil {
		r.w.Println("")
		r.w.Println("Elasticity: %s", s.Elasticity.StringFixed(4))
	}
}

func (r *Report) money(d decimal.Decimal) string {
	return types.NewMoney(d, r.currency).String()
}

func units(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
