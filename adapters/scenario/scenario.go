// Package scenario decodes analysis scenarios written in HCL (or the HCL JSON
// syntax) into engine requests.
package scenario

import (
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"breakeven/core/engine"
	"breakeven/core/types"
	"breakeven/internal/errors"
)

// File is the on-disk shape of a scenario. Numeric attributes are kept as
// cty values so literals reach the engine without a float64 round trip;
// quoted numbers such as "0.1" are accepted too.
type File struct {
	CostStructure   *CostStructureBlock `hcl:"cost_structure,block"`
	ExpectedUnits   cty.Value           `hcl:"expected_units,optional"`
	TargetProfit    cty.Value           `hcl:"target_profit,optional"`
	TotalFixedCosts cty.Value           `hcl:"total_fixed_costs,optional"`
	Products        []ProductBlock      `hcl:"product,block"`
	Chart           *ChartBlock         `hcl:"chart,block"`
	Sensitivity     *SensitivityBlock   `hcl:"sensitivity,block"`
}

// CostStructureBlock describes a single product
type CostStructureBlock struct {
	FixedCosts       cty.Value `hcl:"fixed_costs"`
	UnitPrice        cty.Value `hcl:"unit_price"`
	UnitVariableCost cty.Value `hcl:"unit_variable_cost"`
}

// ProductBlock is one labelled product of a sales mix
type ProductBlock struct {
	Name                string    `hcl:"name,label"`
	UnitPrice           cty.Value `hcl:"unit_price"`
	UnitVariableCost    cty.Value `hcl:"unit_variable_cost"`
	MixShare            cty.Value `hcl:"mix_share"`
	AllocatedFixedCosts cty.Value `hcl:"allocated_fixed_costs,optional"`
}

// ChartBlock bounds the chart series
type ChartBlock struct {
	MinUnits cty.Value `hcl:"min_units,optional"`
	MaxUnits cty.Value `hcl:"max_units,optional"`
}

// SensitivityBlock selects a sweep
type SensitivityBlock struct {
	Driver     *string   `hcl:"driver,optional"`
	MinPercent cty.Value `hcl:"min_percent,optional"`
	MaxPercent cty.Value `hcl:"max_percent,optional"`
	Step       cty.Value `hcl:"step,optional"`
}

// Load reads and decodes the scenario at path. The extension selects the
// syntax: .hcl for native HCL, .json for HCL JSON.
func Load(path string) (*engine.Request, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "failed to read scenario", err).WithContext("path", path)
	}
	return Parse(path, src)
}

// Parse decodes src, using filename for diagnostics and syntax selection
func Parse(filename string, src []byte) (*engine.Request, error) {
	var f File
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return nil, errors.Parsing("failed to decode scenario", err).WithContext("file", filename)
	}
	return f.Request()
}

// Request converts the decoded file into an engine request
func (f *File) Request() (*engine.Request, error) {
	var d decoder
	req := &engine.Request{
		ExpectedUnits:   d.optional("expected_units", f.ExpectedUnits, decimal.Zero),
		TargetProfit:    d.nullable("target_profit", f.TargetProfit),
		TotalFixedCosts: d.nullable("total_fixed_costs", f.TotalFixedCosts),
	}

	if c := f.CostStructure; c != nil {
		req.Costs = &types.CostStructure{
			FixedCosts:       d.number("cost_structure.fixed_costs", c.FixedCosts),
			UnitPrice:        d.number("cost_structure.unit_price", c.UnitPrice),
			UnitVariableCost: d.number("cost_structure.unit_variable_cost", c.UnitVariableCost),
		}
	}

	for _, p := range f.Products {
		if req.TotalFixedCosts.Valid && !p.AllocatedFixedCosts.IsNull() {
			return nil, errors.Newf(errors.TypeInput,
				"product %q sets allocated_fixed_costs while total_fixed_costs is also set", p.Name)
		}
		prefix := "product." + p.Name + "."
		req.Products = append(req.Products, types.Product{
			Name:                p.Name,
			UnitPrice:           d.number(prefix+"unit_price", p.UnitPrice),
			UnitVariableCost:    d.number(prefix+"unit_variable_cost", p.UnitVariableCost),
			MixShare:            d.number(prefix+"mix_share", p.MixShare),
			AllocatedFixedCosts: d.optional(prefix+"allocated_fixed_costs", p.AllocatedFixedCosts, decimal.Zero),
		})
	}

	if c := f.Chart; c != nil {
		req.Chart = &types.ChartRange{
			Min: d.optional("chart.min_units", c.MinUnits, decimal.Zero),
			Max: d.nullable("chart.max_units", c.MaxUnits),
		}
	}

	if s := f.Sensitivity; s != nil {
		sr := &engine.SensitivityRequest{}
		if s.Driver != nil {
			sr.Driver = types.Driver(*s.Driver)
			if !sr.Driver.IsValid() {
				return nil, errors.Newf(errors.TypeInput, "unknown sensitivity driver %q", *s.Driver)
			}
		}
		if !s.MinPercent.IsNull() || !s.MaxPercent.IsNull() || !s.Step.IsNull() {
			def := engine.DefaultConfig().DefaultSweep
			sr.Range = types.SweepRange{
				MinPercent: d.optional("sensitivity.min_percent", s.MinPercent, def.MinPercent),
				MaxPercent: d.optional("sensitivity.max_percent", s.MaxPercent, def.MaxPercent),
				Step:       d.optional("sensitivity.step", s.Step, def.Step),
			}
		}
		req.Sensitivity = sr
	}

	if d.err != nil {
		return nil, d.err
	}
	return req, nil
}

// decoder converts cty numbers to decimals, keeping the first failure
type decoder struct {
	err error
}

func (d *decoder) number(field string, v cty.Value) decimal.Decimal {
	if d.err != nil {
		return decimal.Zero
	}
	if v.IsNull() {
		d.err = errors.Newf(errors.TypeInput, "%s is required", field)
		return decimal.Zero
	}
	if !v.IsKnown() {
		d.err = errors.Newf(errors.TypeInput, "%s must be a known value", field)
		return decimal.Zero
	}

	n, err := convert.Convert(v, cty.Number)
	if err != nil {
		d.err = errors.Wrap(errors.TypeInput, field+" must be a number", err)
		return decimal.Zero
	}
	out, err := decimal.NewFromString(n.AsBigFloat().Text('f', -1))
	if err != nil {
		d.err = errors.Wrap(errors.TypeInput, field+" is not a finite number", err)
		return decimal.Zero
	}
	return out
}

func (d *decoder) optional(field string, v cty.Value, def decimal.Decimal) decimal.Decimal {
	if v.IsNull() {
		return def
	}
	return d.number(field, v)
}

func (d *decoder) nullable(field string, v cty.Value) decimal.NullDecimal {
	if v.IsNull() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.number(field, v))
}
