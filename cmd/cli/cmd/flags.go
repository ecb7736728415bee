// Package cmd - shared flag parsing
package cmd

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"breakeven/core/types"
	"breakeven/internal/errors"
)

// costFlags holds the cost structure flags shared by several commands
type costFlags struct {
	fixedCosts   string
	price        string
	variableCost string
}

func (f *costFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fixedCosts, "fixed-costs", "", "total fixed costs")
	cmd.Flags().StringVar(&f.price, "price", "", "unit selling price")
	cmd.Flags().StringVar(&f.variableCost, "variable-cost", "", "unit variable cost")
}

func (f *costFlags) costs() (*types.CostStructure, error) {
	fixed, err := parseDecimal("fixed-costs", f.fixedCosts)
	if err != nil {
		return nil, err
	}
	price, err := parseDecimal("price", f.price)
	if err != nil {
		return nil, err
	}
	variable, err := parseDecimal("variable-cost", f.variableCost)
	if err != nil {
		return nil, err
	}
	return &types.CostStructure{
		FixedCosts:       fixed,
		UnitPrice:        price,
		UnitVariableCost: variable,
	}, nil
}

func parseDecimal(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, errors.Newf(errors.TypeInput, "--%s is required", name)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errors.Wrap(errors.TypeInput, "invalid --"+name, err)
	}
	return d, nil
}

// parseOptional returns a null decimal for an empty value
func parseOptional(name, value string) (decimal.NullDecimal, error) {
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseDecimal(name, value)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// orDefault parses value, falling back to def when value is empty
func orDefault(name, value, def string) (decimal.Decimal, error) {
	if value == "" {
		value = def
	}
	return parseDecimal(name, value)
}

// parseProduct reads NAME:PRICE:VARIABLE_COST:MIX_SHARE[:FIXED_COSTS]
func parseProduct(spec string) (types.Product, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 && len(parts) != 5 {
		return types.Product{}, errors.Newf(errors.TypeInput, "product %q: want NAME:PRICE:VARIABLE_COST:MIX_SHARE[:FIXED_COSTS]", spec)
	}

	values := make([]decimal.Decimal, len(parts)-1)
	for i, raw := range parts[1:] {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return types.Product{}, errors.Wrap(errors.TypeInput, "invalid product", err).WithContext("product", spec)
		}
		values[i] = d
	}

	p := types.Product{
		Name:             parts[0],
		UnitPrice:        values[0],
		UnitVariableCost: values[1],
		MixShare:         values[2],
	}
	if len(values) == 4 {
		p.AllocatedFixedCosts = values[3]
	}
	return p, nil
}
