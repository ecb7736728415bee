package ui

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakeven/core/engine"
	"breakeven/core/types"
)

func render(t *testing.T, req engine.Request) string {
	t.Helper()
	result, err := engine.New(engine.DefaultConfig()).Run(req)
	require.NoError(t, err)

	var buf bytes.Buffer
	NewReport(NewWriter(&buf, true), types.CurrencyEUR).Render(result)
	return buf.String()
}

func costs() *types.CostStructure {
	return &types.CostStructure{
		FixedCosts:       decimal.NewFromInt(10000),
		UnitPrice:        decimal.NewFromInt(50),
		UnitVariableCost: decimal.NewFromInt(30),
	}
}

func TestReportAnalysis(t *testing.T) {
	out := render(t, engine.Request{Costs: costs(), ExpectedUnits: decimal.NewFromInt(800)})

	assert.Contains(t, out, "Break-even analysis")
	assert.Contains(t, out, "500.00")
	assert.Contains(t, out, "25000.00 EUR")
	assert.Contains(t, out, "37.50%")
	assert.Contains(t, out, "2.6667")
	assert.NotContains(t, out, "⚠")
	assert.NotContains(t, out, "\x1b[")
}

func TestReportWarnsBelowBreakEven(t *testing.T) {
	out := render(t, engine.Request{Costs: costs(), ExpectedUnits: decimal.NewFromInt(400)})

	assert.Contains(t, out, "margin of safety is undefined")
	assert.Contains(t, out, "-2000.00 EUR")
	assert.Contains(t, out, "-4.0000")
	assert.NotContains(t, out, "operating leverage is undefined")
}

func TestReportWarnsAtBreakEven(t *testing.T) {
	out := render(t, engine.Request{Costs: costs(), ExpectedUnits: decimal.NewFromInt(500)})

	assert.Contains(t, out, "operating leverage is undefined at break-even")
	assert.NotContains(t, out, "margin of safety is undefined")
}

func TestReportMultiProduct(t *testing.T) {
	out := render(t, engine.Request{
		Products: []types.Product{
			{Name: "Widget", UnitPrice: decimal.NewFromInt(100), UnitVariableCost: decimal.NewFromInt(60), MixShare: decimal.RequireFromString("0.6")},
			{Name: "Gadget", UnitPrice: decimal.NewFromInt(50), UnitVariableCost: decimal.NewFromInt(30), MixShare: decimal.RequireFromString("0.4")},
		},
		TotalFixedCosts: decimal.NewNullDecimal(decimal.NewFromInt(10000)),
	})

	assert.Contains(t, out, "Multi-product break-even")
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "187.50")
	assert.Contains(t, out, "312.50")
}

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	table := NewWriter(&buf, true).NewTable("A", "B")
	table.AddRow("long cell", "x")
	table.AddRow("y")
	table.Render()

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Equal(t, "A         │ B", string(lines[0]))
	assert.Equal(t, "long cell │ x", string(lines[2]))
	assert.Equal(t, "y         │  ", string(lines[3]))
}
