package cvp

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakeven/core/types"
	"breakeven/internal/errors"
)

func TestPercents(t *testing.T) {
	tests := []struct {
		name string
		r    types.SweepRange
		want []string
	}{
		{
			name: "default range",
			r:    DefaultSweepRange(),
			want: []string{"-30", "-20", "-10", "0", "10", "20", "30"},
		},
		{
			name: "step not landing on max",
			r:    types.SweepRange{MinPercent: dec("-30"), MaxPercent: dec("30"), Step: dec("7")},
			want: []string{"-30", "-23", "-16", "-9", "-2", "5", "12", "19", "26"},
		},
		{
			name: "fractional step",
			r:    types.SweepRange{MinPercent: dec("0"), MaxPercent: dec("1"), Step: dec("0.25")},
			want: []string{"0", "0.25", "0.5", "0.75", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percents(tt.r)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assertDecimal(t, "percent", w, got[i])
			}
		})
	}
}

func TestPercentsRejectsBadRanges(t *testing.T) {
	tests := []struct {
		name string
		r    types.SweepRange
	}{
		{"min above max", types.SweepRange{MinPercent: dec("10"), MaxPercent: dec("-10"), Step: dec("5")}},
		{"min equals max", types.SweepRange{MinPercent: dec("10"), MaxPercent: dec("10"), Step: dec("5")}},
		{"zero step", types.SweepRange{MinPercent: dec("-10"), MaxPercent: dec("10"), Step: dec("0")}},
		{"negative step", types.SweepRange{MinPercent: dec("-10"), MaxPercent: dec("10"), Step: dec("-1")}},
		{"too many points", types.SweepRange{MinPercent: dec("-100"), MaxPercent: dec("100"), Step: dec("0.01")}},
		{"count beyond int64", types.SweepRange{MinPercent: dec("0"), MaxPercent: dec("18446744073709551616"), Step: dec("1")}},
		{"count far beyond int64", types.SweepRange{MinPercent: dec("-1e40"), MaxPercent: dec("1e40"), Step: dec("0.5")}},
		{"one point over the limit", types.SweepRange{MinPercent: dec("0"), MaxPercent: dec("1000"), Step: dec("1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Percents(tt.r)
			assert.True(t, errors.IsType(err, errors.TypeInput), "got %v", err)
		})
	}
}

func TestPercentsAtPointLimit(t *testing.T) {
	percents, err := Percents(types.SweepRange{MinPercent: dec("0"), MaxPercent: dec("999"), Step: dec("1")})
	require.NoError(t, err)
	require.Len(t, percents, MaxSweepPoints)
	assertDecimal(t, "last", "999", percents[len(percents)-1])
}

func TestSensitivityFixedCosts(t *testing.T) {
	result, err := Sensitivity(sampleCosts(), types.DriverFixedCosts, DefaultSweepRange())
	require.NoError(t, err)

	assert.Equal(t, types.DriverFixedCosts, result.Driver)
	assertDecimal(t, "base units", "500", result.BaseBreakEvenUnits)
	require.Len(t, result.Points, 7)

	first := result.Points[0]
	assertDecimal(t, "adjusted", "7000", first.AdjustedValue)
	assertDecimal(t, "units", "350", first.BreakEvenUnits)
	assertDecimal(t, "value", "17500", first.BreakEvenValue)
	assertDecimal(t, "change", "-30", first.ChangePercent)

	plusTen := result.Points[4]
	assertDecimal(t, "percent", "10", plusTen.Percent)
	assertDecimal(t, "units", "550", plusTen.BreakEvenUnits)

	require.NotNil(t, result.Elasticity)
	assertDecimal(t, "elasticity", "1", *result.Elasticity)
}

func TestSensitivityUnitPriceSkipsInvalidPerturbations(t *testing.T) {
	r := types.SweepRange{MinPercent: dec("-50"), MaxPercent: dec("10"), Step: dec("10")}

	result, err := Sensitivity(sampleCosts(), types.DriverUnitPrice, r)
	require.NoError(t, err)

	// -50% (25) and -40% (30) leave no contribution margin.
	require.Len(t, result.Points, 5)
	assertDecimal(t, "first percent", "-30", result.Points[0].Percent)

	last := result.Points[4]
	assertDecimal(t, "adjusted price", "55", last.AdjustedValue)
	assertDecimal(t, "units", "400", last.BreakEvenUnits)
	assertDecimal(t, "value at perturbed price", "22000", last.BreakEvenValue)
	assertDecimal(t, "change", "-20", last.ChangePercent)

	require.NotNil(t, result.Elasticity)
	assert.InDelta(t, 2.6667, result.Elasticity.InexactFloat64(), 0.0001)
}

func TestSensitivityVariableCost(t *testing.T) {
	r := types.SweepRange{MinPercent: dec("0"), MaxPercent: dec("100"), Step: dec("50")}

	result, err := Sensitivity(sampleCosts(), types.DriverUnitVariableCost, r)
	require.NoError(t, err)

	// +100% doubles variable cost to 60, above the price.
	require.Len(t, result.Points, 2)
	assertDecimal(t, "adjusted", "45", result.Points[1].AdjustedValue)
	assertDecimal(t, "units", "2000", result.Points[1].BreakEvenUnits)
	assert.Nil(t, result.Elasticity)
}

func TestSensitivityErrors(t *testing.T) {
	_, err := Sensitivity(sampleCosts(), types.Driver("volume"), DefaultSweepRange())
	assert.True(t, errors.IsType(err, errors.TypeInput))

	invalid := types.CostStructure{FixedCosts: dec("10"), UnitPrice: dec("5"), UnitVariableCost: dec("5")}
	_, err = Sensitivity(invalid, types.DriverFixedCosts, DefaultSweepRange())
	assert.True(t, errors.IsType(err, errors.TypeInvalidModel))
}

func TestSweepWithCustomEvaluation(t *testing.T) {
	perturb, err := PerturbationFor(types.DriverUnitVariableCost)
	require.NoError(t, err)

	r := types.SweepRange{MinPercent: dec("-50"), MaxPercent: dec("50"), Step: dec("50")}
	ratios, err := Sweep(sampleCosts(), r, perturb, func(_, _ decimal.Decimal, a *Analyzer) decimal.Decimal {
		return a.ContributionMarginRatio()
	})
	require.NoError(t, err)
	require.Len(t, ratios, 3)
	assertDecimal(t, "ratio at -50%", "0.7", ratios[0])
	assertDecimal(t, "ratio at 0%", "0.4", ratios[1])
	assertDecimal(t, "ratio at +50%", "0.1", ratios[2])
}

func TestElasticityNeedsBothProbes(t *testing.T) {
	points := []types.SweepPoint{
		{Percent: dec("10"), ChangePercent: dec("10")},
		{Percent: dec("20"), ChangePercent: dec("20")},
	}
	assert.Nil(t, Elasticity(points))
}
