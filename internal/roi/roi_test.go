package roi

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func classroomInputs() Inputs {
	return Inputs{
		BaselineCost:          100_000,
		TechnologyInvestment:  50_000,
		LaborSubstitutionRate: 0.3,
		EfficiencyGain:        0.2,
		ErrorReductionRate:    0.1,
		TimeHorizon:           3,
	}
}

func TestCompute_ClassroomScenarioWithoutAvoidedCost(t *testing.T) {
	t.Parallel()

	result := NewModel(0, 12).Compute(classroomInputs())

	assert.InDelta(t, 44_000, result.Breakdown.PeriodicOperatingSavings, tolerance)
	assert.InDelta(t, 0, result.Breakdown.PeriodicAvoidedCost, tolerance)
	assert.InDelta(t, 44_000, result.Breakdown.PeriodicTotalSavings, tolerance)
	assert.InDelta(t, 132_000, result.TotalSavings, tolerance)
	assert.InDelta(t, 82_000, result.NetBenefit, tolerance)

	require.True(t, result.ReturnRatio.Defined)
	assert.InDelta(t, 1.64, result.ReturnRatio.Value, tolerance)

	require.True(t, result.Payback.Defined)
	assert.InDelta(t, 1.136, result.Payback.Value, 1e-3)
	assert.InDelta(t, 50_000.0/44_000.0*12, result.PaybackMonths.Value, tolerance)
	assert.Empty(t, result.Adjustments)
}

func TestCompute_AvoidedCostUsesWeight(t *testing.T) {
	t.Parallel()

	result := Compute(classroomInputs())

	// 100,000 × 0.1 × 0.10
	assert.InDelta(t, 1_000, result.Breakdown.PeriodicAvoidedCost, tolerance)
	assert.InDelta(t, 45_000, result.Breakdown.PeriodicTotalSavings, tolerance)
	assert.InDelta(t, 135_000, result.TotalSavings, tolerance)
}

func TestCompute_BreakdownNarrativeValues(t *testing.T) {
	t.Parallel()

	result := NewModel(0, 12).Compute(classroomInputs())

	assert.InDelta(t, 56_000, result.Breakdown.ProjectedPeriodicCost, tolerance)
	assert.InDelta(t, 1.2, result.Breakdown.ThroughputMultiplier, tolerance)
}

func TestCompute_ZeroInvestmentMarksReturnRatioUndefined(t *testing.T) {
	t.Parallel()

	for _, in := range []Inputs{
		{BaselineCost: 100_000, LaborSubstitutionRate: 0.3, TimeHorizon: 3},
		{BaselineCost: 0, TimeHorizon: 1},
		Defaults(),
	} {
		in.TechnologyInvestment = 0
		result := Compute(in)

		assert.False(t, result.ReturnRatio.Defined)
		assert.Equal(t, "undefined", result.ReturnRatio.Format(2))
		assert.Zero(t, result.ReturnRatio.Value)
	}
}

func TestCompute_ZeroSavingsMarksPaybackNever(t *testing.T) {
	t.Parallel()

	in := Inputs{BaselineCost: 100_000, TechnologyInvestment: 50_000, TimeHorizon: 3}
	result := Compute(in)

	assert.InDelta(t, 0, result.Breakdown.PeriodicTotalSavings, tolerance)
	assert.False(t, result.Payback.Defined)
	assert.Equal(t, "never", result.Payback.String())
	assert.False(t, result.PaybackMonths.Defined)
	require.True(t, result.ReturnRatio.Defined)
	assert.InDelta(t, -1, result.ReturnRatio.Value, tolerance)
}

func TestCompute_IsPure(t *testing.T) {
	t.Parallel()

	for _, in := range []Inputs{classroomInputs(), Defaults(), {}} {
		first := Compute(in)
		second := Compute(in)
		assert.Equal(t, first, second)
	}
}

func TestCompute_NeverReturnsNonFiniteValues(t *testing.T) {
	t.Parallel()

	inf := math.Inf(1)
	cases := []Inputs{
		{},
		{BaselineCost: math.NaN(), TechnologyInvestment: math.NaN(), LaborSubstitutionRate: math.NaN(), EfficiencyGain: math.NaN(), ErrorReductionRate: math.NaN()},
		{BaselineCost: inf, TechnologyInvestment: inf, LaborSubstitutionRate: inf, EfficiencyGain: inf, ErrorReductionRate: inf, TimeHorizon: math.MaxInt32},
		{BaselineCost: -inf, TechnologyInvestment: -inf, LaborSubstitutionRate: -inf, EfficiencyGain: -inf, ErrorReductionRate: -inf, TimeHorizon: -5},
		{BaselineCost: 1e10, TechnologyInvestment: 0, LaborSubstitutionRate: 1, EfficiencyGain: 1, ErrorReductionRate: 1, TimeHorizon: 30},
	}

	for _, in := range cases {
		result := Compute(in)
		for name, v := range map[string]float64{
			"operating":   result.Breakdown.PeriodicOperatingSavings,
			"avoided":     result.Breakdown.PeriodicAvoidedCost,
			"periodic":    result.Breakdown.PeriodicTotalSavings,
			"total":       result.TotalSavings,
			"net":         result.NetBenefit,
			"ratio":       result.ReturnRatio.Value,
			"payback":     result.Payback.Value,
			"paybackMons": result.PaybackMonths.Value,
		} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is not finite for %+v", name, in)
		}

		_, err := json.Marshal(result)
		assert.NoError(t, err)
	}
}

func TestCompute_MonotonicInLaborAndEfficiency(t *testing.T) {
	t.Parallel()

	base := Defaults()
	steps := []float64{0, 0.05, 0.1, 0.25, 0.5, 0.75, 0.9, 1}

	for _, fixed := range steps {
		prevLabor := -1.0
		prevEfficiency := -1.0
		for _, x := range steps {
			labor := base
			labor.EfficiencyGain = fixed
			labor.LaborSubstitutionRate = x
			got := Compute(labor).Breakdown.PeriodicTotalSavings
			assert.GreaterOrEqual(t, got, prevLabor)
			prevLabor = got

			efficiency := base
			efficiency.LaborSubstitutionRate = fixed
			efficiency.EfficiencyGain = x
			got = Compute(efficiency).Breakdown.PeriodicTotalSavings
			assert.GreaterOrEqual(t, got, prevEfficiency)
			prevEfficiency = got
		}
	}
}

func TestNewModel_ClampsWeightAndPeriod(t *testing.T) {
	t.Parallel()

	m := NewModel(2, 0)
	assert.Equal(t, 1.0, m.AvoidedCostWeight)
	assert.Equal(t, float64(DefaultPeriodMonths), m.PeriodMonths)

	m = NewModel(math.NaN(), math.Inf(1))
	assert.Equal(t, DefaultAvoidedCostWeight, m.AvoidedCostWeight)
	assert.Equal(t, float64(DefaultPeriodMonths), m.PeriodMonths)

	m = NewModel(-0.5, 1)
	assert.Equal(t, 0.0, m.AvoidedCostWeight)
	assert.Equal(t, 1.0, m.PeriodMonths)
}

func TestMetric_JSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(undefinedMetric("never"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":null,"defined":false,"label":"never"}`, string(raw))

	raw, err = json.Marshal(definedMetric(1.5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":1.5,"defined":true}`, string(raw))

	var m Metric
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, Metric{Value: 1.5, Defined: true}, m)

	require.NoError(t, json.Unmarshal([]byte(`{"value":null,"defined":false,"label":"undefined"}`), &m))
	assert.Equal(t, Metric{Fallback: "undefined"}, m)
}

func TestDefinedMetric_RejectsNonFinite(t *testing.T) {
	t.Parallel()

	assert.False(t, definedMetric(math.Inf(1)).Defined)
	assert.False(t, definedMetric(math.NaN()).Defined)
}
