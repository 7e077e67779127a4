package roi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_RateLeverSpansZeroToForty(t *testing.T) {
	t.Parallel()

	sweep, err := DefaultModel().Sweep(Defaults(), LeverLaborSubstitution, 5)
	require.NoError(t, err)
	require.Len(t, sweep.Points, 5)

	xs := make([]float64, 0, len(sweep.Points))
	for _, p := range sweep.Points {
		xs = append(xs, p.X)
	}
	assert.Equal(t, []float64{0, 0.1, 0.2, 0.3, 0.4}, xs)
	assert.Equal(t, 0.0, sweep.From)
	assert.Equal(t, 0.40, sweep.To)

	for i := 1; i < len(sweep.Points); i++ {
		assert.Greater(t, sweep.Points[i].TotalSavings, sweep.Points[i-1].TotalSavings)
	}
}

func TestSweep_PointsMatchCompute(t *testing.T) {
	t.Parallel()

	model := DefaultModel()
	base := classroomInputs()

	sweep, err := model.Sweep(base, LeverEfficiencyGain, 3)
	require.NoError(t, err)

	for _, p := range sweep.Points {
		in := base
		in.EfficiencyGain = p.X
		want := model.Compute(in)
		assert.InDelta(t, want.TotalSavings, p.TotalSavings, tolerance)
		assert.Equal(t, want.ReturnRatio, p.ReturnRatio)
		assert.Equal(t, want.Payback, p.Payback)
	}
}

func TestSweep_InvestmentLeverIncludesZero(t *testing.T) {
	t.Parallel()

	sweep, err := DefaultModel().Sweep(Defaults(), LeverTechnologyInvestment, 3)
	require.NoError(t, err)

	assert.Equal(t, 1_200_000.0, sweep.To)
	assert.False(t, sweep.Points[0].ReturnRatio.Defined)
	assert.True(t, sweep.Points[1].ReturnRatio.Defined)
	assert.InDelta(t, 600_000, sweep.Points[1].X, tolerance)
}

func TestSweep_InvestmentLeverStaysWithinFieldRange(t *testing.T) {
	t.Parallel()

	base := Defaults()
	base.TechnologyInvestment = 8e9

	sweep, err := DefaultModel().Sweep(base, LeverTechnologyInvestment, 5)
	require.NoError(t, err)

	assert.Equal(t, 1e10, sweep.To)
	for _, p := range sweep.Points {
		in := base
		in.TechnologyInvestment = p.X
		r := DefaultModel().Compute(in)
		assert.Equal(t, p.X, r.Inputs.TechnologyInvestment)
		assert.Empty(t, r.Adjustments)
		assert.InDelta(t, r.NetBenefit, p.NetBenefit, tolerance)
	}
	assert.Equal(t, 1e10, sweep.Points[len(sweep.Points)-1].X)
}

func TestSweep_ClampsSteps(t *testing.T) {
	t.Parallel()

	sweep, err := DefaultModel().Sweep(Defaults(), LeverErrorReduction, 1)
	require.NoError(t, err)
	assert.Len(t, sweep.Points, MinSweepSteps)

	sweep, err = DefaultModel().Sweep(Defaults(), LeverErrorReduction, 1000)
	require.NoError(t, err)
	assert.Len(t, sweep.Points, MaxSweepSteps)
}

func TestSweep_UnknownLever(t *testing.T) {
	t.Parallel()

	_, err := DefaultModel().Sweep(Defaults(), Lever("time_horizon"), 5)
	assert.ErrorIs(t, err, ErrUnknownLever)
}

func TestLever_Label(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Efficiency gain", LeverEfficiencyGain.Label())
	assert.Equal(t, "mystery", Lever("mystery").Label())
}

func TestPresets(t *testing.T) {
	t.Parallel()

	presets := Presets()
	require.Len(t, presets, 3)
	assert.Equal(t, Defaults(), presets[0].Inputs)

	precinct, ok := PresetByKey("precinct")
	require.True(t, ok)
	assert.InDelta(t, 0.1404, precinct.Inputs.LaborSubstitutionRate, tolerance)
	assert.Equal(t, 750_000.0, precinct.Inputs.TechnologyInvestment)

	for _, p := range presets {
		_, adjustments := Clamp(p.Inputs)
		assert.Empty(t, adjustments, p.Key)
	}

	_, ok = PresetByKey("airport")
	assert.False(t, ok)
}
