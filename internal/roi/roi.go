package roi

import "math"

const (
	// DefaultAvoidedCostWeight is the share of baseline spend attributed to
	// incidents and errors. Avoided cost per period is
	// baseline × error reduction rate × weight.
	DefaultAvoidedCostWeight = 0.10

	// DefaultPeriodMonths converts payback periods into months.
	DefaultPeriodMonths = 12

	fallbackUndefined = "undefined"
	fallbackNever     = "never"
)

// Inputs represents the economic parameters of a transformation scenario.
type Inputs struct {
	BaselineCost          float64 `json:"baseline_cost" csv:"baseline_cost"`
	TechnologyInvestment  float64 `json:"technology_investment" csv:"technology_investment"`
	LaborSubstitutionRate float64 `json:"labor_substitution_rate" csv:"labor_substitution_rate"`
	EfficiencyGain        float64 `json:"efficiency_gain" csv:"efficiency_gain"`
	ErrorReductionRate    float64 `json:"error_reduction_rate" csv:"error_reduction_rate"`
	TimeHorizon           int     `json:"time_horizon" csv:"time_horizon"`
}

// Breakdown contains the per-period intermediate values of the calculation.
type Breakdown struct {
	PeriodicOperatingSavings float64 `json:"periodic_operating_savings"`
	PeriodicAvoidedCost      float64 `json:"periodic_avoided_cost"`
	PeriodicTotalSavings     float64 `json:"periodic_total_savings"`
	ProjectedPeriodicCost    float64 `json:"projected_periodic_cost"`
	ThroughputMultiplier     float64 `json:"throughput_multiplier"`
}

// Result groups the full ROI output for one set of inputs.
type Result struct {
	Inputs        Inputs       `json:"inputs"`
	Adjustments   []Adjustment `json:"adjustments"`
	Breakdown     Breakdown    `json:"breakdown"`
	TotalSavings  float64      `json:"total_savings"`
	NetBenefit    float64      `json:"net_benefit"`
	ReturnRatio   Metric       `json:"return_ratio"`
	Payback       Metric       `json:"payback_periods"`
	PaybackMonths Metric       `json:"payback_months"`
}

// Model holds the constants the formula depends on.
type Model struct {
	AvoidedCostWeight float64
	PeriodMonths      float64
}

// DefaultModel returns the model used by Compute.
func DefaultModel() Model {
	return Model{
		AvoidedCostWeight: DefaultAvoidedCostWeight,
		PeriodMonths:      DefaultPeriodMonths,
	}
}

// NewModel builds a model, keeping the weight within [0, 1] and falling back
// to defaults for unusable period lengths.
func NewModel(avoidedCostWeight, periodMonths float64) Model {
	m := Model{
		AvoidedCostWeight: clampFloat(avoidedCostWeight, 0, 1, DefaultAvoidedCostWeight),
		PeriodMonths:      periodMonths,
	}
	if math.IsNaN(periodMonths) || math.IsInf(periodMonths, 0) || periodMonths <= 0 {
		m.PeriodMonths = DefaultPeriodMonths
	}
	return m
}

// Compute evaluates inputs with the default model.
func Compute(in Inputs) Result {
	return DefaultModel().Compute(in)
}

// ComputeValues applies values over base with Apply and evaluates the
// result. Adjustments made by Apply come first in the result, followed by
// any the base itself needed. Unknown keys are returned sorted.
func (m Model) ComputeValues(base Inputs, values map[string]float64) (Result, []string) {
	in, applied, unknown := Apply(base, values)
	result := m.Compute(in)
	result.Adjustments = append(applied, result.Adjustments...)
	return result, unknown
}

// Compute clamps the inputs into their valid ranges and evaluates the
// closed-form ROI formula. Division-guarded fields come back as undefined
// metrics rather than NaN or Inf.
func (m Model) Compute(in Inputs) Result {
	clamped, adjustments := Clamp(in)

	baseline := clamped.BaselineCost
	labor := clamped.LaborSubstitutionRate
	efficiency := clamped.EfficiencyGain
	investment := clamped.TechnologyInvestment

	operating := baseline * (labor + efficiency*(1-labor))
	avoided := baseline * clamped.ErrorReductionRate * m.AvoidedCostWeight
	periodic := operating + avoided

	totalSavings := periodic * float64(clamped.TimeHorizon)
	netBenefit := totalSavings - investment

	returnRatio := undefinedMetric(fallbackUndefined)
	if investment > 0 {
		returnRatio = definedMetric(netBenefit / investment)
	}

	payback := undefinedMetric(fallbackNever)
	paybackMonths := undefinedMetric(fallbackNever)
	if periodic > 0 {
		periods := investment / periodic
		payback = definedMetric(periods)
		paybackMonths = definedMetric(periods * m.PeriodMonths)
	}

	return Result{
		Inputs:      clamped,
		Adjustments: adjustments,
		Breakdown: Breakdown{
			PeriodicOperatingSavings: operating,
			PeriodicAvoidedCost:      avoided,
			PeriodicTotalSavings:     periodic,
			ProjectedPeriodicCost:    baseline - operating,
			ThroughputMultiplier:     1 + efficiency,
		},
		TotalSavings:  totalSavings,
		NetBenefit:    netBenefit,
		ReturnRatio:   returnRatio,
		Payback:       payback,
		PaybackMonths: paybackMonths,
	}
}
