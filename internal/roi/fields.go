package roi

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Kind describes how a field is entered and displayed.
type Kind string

const (
	KindCurrency Kind = "currency"
	KindFraction Kind = "fraction"
	KindPeriods  Kind = "periods"
)

// Field keys, shared by forms, JSON and CLI flags.
const (
	FieldBaselineCost          = "baseline_cost"
	FieldTechnologyInvestment  = "technology_investment"
	FieldLaborSubstitutionRate = "labor_substitution_rate"
	FieldEfficiencyGain        = "efficiency_gain"
	FieldErrorReductionRate    = "error_reduction_rate"
	FieldTimeHorizon           = "time_horizon"
)

// Field declares the valid range and default of one input.
type Field struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Help    string  `json:"help"`
	Kind    Kind    `json:"kind"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Adjustment records an input that was replaced before computation. Given
// is the value as the caller sent it when the input went through Apply; a
// value assigned with Inputs.Set has already had its horizon rounded.
type Adjustment struct {
	Field string  `json:"field"`
	Given float64 `json:"given"`
	Used  float64 `json:"used"`
}

// MarshalJSON writes a non-finite given value as a string, since JSON has
// no NaN or Inf.
func (a Adjustment) MarshalJSON() ([]byte, error) {
	var given any = a.Given
	if math.IsNaN(a.Given) || math.IsInf(a.Given, 0) {
		given = strconv.FormatFloat(a.Given, 'g', -1, 64)
	}
	return json.Marshal(struct {
		Field string  `json:"field"`
		Given any     `json:"given"`
		Used  float64 `json:"used"`
	}{a.Field, given, a.Used})
}

var fields = []Field{
	{
		Key:     FieldBaselineCost,
		Label:   "Baseline cost per period ($)",
		Help:    "Current manual or legacy operating spend.",
		Kind:    KindCurrency,
		Min:     0,
		Max:     1e10,
		Default: 5_000_000,
		Step:    100_000,
	},
	{
		Key:     FieldTechnologyInvestment,
		Label:   "Technology investment ($)",
		Help:    "Platform plus change-management cost.",
		Kind:    KindCurrency,
		Min:     0,
		Max:     1e10,
		Default: 600_000,
		Step:    50_000,
	},
	{
		Key:     FieldLaborSubstitutionRate,
		Label:   "Labor substitution rate",
		Help:    "Share of baseline spend offset by technology.",
		Kind:    KindFraction,
		Min:     0,
		Max:     1,
		Default: 0.16,
		Step:    0.01,
	},
	{
		Key:     FieldEfficiencyGain,
		Label:   "Efficiency gain",
		Help:    "Productivity uplift on the remaining operating cost.",
		Kind:    KindFraction,
		Min:     0,
		Max:     1,
		Default: 0.25,
		Step:    0.01,
	},
	{
		Key:     FieldErrorReductionRate,
		Label:   "Error / incident reduction rate",
		Help:    "Share of incidents avoided.",
		Kind:    KindFraction,
		Min:     0,
		Max:     1,
		Default: 0.10,
		Step:    0.01,
	},
	{
		Key:     FieldTimeHorizon,
		Label:   "Time horizon (periods)",
		Help:    "Number of periods over which benefits accrue.",
		Kind:    KindPeriods,
		Min:     1,
		Max:     30,
		Default: 3,
		Step:    1,
	},
}

// Fields returns the input descriptors in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// FieldByKey looks up a descriptor.
func FieldByKey(key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns the session-start inputs.
func Defaults() Inputs {
	var in Inputs
	for _, f := range fields {
		in.Set(f.Key, f.Default)
	}
	return in
}

// Get returns the value of the named field as a float.
func (in Inputs) Get(key string) (float64, bool) {
	switch key {
	case FieldBaselineCost:
		return in.BaselineCost, true
	case FieldTechnologyInvestment:
		return in.TechnologyInvestment, true
	case FieldLaborSubstitutionRate:
		return in.LaborSubstitutionRate, true
	case FieldEfficiencyGain:
		return in.EfficiencyGain, true
	case FieldErrorReductionRate:
		return in.ErrorReductionRate, true
	case FieldTimeHorizon:
		return float64(in.TimeHorizon), true
	}
	return 0, false
}

// Set assigns the named field. The horizon is rounded to the nearest period
// and a NaN horizon takes the field default; neither is reported. Use Apply
// to have them recorded as adjustments.
func (in *Inputs) Set(key string, v float64) bool {
	switch key {
	case FieldBaselineCost:
		in.BaselineCost = v
	case FieldTechnologyInvestment:
		in.TechnologyInvestment = v
	case FieldLaborSubstitutionRate:
		in.LaborSubstitutionRate = v
	case FieldEfficiencyGain:
		in.EfficiencyGain = v
	case FieldErrorReductionRate:
		in.ErrorReductionRate = v
	case FieldTimeHorizon:
		in.TimeHorizon = horizonFromFloat(v)
	default:
		return false
	}
	return true
}

// Clamp moves every field into its declared range and reports what changed.
// NaN becomes the field default; infinities go to the nearest bound.
func Clamp(in Inputs) (Inputs, []Adjustment) {
	out := in
	adjustments := make([]Adjustment, 0)
	for _, f := range fields {
		given, _ := in.Get(f.Key)
		used := clampFloat(given, f.Min, f.Max, f.Default)
		if used != given {
			out.Set(f.Key, used)
			adjustments = append(adjustments, Adjustment{Field: f.Key, Given: given, Used: used})
		}
	}
	return out, adjustments
}

// Apply assigns caller-supplied values over base, clamping each one in its
// raw form so adjustments report what was sent. A horizon that is not a
// whole number of periods is rounded and reported. Unknown keys are returned
// sorted and otherwise ignored.
func Apply(base Inputs, values map[string]float64) (Inputs, []Adjustment, []string) {
	out := base
	adjustments := make([]Adjustment, 0)
	for _, f := range fields {
		given, ok := values[f.Key]
		if !ok {
			continue
		}
		used := clampFloat(given, f.Min, f.Max, f.Default)
		if f.Kind == KindPeriods {
			used = math.Round(used)
		}
		out.Set(f.Key, used)
		if used != given {
			adjustments = append(adjustments, Adjustment{Field: f.Key, Given: given, Used: used})
		}
	}

	unknown := make([]string, 0)
	for key := range values {
		if _, ok := FieldByKey(key); !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)

	return out, adjustments, unknown
}

func clampFloat(v, lo, hi, fallback float64) float64 {
	switch {
	case math.IsNaN(v):
		return fallback
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func horizonFromFloat(v float64) int {
	switch {
	case math.IsNaN(v):
		f, _ := FieldByKey(FieldTimeHorizon)
		return int(f.Default)
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(math.Round(v))
}
