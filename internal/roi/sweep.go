package roi

import (
	"errors"
	"math"
)

const (
	MinSweepSteps     = 2
	MaxSweepSteps     = 50
	DefaultSweepSteps = 15

	// Rate levers sweep 0–40%, the range used in the classroom deck.
	rateSweepMax = 0.40

	minInvestmentSweepRange = 1_000_000
)

// ErrUnknownLever is returned for a lever Sweep cannot vary.
var ErrUnknownLever = errors.New("roi: unknown sweep lever")

// Lever names an input varied by a sensitivity sweep.
type Lever string

const (
	LeverLaborSubstitution    Lever = FieldLaborSubstitutionRate
	LeverEfficiencyGain       Lever = FieldEfficiencyGain
	LeverErrorReduction       Lever = FieldErrorReductionRate
	LeverTechnologyInvestment Lever = FieldTechnologyInvestment
)

// Levers lists the sweepable inputs.
func Levers() []Lever {
	return []Lever{
		LeverLaborSubstitution,
		LeverEfficiencyGain,
		LeverErrorReduction,
		LeverTechnologyInvestment,
	}
}

// Label returns the display label of the lever's field.
func (l Lever) Label() string {
	f, ok := FieldByKey(string(l))
	if !ok {
		return string(l)
	}
	return f.Label
}

// SweepPoint is one evaluation of a sweep.
type SweepPoint struct {
	X            float64 `json:"x"`
	TotalSavings float64 `json:"total_savings"`
	NetBenefit   float64 `json:"net_benefit"`
	ReturnRatio  Metric  `json:"return_ratio"`
	Payback      Metric  `json:"payback_periods"`
}

// Sweep is a one-lever sensitivity table.
type Sweep struct {
	Lever  Lever        `json:"lever"`
	Base   Inputs       `json:"base"`
	From   float64      `json:"from"`
	To     float64      `json:"to"`
	Points []SweepPoint `json:"points"`
}

// ClampSteps keeps a requested step count within the supported range.
func ClampSteps(steps int) int {
	switch {
	case steps < MinSweepSteps:
		return MinSweepSteps
	case steps > MaxSweepSteps:
		return MaxSweepSteps
	}
	return steps
}

// Sweep evaluates the model at evenly spaced values of one lever while every
// other input stays at base.
func (m Model) Sweep(base Inputs, lever Lever, steps int) (Sweep, error) {
	base, _ = Clamp(base)

	from, to, err := sweepRange(base, lever)
	if err != nil {
		return Sweep{}, err
	}

	steps = ClampSteps(steps)
	points := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		x := from + (to-from)*float64(i)/float64(steps-1)
		x = math.Round(x*1e6) / 1e6

		in := base
		in.Set(string(lever), x)
		r := m.Compute(in)
		points = append(points, SweepPoint{
			X:            x,
			TotalSavings: r.TotalSavings,
			NetBenefit:   r.NetBenefit,
			ReturnRatio:  r.ReturnRatio,
			Payback:      r.Payback,
		})
	}

	return Sweep{Lever: lever, Base: base, From: from, To: to, Points: points}, nil
}

func sweepRange(base Inputs, lever Lever) (float64, float64, error) {
	switch lever {
	case LeverLaborSubstitution, LeverEfficiencyGain, LeverErrorReduction:
		return 0, rateSweepMax, nil
	case LeverTechnologyInvestment:
		f, _ := FieldByKey(FieldTechnologyInvestment)
		to := math.Max(2*base.TechnologyInvestment, minInvestmentSweepRange)
		return 0, math.Min(to, f.Max), nil
	}
	return 0, 0, ErrUnknownLever
}
