package roi

// Preset is a named starting scenario.
type Preset struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Inputs Inputs `json:"inputs"`
}

// Presets returns the built-in scenarios. Substitution rates are the labor
// share of cost multiplied by the manpower reduction.
func Presets() []Preset {
	mall := Defaults()
	mall.LaborSubstitutionRate = 0.80 * 0.20
	mall.EfficiencyGain = 0.25
	mall.TechnologyInvestment = 600_000

	precinct := Defaults()
	precinct.LaborSubstitutionRate = 0.78 * 0.18
	precinct.EfficiencyGain = 0.25
	precinct.TechnologyInvestment = 750_000

	return []Preset{
		{Key: "default", Name: "Case narrative", Inputs: Defaults()},
		{Key: "mall", Name: "Mall / Jewel-ish", Inputs: mall},
		{Key: "precinct", Name: "Precinct / JTC-ish", Inputs: precinct},
	}
}

// PresetByKey looks up a preset.
func PresetByKey(key string) (Preset, bool) {
	for _, p := range Presets() {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}
