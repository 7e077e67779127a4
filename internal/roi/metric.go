package roi

import (
	"encoding/json"
	"math"
	"strconv"
)

// Metric is a division-guarded output. When Defined is false, Value is zero
// and Fallback names why ("undefined" or "never").
type Metric struct {
	Value    float64
	Defined  bool
	Fallback string
}

func definedMetric(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return undefinedMetric(fallbackUndefined)
	}
	return Metric{Value: v, Defined: true}
}

func undefinedMetric(fallback string) Metric {
	return Metric{Fallback: fallback}
}

// Format renders the value with the given number of decimals, or the
// fallback label when the metric is undefined.
func (m Metric) Format(decimals int) string {
	if !m.Defined {
		return m.Fallback
	}
	return strconv.FormatFloat(m.Value, 'f', decimals, 64)
}

func (m Metric) String() string {
	return m.Format(2)
}

type metricJSON struct {
	Value   *float64 `json:"value"`
	Defined bool     `json:"defined"`
	Label   string   `json:"label,omitempty"`
}

// MarshalJSON encodes undefined metrics with a null value and their label.
func (m Metric) MarshalJSON() ([]byte, error) {
	out := metricJSON{Defined: m.Defined}
	if m.Defined {
		v := m.Value
		out.Value = &v
	} else {
		out.Label = m.Fallback
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var in metricJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*m = Metric{Defined: in.Defined && in.Value != nil, Fallback: in.Label}
	if m.Defined {
		m.Value = *in.Value
		m.Fallback = ""
	}
	return nil
}
