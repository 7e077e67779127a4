package main

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Simplici0/roi-sandbox/internal/report"
	"github.com/Simplici0/roi-sandbox/internal/roi"
)

// parseInputs reads calculator inputs from a form or query string. It never
// fails: unknown presets and non-numeric values fall back to defaults and are
// reported as notices. The returned values are applied over the returned base
// with roi.Apply so range adjustments are reported against what was sent.
func parseInputs(values url.Values) (roi.Inputs, map[string]float64, []string) {
	base := roi.Defaults()
	notices := make([]string, 0)

	if key := strings.TrimSpace(values.Get("preset")); key != "" {
		preset, ok := roi.PresetByKey(key)
		if ok {
			base = preset.Inputs
		} else {
			notices = append(notices, fmt.Sprintf("Unknown preset %q; using defaults.", key))
		}
	}

	parsed := make(map[string]float64)
	for _, f := range roi.Fields() {
		raw := strings.TrimSpace(values.Get(f.Key))
		if raw == "" {
			continue
		}

		value, err := parseFieldValue(raw, f)
		if err != nil {
			notices = append(notices, fmt.Sprintf("%s: %v; using %s.", f.Label, err, report.Input(f, f.Default)))
			value = f.Default
		}
		parsed[f.Key] = value
	}

	return base, parsed, notices
}

// computeForm parses values and evaluates them with the server's model.
// Notices cover parse fallbacks followed by range adjustments.
func (s *server) computeForm(values url.Values) (roi.Result, []string) {
	base, parsed, notices := parseInputs(values)
	result, _ := s.model.ComputeValues(base, parsed)
	return result, append(notices, adjustmentNotices(result.Adjustments)...)
}

// parseFieldValue accepts plain numbers plus the decorations people paste:
// thousands separators, a leading $, or a trailing % on fractions.
func parseFieldValue(raw string, f roi.Field) (float64, error) {
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(raw)

	percent := false
	if f.Kind == roi.KindFraction && strings.HasSuffix(cleaned, "%") {
		cleaned = strings.TrimSuffix(cleaned, "%")
		percent = true
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if percent {
		value /= 100
	}
	return value, nil
}

// adjustmentNotices describes every input the engine clamped.
func adjustmentNotices(adjustments []roi.Adjustment) []string {
	notices := make([]string, 0, len(adjustments))
	for _, a := range adjustments {
		f, ok := roi.FieldByKey(a.Field)
		if !ok {
			continue
		}
		notices = append(notices, fmt.Sprintf("%s adjusted from %s to %s (valid range %s to %s).",
			f.Label,
			formatGiven(f, a.Given),
			report.Input(f, a.Used),
			report.Input(f, f.Min),
			report.Input(f, f.Max),
		))
	}
	return notices
}

// formatGiven shows a rejected value as sent. Periods print in full so a
// rounded horizon reads 2.5 rather than 2.
func formatGiven(f roi.Field, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || f.Kind == roi.KindPeriods {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return report.Input(f, v)
}

// encodeInputs writes inputs back as form values for links such as exports.
func encodeInputs(in roi.Inputs) url.Values {
	values := url.Values{}
	for _, f := range roi.Fields() {
		v, _ := in.Get(f.Key)
		values.Set(f.Key, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return values
}
