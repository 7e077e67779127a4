package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Simplici0/roi-sandbox/internal/roi"
)

var printer = message.NewPrinter(language.English)

// Money formats a currency amount as whole dollars with thousands separators.
func Money(v float64) string {
	if v < 0 {
		return "-" + printer.Sprintf("$%.0f", -v)
	}
	return printer.Sprintf("$%.0f", v)
}

// Percent formats a fraction as a percentage.
func Percent(v float64) string {
	return printer.Sprintf("%.1f%%", v*100)
}

// Ratio formats a return ratio as a multiple, or its fallback label.
func Ratio(m roi.Metric) string {
	if !m.Defined {
		return m.Fallback
	}
	return printer.Sprintf("%.2fx", m.Value)
}

// Periods formats a payback in periods, or its fallback label.
func Periods(m roi.Metric) string {
	if !m.Defined {
		return m.Fallback
	}
	return printer.Sprintf("%.2f periods", m.Value)
}

// Months formats a payback in months, or its fallback label.
func Months(m roi.Metric) string {
	if !m.Defined {
		return m.Fallback
	}
	return printer.Sprintf("%.1f months", m.Value)
}

// Input formats an input value according to its field kind.
func Input(f roi.Field, v float64) string {
	switch f.Kind {
	case roi.KindCurrency:
		return Money(v)
	case roi.KindFraction:
		return Percent(v)
	}
	return printer.Sprintf("%.0f", v)
}
