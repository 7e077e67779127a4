// Package report flattens ROI results into labelled rows and exports them.
package report

import (
	"io"
	"strconv"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/Simplici0/roi-sandbox/internal/roi"
)

const (
	sectionInput  = "input"
	sectionOutput = "output"

	sheetName = "ROI"
)

// Row is one labelled line of an exported result. Raw is empty for
// undefined metrics.
type Row struct {
	Section string `csv:"section"`
	Key     string `csv:"key"`
	Label   string `csv:"label"`
	Value   string `csv:"value"`
	Raw     string `csv:"raw"`
}

// Rows lists the inputs used followed by every output of the result.
func Rows(r roi.Result) []Row {
	rows := make([]Row, 0, 16)
	for _, f := range roi.Fields() {
		v, _ := r.Inputs.Get(f.Key)
		rows = append(rows, Row{
			Section: sectionInput,
			Key:     f.Key,
			Label:   f.Label,
			Value:   Input(f, v),
			Raw:     raw(v),
		})
	}

	money := func(key, label string, v float64) Row {
		return Row{Section: sectionOutput, Key: key, Label: label, Value: Money(v), Raw: raw(v)}
	}
	metric := func(key, label string, m roi.Metric, format func(roi.Metric) string) Row {
		row := Row{Section: sectionOutput, Key: key, Label: label, Value: format(m)}
		if m.Defined {
			row.Raw = raw(m.Value)
		}
		return row
	}

	b := r.Breakdown
	rows = append(rows,
		money("periodic_operating_savings", "Operating savings per period", b.PeriodicOperatingSavings),
		money("periodic_avoided_cost", "Avoided incident cost per period", b.PeriodicAvoidedCost),
		money("periodic_total_savings", "Total savings per period", b.PeriodicTotalSavings),
		money("projected_periodic_cost", "Projected operating cost per period", b.ProjectedPeriodicCost),
		Row{
			Section: sectionOutput,
			Key:     "throughput_multiplier",
			Label:   "Throughput multiplier",
			Value:   printer.Sprintf("%.2fx", b.ThroughputMultiplier),
			Raw:     raw(b.ThroughputMultiplier),
		},
		money("total_savings", "Total savings over horizon", r.TotalSavings),
		money("net_benefit", "Net benefit", r.NetBenefit),
		metric("return_ratio", "Return ratio", r.ReturnRatio, Ratio),
		metric("payback_periods", "Payback period", r.Payback, Periods),
		metric("payback_months", "Payback (months)", r.PaybackMonths, Months),
	)
	return rows
}

// WriteCSV writes the result rows as CSV with a header line.
func WriteCSV(w io.Writer, r roi.Result) error {
	data, err := csvutil.Marshal(Rows(r))
	if err != nil {
		return eris.Wrap(err, "report: marshal csv")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "report: write csv")
	}
	return nil
}

// WriteXLSX writes the result rows as a single-sheet workbook. Numeric cells
// hold raw values so the sheet can be recalculated.
func WriteXLSX(w io.Writer, r roi.Result) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, title := range []string{"Section", "Metric", "Value", "Raw"} {
		header.AddCell().SetString(title)
	}

	for _, row := range Rows(r) {
		line := sheet.AddRow()
		line.AddCell().SetString(row.Section)
		line.AddCell().SetString(row.Label)
		line.AddCell().SetString(row.Value)
		rawCell := line.AddCell()
		if v, err := strconv.ParseFloat(row.Raw, 64); err == nil {
			rawCell.SetFloat(v)
		} else {
			rawCell.SetString(row.Raw)
		}
	}

	if err := file.Write(w); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}

func raw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
