package main

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/roi-sandbox/internal/report"
	"github.com/Simplici0/roi-sandbox/internal/roi"
	"github.com/Simplici0/roi-sandbox/internal/theory"
)

const (
	exportBaseName = "security_plus_roi_results"
	xlsxMediaType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type baseViewData struct {
	Active         string
	ErrorMessage   string
	SuccessMessage string
}

type fieldView struct {
	roi.Field
	Value   float64
	Display string
	Widget  string
}

type calculatorViewData struct {
	baseViewData
	Fields            []fieldView
	Outputs           []report.Row
	Notices           []string
	Presets           []roi.Preset
	ExportCSV         template.URL
	ExportXLSX        template.URL
	AvoidedCostWeight float64
}

type leverOption struct {
	Key      string
	Label    string
	Selected bool
}

type hiddenInput struct {
	Key   string
	Value string
}

type sweepRow struct {
	X            string
	TotalSavings string
	NetBenefit   string
	ReturnRatio  string
	Payback      string
}

type sensitivityViewData struct {
	baseViewData
	Levers     []leverOption
	LeverLabel string
	Steps      int
	MinSteps   int
	MaxSteps   int
	Hidden     []hiddenInput
	Points     []sweepRow
	Chart      sweepChart
}

type theoryViewData struct {
	baseViewData
	Index     []theory.Document
	Documents []theory.Document
}

type aboutViewData struct {
	baseViewData
	AvoidedCostWeight float64
}

func (s *server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	result, notices := s.computeForm(r.URL.Query())
	s.renderCalculator(w, result, notices)
}

func (s *server) handleCalculatorSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	result, notices := s.computeForm(r.PostForm)
	s.renderCalculator(w, result, notices)
}

func (s *server) renderCalculator(w http.ResponseWriter, result roi.Result, notices []string) {
	query := encodeInputs(result.Inputs).Encode()
	s.views.render(w, http.StatusOK, "calculator.html", calculatorViewData{
		baseViewData:      baseViewData{Active: "calculator"},
		Fields:            fieldViews(result.Inputs),
		Outputs:           outputRows(result),
		Notices:           notices,
		Presets:           roi.Presets(),
		ExportCSV:         template.URL("/export.csv?" + query),
		ExportXLSX:        template.URL("/export.xlsx?" + query),
		AvoidedCostWeight: s.model.AvoidedCostWeight,
	})
}

func (s *server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, notices := s.computeForm(query)
	in := result.Inputs

	lever := roi.Lever(query.Get("lever"))
	if lever == "" {
		lever = roi.LeverLaborSubstitution
	}
	steps := parseSteps(query.Get("steps"))

	sweep, err := s.model.Sweep(in, lever, steps)
	if errors.Is(err, roi.ErrUnknownLever) {
		notices = append(notices, "Unknown lever; showing labor substitution rate.")
		lever = roi.LeverLaborSubstitution
		sweep, err = s.model.Sweep(in, lever, steps)
	}
	if err != nil {
		zap.L().Error("sensitivity sweep", zap.Error(err))
		http.Error(w, "failed to compute sensitivity", http.StatusInternalServerError)
		return
	}

	field, _ := roi.FieldByKey(string(lever))
	levers := make([]leverOption, 0, len(roi.Levers()))
	for _, l := range roi.Levers() {
		levers = append(levers, leverOption{Key: string(l), Label: l.Label(), Selected: l == lever})
	}

	encoded := encodeInputs(sweep.Base)
	hidden := make([]hiddenInput, 0, len(encoded))
	for _, f := range roi.Fields() {
		hidden = append(hidden, hiddenInput{Key: f.Key, Value: encoded.Get(f.Key)})
	}

	points := make([]sweepRow, 0, len(sweep.Points))
	for _, p := range sweep.Points {
		points = append(points, sweepRow{
			X:            report.Input(field, p.X),
			TotalSavings: report.Money(p.TotalSavings),
			NetBenefit:   report.Money(p.NetBenefit),
			ReturnRatio:  report.Ratio(p.ReturnRatio),
			Payback:      report.Periods(p.Payback),
		})
	}

	data := sensitivityViewData{
		baseViewData: baseViewData{Active: "sensitivity"},
		Levers:       levers,
		LeverLabel:   lever.Label(),
		Steps:        len(sweep.Points),
		MinSteps:     roi.MinSweepSteps,
		MaxSteps:     roi.MaxSweepSteps,
		Hidden:       hidden,
		Points:       points,
		Chart:        newSweepChart(sweep),
	}
	if len(notices) > 0 {
		data.ErrorMessage = notices[0]
	}
	s.views.render(w, http.StatusOK, "sensitivity.html", data)
}

func (s *server) handleTheory(w http.ResponseWriter, r *http.Request) {
	docs := s.library.Documents()
	s.views.render(w, http.StatusOK, "theory.html", theoryViewData{
		baseViewData: baseViewData{Active: "theory"},
		Index:        docs,
		Documents:    docs,
	})
}

func (s *server) handleTheoryDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.library.Get(chi.URLParam(r, "slug"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.views.render(w, http.StatusOK, "theory.html", theoryViewData{
		baseViewData: baseViewData{Active: "theory"},
		Index:        s.library.Documents(),
		Documents:    []theory.Document{doc},
	})
}

func (s *server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.views.render(w, http.StatusOK, "about.html", aboutViewData{
		baseViewData:      baseViewData{Active: "about"},
		AvoidedCostWeight: s.model.AvoidedCostWeight,
	})
}

func (s *server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	result, _ := s.computeForm(r.URL.Query())

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, result); err != nil {
		zap.L().Error("export csv", zap.Error(err))
		http.Error(w, "failed to export results", http.StatusInternalServerError)
		return
	}

	writeAttachment(w, "text/csv; charset=utf-8", exportBaseName+".csv", buf.Bytes())
}

func (s *server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	result, _ := s.computeForm(r.URL.Query())

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, result); err != nil {
		zap.L().Error("export xlsx", zap.Error(err))
		http.Error(w, "failed to export results", http.StatusInternalServerError)
		return
	}

	writeAttachment(w, xlsxMediaType, exportBaseName+".xlsx", buf.Bytes())
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func fieldViews(in roi.Inputs) []fieldView {
	fields := roi.Fields()
	views := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		v, _ := in.Get(f.Key)
		widget := "number"
		if f.Kind == roi.KindFraction {
			widget = "range"
		}
		views = append(views, fieldView{Field: f, Value: v, Display: report.Input(f, v), Widget: widget})
	}
	return views
}

func outputRows(result roi.Result) []report.Row {
	rows := report.Rows(result)
	outputs := make([]report.Row, 0, len(rows))
	for _, row := range rows {
		if _, isInput := roi.FieldByKey(row.Key); !isInput {
			outputs = append(outputs, row)
		}
	}
	return outputs
}

func parseSteps(raw string) int {
	if raw == "" {
		return roi.DefaultSweepSteps
	}
	steps, err := strconv.Atoi(raw)
	if err != nil {
		return roi.DefaultSweepSteps
	}
	return roi.ClampSteps(steps)
}
