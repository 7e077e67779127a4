package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Simplici0/roi-sandbox/internal/report"
	"github.com/Simplici0/roi-sandbox/internal/roi"
)

const maxRequestBody = 64 << 10

var errTrailingData = errors.New("trailing data after request body")

type computeResponse struct {
	Result        roi.Result        `json:"result"`
	Display       map[string]string `json:"display"`
	InputsDisplay map[string]string `json:"inputs_display"`
	Notices       []string          `json:"notices"`
	Query         string            `json:"query"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeBody reads exactly one JSON value from a size-limited body. Anything
// but whitespace after the value is an error.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errTrailingData
		}
		return err
	}
	return nil
}

func (s *server) handleAPIFields(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, roi.Fields())
}

func (s *server) handleAPIPresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, roi.Presets())
}

// handleAPICompute takes a JSON object of field key to number. Missing fields
// keep their defaults; out-of-range values are clamped and reported.
func (s *server) handleAPICompute(w http.ResponseWriter, r *http.Request) {
	var body map[string]float64
	if err := decodeBody(w, r, &body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, unknown := s.model.ComputeValues(roi.Defaults(), body)

	notices := make([]string, 0, len(unknown)+len(result.Adjustments))
	for _, key := range unknown {
		notices = append(notices, fmt.Sprintf("Unknown field %q ignored.", key))
	}
	notices = append(notices, adjustmentNotices(result.Adjustments)...)

	resp := computeResponse{
		Result:        result,
		Display:       make(map[string]string),
		InputsDisplay: make(map[string]string),
		Notices:       notices,
		Query:         encodeInputs(result.Inputs).Encode(),
	}
	for _, row := range report.Rows(result) {
		if _, isInput := roi.FieldByKey(row.Key); isInput {
			resp.InputsDisplay[row.Key] = row.Value
		} else {
			resp.Display[row.Key] = row.Value
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *server) handleAPISensitivity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, _ := s.computeForm(query)

	lever := roi.Lever(query.Get("lever"))
	if lever == "" {
		lever = roi.LeverLaborSubstitution
	}

	sweep, err := s.model.Sweep(result.Inputs, lever, parseSteps(query.Get("steps")))
	if errors.Is(err, roi.ErrUnknownLever) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown lever %q", lever))
		return
	}
	if err != nil {
		zap.L().Error("sensitivity sweep", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to compute sensitivity")
		return
	}

	respondJSON(w, http.StatusOK, sweep)
}
