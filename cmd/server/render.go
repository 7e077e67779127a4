package main

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Simplici0/roi-sandbox/internal/report"
)

const layoutTemplate = "layout.html"

var pages = []string{
	"calculator.html",
	"sensitivity.html",
	"theory.html",
	"about.html",
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(fsys fs.FS) (*renderer, error) {
	funcs := template.FuncMap{
		"raw": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		"money":   report.Money,
		"percent": report.Percent,
	}

	r := &renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New(layoutTemplate).Funcs(funcs).ParseFS(fsys, layoutTemplate, page)
		if err != nil {
			return nil, eris.Wrapf(err, "parse template %s", page)
		}
		r.pages[page] = t
	}
	return r, nil
}

// render executes into a buffer first so a template failure still yields a
// clean 500 instead of a half-written page.
func (r *renderer) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := r.pages[page]
	if !ok {
		zap.L().Error("unknown template", zap.String("page", page))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		zap.L().Error("render template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
