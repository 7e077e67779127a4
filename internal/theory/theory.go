// Package theory serves the slide-to-framework documents that accompany the
// calculator. The documents are static markdown embedded in the binary.
package theory

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed docs/*.md
var docsFS embed.FS

// ErrNotFound is returned for an unknown document slug.
var ErrNotFound = errors.New("theory: document not found")

// Document is one rendered markdown file.
type Document struct {
	Slug  string
	Title string
	HTML  template.HTML
}

// order follows the slide deck.
var order = []string{
	"value-proposition-map",
	"strategic-challenges-map",
	"frameworks",
}

// Library renders the embedded documents once and serves them from memory.
type Library struct {
	docs []Document
}

// NewLibrary renders every embedded document.
func NewLibrary() (*Library, error) {
	return newLibrary(docsFS, "docs")
}

func newLibrary(fsys fs.FS, dir string) (*Library, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, eris.Wrap(err, "theory: read docs dir")
	}

	bySlug := make(map[string]Document, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, eris.Wrapf(err, "theory: read %s", entry.Name())
		}

		var buf bytes.Buffer
		if err := md.Convert(raw, &buf); err != nil {
			return nil, eris.Wrapf(err, "theory: render %s", entry.Name())
		}

		slug := strings.TrimSuffix(entry.Name(), ".md")
		bySlug[slug] = Document{
			Slug:  slug,
			Title: titleOf(raw, slug),
			// Content comes from files compiled into the binary.
			HTML: template.HTML(buf.String()),
		}
	}

	lib := &Library{docs: make([]Document, 0, len(bySlug))}
	for _, slug := range order {
		if doc, ok := bySlug[slug]; ok {
			lib.docs = append(lib.docs, doc)
			delete(bySlug, slug)
		}
	}
	for _, entry := range entries {
		if doc, ok := bySlug[strings.TrimSuffix(entry.Name(), ".md")]; ok {
			lib.docs = append(lib.docs, doc)
		}
	}

	return lib, nil
}

// Documents returns all documents in display order.
func (l *Library) Documents() []Document {
	out := make([]Document, len(l.docs))
	copy(out, l.docs)
	return out
}

// Get returns the document with the given slug.
func (l *Library) Get(slug string) (Document, error) {
	for _, doc := range l.docs {
		if doc.Slug == slug {
			return doc, nil
		}
	}
	return Document{}, ErrNotFound
}

func titleOf(raw []byte, fallback string) string {
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}
