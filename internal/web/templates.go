package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/ornate/internal/collection"
	"github.com/erazemk/ornate/internal/model"
	webembed "github.com/erazemk/ornate/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"categories":  model.Categories,
		"outfitTypes": model.OutfitTypes,
		"join":        strings.Join,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2 Jan 2006")
		},
	}
}

// pages are rendered inside layout.html.
var pages = []string{"gallery.html", "item_form.html", "not_found.html"}

// LoadTemplates parses every page together with the layout.
func LoadTemplates() (*Templates, error) {
	ts := &Templates{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(FuncMap()).ParseFS(webembed.Templates, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		ts.templates[page] = tmpl
	}
	return ts, nil
}

// Render executes the named page into a buffer and writes it with status.
// A template failure produces a bare 500 instead of a half-written page.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		slog.Error("unknown template", "template", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Banner  string
	Loading bool
}

func pageData(title string, st collection.State) PageData {
	return PageData{Title: title, Banner: st.Error, Loading: st.Loading}
}

// Server holds all dependencies for page handlers.
type Server struct {
	Store     *collection.Store
	Uploader  Uploader
	Templates *Templates
	Timeout   time.Duration
}
