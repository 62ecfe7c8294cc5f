// Package render turns view-models into HTML pages and fragments, or plain
// text for the terminal. All text goes through html/template's contextual
// escaping, so filenames, answers and excerpts are never live markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/akolanti/DocQA/internal/domain/viewModel"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Renderer struct {
	templates *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

func (r *Renderer) Page(w io.Writer, page viewModel.PageView) error {
	return r.execute(w, "page", page)
}

func (r *Renderer) Documents(w io.Writer, documents viewModel.DocumentsView) error {
	return r.execute(w, "documents", documents)
}

func (r *Renderer) Results(w io.Writer, results viewModel.ResultsView) error {
	return r.execute(w, "results", results)
}

func (r *Renderer) ConfirmDelete(w io.Writer, view viewModel.ConfirmDeleteView) error {
	return r.execute(w, "confirm", view)
}

// execute renders into a buffer first so a template error never leaves half
// a page on the wire.
func (r *Renderer) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
