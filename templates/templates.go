// Package templates holds the HTML pages served at /, /search and
// /notesperuser. The pages call the JSON endpoints from the browser.
package templates

import (
	"embed"
	"html/template"
	"io"
)

const (
	CreatePage = "create_page"
	SearchPage = "search_page"
	UserPage   = "user_page"
)

//go:embed pages/*.html
var pages embed.FS

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(pages, "pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

type pageData struct {
	Title string
}

var titles = map[string]string{
	CreatePage: "Create a note",
	SearchPage: "Find notes by tag",
	UserPage:   "Notes per user",
}

func (r *Renderer) Render(w io.Writer, page string) error {
	return r.tmpl.ExecuteTemplate(w, page, pageData{Title: titles[page]})
}
