package main

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/patrickward/markpad"
)

func parseTemplates() (*template.Template, error) {
	return template.New("").ParseFS(markpad.TemplateFS,
		"templates/layouts/*.html",
		"templates/partials/*.html",
	)
}

// executePage renders a full page template with the given data
func (s *Server) executePage(w http.ResponseWriter, page string, data PageData) error {
	return s.execute(w, "pages", page, data)
}

// executeSnippet renders a snippet template (no layout) with the given data
func (s *Server) executeSnippet(w http.ResponseWriter, snippet string, data any) error {
	return s.execute(w, "snippets", snippet, data)
}

func (s *Server) execute(w http.ResponseWriter, dir, name string, data any) error {
	// Clone the base template to avoid altering it
	tmpl, err := s.baseTempl.Clone()
	if err != nil {
		return err
	}

	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}

	tmpl, err = tmpl.ParseFS(markpad.TemplateFS, fmt.Sprintf("templates/%s/%s", dir, name))
	if err != nil {
		return err
	}

	return tmpl.ExecuteTemplate(w, name, data)
}
