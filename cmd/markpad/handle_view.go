package main

import (
	"net/http"

	"github.com/patrickward/markpad/internal/contentutil"
)

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	doc, err := s.repo.GetDocument(r.PathValue("id"))
	if err != nil {
		s.showPageNotFound(w, r)
		return
	}

	content, err := doc.Content()
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	rendered := s.renderer.Render(content)
	if rendered.Title == "" {
		rendered.Title = doc.Info.Title
	}

	data := PageData{
		Title:          rendered.Title,
		CurrentFile:    doc.Info,
		Content:        rendered.HTML,
		RawContent:     content,
		SectionHeaders: rendered.SectionHeaders,
		Stats:          contentutil.Stats(content, s.config.Editor.MaxChars),
	}
	s.addFlash(w, r, &data)

	if err := s.executePage(w, "view.html", data); err != nil {
		s.showServerError(w, r, err)
	}
}
