package main

import (
	"fmt"
	"net/http"
	"strings"
)

// reservedIDs are top-level paths owned by other routes.
var reservedIDs = map[string]bool{
	"documents":   true,
	"edit":        true,
	"find":        true,
	"find-next":   true,
	"find-prev":   true,
	"replace":     true,
	"replace-all": true,
	"static":      true,
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := PageData{
		Title: "Documents",
		Files: s.repo.Files(),
	}
	s.addFlash(w, r, &data)

	if err := s.executePage(w, "index.html", data); err != nil {
		s.showServerError(w, r, err)
	}
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		s.flashManager.SetError(w, "A document title is required")
		s.redirectTo(w, r, "/")
		return
	}

	id := s.repo.CreateID(title)
	if first, _, _ := strings.Cut(id, "/"); reservedIDs[first] {
		s.flashManager.SetError(w, fmt.Sprintf("%q is a reserved name", first))
		s.redirectTo(w, r, "/")
		return
	}

	doc, err := s.repo.CreateDocument(title)
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	s.redirectTo(w, r, "/edit/"+doc.Info.ID)
}
