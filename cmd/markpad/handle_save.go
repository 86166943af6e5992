package main

import (
	"net/http"

	"github.com/patrickward/markpad/internal/contentutil"
)

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	doc, err := s.repo.GetDocument(r.PathValue("id"))
	if err != nil {
		s.showPageNotFound(w, r)
		return
	}

	content := contentutil.NormalizeLineEndings(r.FormValue("content"))
	if err = doc.Save(content); err != nil {
		s.showServerError(w, r, err)
		return
	}
	s.sessions.InvalidateDocument(doc.Info.ID)

	stats := contentutil.Stats(content, s.config.Editor.MaxChars)
	if stats.OverLimit() {
		s.flashManager.SetInfo(w, "File saved. Text exceeds the character limit.")
	} else {
		s.flashManager.SetSuccess(w, "File saved successfully")
	}
	s.redirectTo(w, r, "/"+doc.Info.ID)
}
