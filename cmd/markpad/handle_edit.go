package main

import (
	"errors"
	"net/http"

	"github.com/patrickward/markpad/internal/findreplace"
)

// handleEdit opens the editor on a fresh session. A q parameter starts a
// search with the configured default options.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	doc, err := s.repo.GetDocument(r.PathValue("id"))
	if err != nil {
		s.showPageNotFound(w, r)
		return
	}

	form := findForm{
		Query: r.URL.Query().Get("q"),
		Case:  s.config.Search.CaseSensitive,
		Word:  s.config.Search.WholeWord,
		Regex: s.config.Search.Regex,
	}

	var data PageData
	sessionID, err := s.sessions.Do("", doc.Info.ID, doc.Content, func(session *findreplace.Session) error {
		message := ""
		if form.Query != "" {
			err := session.Search(form.Spec())
			if errors.Is(err, findreplace.ErrInvalidPattern) {
				data = s.editorPageData(doc, session, form, findreplace.StatusInvalid(err))
				data.Find.Invalid = true
				return nil
			}
			if err != nil {
				return err
			}
			message = findreplace.StatusFound(session.Matches().Len())
		}

		data = s.editorPageData(doc, session, form, message)
		return nil
	})
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	data.Find.SessionID = sessionID
	s.addFlash(w, r, &data)

	if err := s.executePage(w, "edit.html", data); err != nil {
		s.showServerError(w, r, err)
	}
}
