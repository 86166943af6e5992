package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/patrickward/markpad/internal/contentutil"
	"github.com/patrickward/markpad/internal/files"
	"github.com/patrickward/markpad/internal/findreplace"
	"github.com/patrickward/markpad/internal/rendering/highlight"
)

// staleSearchMessage is shown when the match set no longer fits the text.
const staleSearchMessage = "The document changed since the last search. Search again."

// findAction applies one find bar action to a session and returns the status
// message to show.
type findAction func(session *findreplace.Session, form findForm) (string, error)

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	s.runFind(w, r, func(session *findreplace.Session, form findForm) (string, error) {
		if form.Query == "" {
			session.Clear()
			return "", nil
		}
		if err := session.Search(form.Spec()); err != nil {
			return "", err
		}
		return findreplace.StatusFound(session.Matches().Len()), nil
	})
}

func (s *Server) handleFindNext(w http.ResponseWriter, r *http.Request) {
	s.runFind(w, r, func(session *findreplace.Session, form findForm) (string, error) {
		if changed, err := syncSpec(session, form); err != nil || changed {
			return findreplace.StatusFound(session.Matches().Len()), err
		}
		return "", session.Next()
	})
}

func (s *Server) handleFindPrevious(w http.ResponseWriter, r *http.Request) {
	s.runFind(w, r, func(session *findreplace.Session, form findForm) (string, error) {
		if changed, err := syncSpec(session, form); err != nil || changed {
			return findreplace.StatusFound(session.Matches().Len()), err
		}
		return "", session.Previous()
	})
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	s.runFind(w, r, func(session *findreplace.Session, form findForm) (string, error) {
		if _, err := syncSpec(session, form); err != nil {
			return "", err
		}

		replaced, err := session.Replace(form.Replacement)
		if err != nil {
			return "", err
		}
		if !replaced {
			return findreplace.StatusFound(0), nil
		}
		return findreplace.StatusReplaced(1), nil
	})
}

func (s *Server) handleReplaceAll(w http.ResponseWriter, r *http.Request) {
	s.runFind(w, r, func(session *findreplace.Session, form findForm) (string, error) {
		if _, err := syncSpec(session, form); err != nil {
			return "", err
		}

		n, err := session.ReplaceAll(form.Replacement)
		if err != nil {
			return "", err
		}
		return findreplace.StatusReplaced(n), nil
	})
}

// syncSpec searches again when the find bar no longer matches the session's
// search. It reports whether a new search ran.
func syncSpec(session *findreplace.Session, form findForm) (bool, error) {
	if form.Query == "" {
		if session.Spec().IsEmpty() {
			return false, nil
		}
		session.Clear()
		return true, nil
	}
	if form.Spec() == session.Spec() {
		return false, nil
	}
	return true, session.Search(form.Spec())
}

// runFind resolves the document and session of the request, applies action
// and renders the editor. Text changed by the action is saved.
func (s *Server) runFind(w http.ResponseWriter, r *http.Request, action findAction) {
	doc, err := s.repo.GetDocument(r.PathValue("id"))
	if err != nil {
		s.showPageNotFound(w, r)
		return
	}

	form := parseFindForm(r)
	status := http.StatusOK
	saved := false

	var data PageData
	sessionID, err := s.sessions.Do(form.SessionID, doc.Info.ID, doc.Content, func(session *findreplace.Session) error {
		if form.HasContent {
			if content := contentutil.NormalizeLineEndings(form.Content); content != session.Text() {
				if err := session.SetText(content); err != nil {
					return err
				}
			}
		}

		before := session.Text()
		message, err := action(session, form)
		switch {
		case errors.Is(err, findreplace.ErrInvalidPattern):
			data = s.editorPageData(doc, session, form, findreplace.StatusInvalid(err))
			data.Find.Invalid = true
			data.Find.Position = ""
			if isHXRequest(r) {
				status = http.StatusUnprocessableEntity
			}
			return nil
		case errors.Is(err, findreplace.ErrIndexOutOfRange), errors.Is(err, findreplace.ErrStaleMatchSet):
			log.Printf("Discarding search on %s: %v", doc.Info.ID, err)
			session.Clear()
			data = s.editorPageData(doc, session, form, staleSearchMessage)
			status = http.StatusConflict
			return nil
		case err != nil:
			return err
		}

		if session.Text() != before {
			if err := doc.Save(session.Text()); err != nil {
				return err
			}
			saved = true
		}

		data = s.editorPageData(doc, session, form, message)
		return nil
	})
	if err != nil {
		s.showServerError(w, r, err)
		return
	}

	if saved {
		s.sessions.InvalidateDocument(doc.Info.ID)
	}

	data.Find.SessionID = sessionID
	s.renderEditor(w, r, data, status)
}

// renderEditor writes the editor panel for HX requests and the full edit
// page otherwise.
func (s *Server) renderEditor(w http.ResponseWriter, r *http.Request, data PageData, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	var err error
	if isHXRequest(r) {
		err = s.executeSnippet(w, "editor_panel.html", data)
	} else {
		err = s.executePage(w, "edit.html", data)
	}
	if err != nil {
		log.Printf("Error rendering editor for %s: %v", data.CurrentFile.ID, err)
	}
}

// editorPageData builds the editor page for the current state of session.
// The find bar echoes form; message is the outcome of the last action.
func (s *Server) editorPageData(doc *files.Document, session *findreplace.Session, form findForm, message string) PageData {
	text := session.Text()
	cursor := session.Cursor()
	rendered := s.renderer.RenderWithMatches(text, session.Matches(), cursor)

	data := PageData{
		Title:          "Edit - " + doc.Info.Title,
		CurrentFile:    doc.Info,
		Content:        rendered.HTML,
		RawContent:     text,
		SectionHeaders: rendered.SectionHeaders,
		IsEditing:      true,
		Stats:          contentutil.Stats(text, s.config.Editor.MaxChars),
		Find: FindData{
			Query:         form.Query,
			Replacement:   form.Replacement,
			CaseSensitive: form.Case,
			WholeWord:     form.Word,
			IsRegex:       form.Regex,
			Position:      session.Status(),
			Message:       message,
			Total:         session.Matches().Len(),
		},
	}

	if !cursor.IsNone() {
		data.Find.TargetAnchor = highlight.AnchorID(int(cursor))
	}

	return data
}

// parseFindForm reads the find bar fields. Checkboxes are on when present.
func parseFindForm(r *http.Request) findForm {
	_ = r.ParseForm()

	content, hasContent := r.PostForm["content"]
	form := findForm{
		SessionID:   r.PostFormValue("session"),
		Query:       r.PostFormValue("q"),
		Replacement: r.PostFormValue("replacement"),
		Case:        r.PostFormValue("case") != "",
		Word:        r.PostFormValue("word") != "",
		Regex:       r.PostFormValue("regex") != "",
		HasContent:  hasContent,
	}
	if hasContent && len(content) > 0 {
		form.Content = content[0]
	}

	return form
}
