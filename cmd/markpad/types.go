package main

import (
	"html/template"

	"github.com/patrickward/markpad/internal/contentutil"
	"github.com/patrickward/markpad/internal/files"
	"github.com/patrickward/markpad/internal/findreplace"
)

// PageData holds data passed to templates for rendering
type PageData struct {
	Title            string // Page title: frontmatter title, first H1, then the file name
	CurrentFile      files.FileInfo
	Files            []files.FileInfo
	Content          template.HTML
	RawContent       string
	SectionHeaders   []string
	IsEditing        bool
	Stats            contentutil.TextStats
	Find             FindData
	FlashMessage     string
	FlashMessageType string
	ErrorMessage     string
}

// FindData is the state of the find bar.
type FindData struct {
	SessionID     string
	Query         string
	Replacement   string
	CaseSensitive bool
	WholeWord     bool
	IsRegex       bool
	Position      string // "i/N" for the cursor, or the no-match line
	Message       string // Outcome of the last action
	Invalid       bool   // The query did not compile
	Total         int
	TargetAnchor  string // Element id of the match under the cursor
}

// findForm is the submitted find bar.
type findForm struct {
	SessionID   string
	Query       string
	Replacement string
	Case        bool
	Word        bool
	Regex       bool
	Content     string
	HasContent  bool
}

func (f findForm) Spec() findreplace.PatternSpec {
	return findreplace.PatternSpec{
		Query:         f.Query,
		CaseSensitive: f.Case,
		WholeWord:     f.Word,
		IsRegex:       f.Regex,
	}
}
