package contentutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase converts s to English title case.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// NormalizeLineEndings converts CRLF and lone CR line endings to LF.
func NormalizeLineEndings(content string) string {
	// Replace Windows CRLF
	content = strings.ReplaceAll(content, "\r\n", "\n")

	// Replace legacy Mac CR
	content = strings.ReplaceAll(content, "\r", "\n")
	return content
}

// SplitLines splits a string into lines, normalizing line endings.
func SplitLines(content string) []string {
	return strings.Split(NormalizeLineEndings(content), "\n")
}

// TextStats is the character counter shown under the editor.
type TextStats struct {
	Characters int
	Words      int
	Lines      int
	Limit      int
}

// OverLimit reports whether the character count exceeds a positive limit.
func (s TextStats) OverLimit() bool {
	return s.Limit > 0 && s.Characters > s.Limit
}

// Stats counts characters (runes), words and lines in content.
func Stats(content string, limit int) TextStats {
	stats := TextStats{
		Characters: utf8.RuneCountInString(content),
		Words:      len(strings.Fields(content)),
		Limit:      limit,
	}
	if content != "" {
		stats.Lines = strings.Count(content, "\n") + 1
	}
	return stats
}
