package contentutil

import (
	"strings"
)

type FrontmatterBounds struct {
	Start int
	End   int
	Found bool
}

// FindFrontmatter finds the bounds of the frontmatter section in the given lines
func FindFrontmatter(lines []string) FrontmatterBounds {
	if len(lines) == 0 {
		return FrontmatterBounds{}
	}

	// Skip any blank lines at the start
	startIdx := 0
	for startIdx < len(lines) && strings.TrimSpace(lines[startIdx]) == "" {
		startIdx++
	}

	if startIdx >= len(lines) || strings.TrimSpace(lines[startIdx]) != "---" {
		return FrontmatterBounds{}
	}

	for i := startIdx + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return FrontmatterBounds{
				Start: startIdx,
				End:   i + 1,
				Found: true,
			}
		}
	}

	// No closing delimiter
	return FrontmatterBounds{}
}

// FrontmatterValue returns the raw value of a top-level "key: value" line in
// the frontmatter of content.
func FrontmatterValue(content, key string) (string, bool) {
	lines := SplitLines(content)
	bounds := FindFrontmatter(lines)
	if !bounds.Found {
		return "", false
	}

	prefix := key + ":"
	for i := bounds.Start + 1; i < bounds.End-1; i++ {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}

	return "", false
}
