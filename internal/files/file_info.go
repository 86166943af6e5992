package files

import (
	"strings"
	"time"
)

// FileInfo represents metadata about a markdown document
type FileInfo struct {
	ID        string    // URL-safe ID, the path without extension
	Path      string    // Path relative to the data directory, slash separated
	Title     string    // Title cased path, including directories
	TitleBase string    // Title cased file name without directories
	Directory string    // Parent directory, empty at the root
	Depth     int       // Number of directories above the file
	ModTime   time.Time // Last modification time at scan
	Size      int64
}

// PathParts returns the file path parts
func (f FileInfo) PathParts() []string {
	return strings.Split(f.Path, "/")
}

func (f FileInfo) IsEmpty() bool {
	return f.ID == ""
}
