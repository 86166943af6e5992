package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// RootManager provides safe filesystem operations within a specific directory using os.Root
type RootManager struct {
	path string
}

// NewRootManager creates a new RootManager for the given directory path
func NewRootManager(path string) (*RootManager, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	// Test that we can open the directory as a root
	testRoot, err := os.OpenRoot(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory as root %s: %w", path, err)
	}
	_ = testRoot.Close()

	return &RootManager{path: path}, nil
}

// Path returns the directory the manager is rooted at.
func (rm *RootManager) Path() string {
	return rm.path
}

// Rel converts an absolute path into a slash-separated path relative to the
// root. It reports false for paths outside the root.
func (rm *RootManager) Rel(absPath string) (string, bool) {
	base, err := filepath.Abs(rm.path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(base, absPath)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// withRoot executes a function with a safely opened os.Root
func (rm *RootManager) withRoot(fn func(*os.Root) error) error {
	root, err := os.OpenRoot(rm.path)
	if err != nil {
		return fmt.Errorf("failed to open root: %w", err)
	}
	defer func(root *os.Root) {
		_ = root.Close()
	}(root)

	return fn(root)
}

// ReadFile reads the contents of a file using Root.ReadFile
func (rm *RootManager) ReadFile(filename string) ([]byte, error) {
	var content []byte
	err := rm.withRoot(func(root *os.Root) error {
		var err error
		content, err = root.ReadFile(filename)
		return err
	})
	return content, err
}

// WriteFile writes content to a file using Root.WriteFile, creating parent directories.
func (rm *RootManager) WriteFile(filename string, content []byte, perm os.FileMode) error {
	return rm.withRoot(func(root *os.Root) error {
		if dir := filepath.Dir(filename); dir != "." {
			if err := root.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		return root.WriteFile(filename, content, perm)
	})
}

// WriteString writes a string to a file
func (rm *RootManager) WriteString(filename string, content string) error {
	return rm.WriteFile(filename, []byte(content), 0644)
}

// FileExists checks if a file exists using Root.Stat
func (rm *RootManager) FileExists(filename string) bool {
	_, err := rm.Stat(filename)
	return err == nil
}

// Stat returns file info using Root.Stat
func (rm *RootManager) Stat(filename string) (os.FileInfo, error) {
	var info os.FileInfo
	err := rm.withRoot(func(root *os.Root) error {
		var err error
		info, err = root.Stat(filename)
		return err
	})
	return info, err
}

// MkdirAll creates a directory and any necessary parent directories using Root.MkdirAll
func (rm *RootManager) MkdirAll(dir string, perm os.FileMode) error {
	return rm.withRoot(func(root *os.Root) error {
		return root.MkdirAll(dir, perm)
	})
}

// Remove removes a file using Root.Remove
func (rm *RootManager) Remove(filename string) error {
	return rm.withRoot(func(root *os.Root) error {
		return root.Remove(filename)
	})
}

// WalkDir walks the directory tree using Root.FS()
func (rm *RootManager) WalkDir(root string, fn fs.WalkDirFunc) error {
	return rm.withRoot(func(osRoot *os.Root) error {
		return fs.WalkDir(osRoot.FS(), root, fn)
	})
}

// CreateFileIfNotExists creates a file with default content if it doesn't exist
func (rm *RootManager) CreateFileIfNotExists(filename string, defaultContent string) error {
	if rm.FileExists(filename) {
		return nil
	}
	return rm.WriteString(filename, defaultContent)
}
