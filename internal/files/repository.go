package files

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/patrickward/markpad/internal/contentutil"
	"github.com/patrickward/markpad/internal/crypto"
)

// ErrDocumentNotFound is returned when no document has the requested ID.
var ErrDocumentNotFound = errors.New("document not found")

const documentExtension = ".md"

// Config holds the settings for a Repository.
type Config struct {
	// WelcomeFile is created on Initialize when the repository holds no documents.
	WelcomeFile string
	// ExcludeDirectories are top-level directories never scanned for documents.
	ExcludeDirectories []string
}

// DefaultConfig provides default settings for a Repository.
var DefaultConfig = Config{
	WelcomeFile:        "welcome.md",
	ExcludeDirectories: []string{"service", "keys"},
}

// Repository manages the markdown documents stored under a data directory.
type Repository struct {
	config        Config
	rootManager   *RootManager
	encryption    *crypto.Manager
	cacheMux      sync.RWMutex
	lastCacheTime time.Time
	cache         map[string]FileInfo
}

// NewRepository creates a repository over rootManager and scans it once.
func NewRepository(rootManager *RootManager, config Config) *Repository {
	r := &Repository{
		config:      config,
		rootManager: rootManager,
		cache:       make(map[string]FileInfo),
	}
	r.Reload()
	return r
}

// SetEncryptionManager enables age encryption for documents that ask for it.
func (r *Repository) SetEncryptionManager(m *crypto.Manager) {
	r.encryption = m
}

// RootManager returns the sandboxed filesystem the repository writes through.
func (r *Repository) RootManager() *RootManager {
	return r.rootManager
}

// Initialize creates the welcome document when the repository is empty.
func (r *Repository) Initialize() error {
	if r.config.WelcomeFile == "" || len(r.Files()) > 0 {
		return nil
	}

	if err := r.rootManager.CreateFileIfNotExists(r.config.WelcomeFile, welcomeText); err != nil {
		return fmt.Errorf("error creating welcome file %s: %w", r.config.WelcomeFile, err)
	}

	r.Reload()
	return nil
}

// Reload rescans the data directory and replaces the cache.
func (r *Repository) Reload() {
	files := r.scan()

	r.cacheMux.Lock()
	defer r.cacheMux.Unlock()
	r.cache = files
	r.lastCacheTime = time.Now()
	log.Printf("Document cache refreshed with %d files", len(files))
}

// ReloadIfStale rescans when the cache is older than maxAge.
func (r *Repository) ReloadIfStale(maxAge time.Duration) {
	r.cacheMux.RLock()
	age := time.Since(r.lastCacheTime)
	r.cacheMux.RUnlock()

	if age > maxAge {
		r.Reload()
	}
}

// ReloadFile refreshes or drops a single cache entry after a change on disk.
func (r *Repository) ReloadFile(relPath string) {
	if !r.isDocumentPath(relPath) {
		return
	}

	r.cacheMux.Lock()
	defer r.cacheMux.Unlock()

	id := r.CreateID(relPath)
	info, err := r.rootManager.Stat(relPath)
	if err != nil {
		delete(r.cache, id)
		return
	}
	r.cache[id] = r.fileInfoFromPath(relPath, info)
}

// Files returns the cached documents sorted by directory and title.
func (r *Repository) Files() []FileInfo {
	r.cacheMux.RLock()
	defer r.cacheMux.RUnlock()

	return slices.SortedFunc(maps.Values(r.cache), func(a, b FileInfo) int {
		// Root files come before any directory files
		if a.Directory == "" && b.Directory != "" {
			return -1
		}
		if a.Directory != "" && b.Directory == "" {
			return 1
		}
		if a.Directory != b.Directory {
			return strings.Compare(a.Directory, b.Directory)
		}
		return strings.Compare(a.Title, b.Title)
	})
}

// FileInfo retrieves the FileInfo for a given document ID.
func (r *Repository) FileInfo(id string) (FileInfo, error) {
	r.cacheMux.RLock()
	defer r.cacheMux.RUnlock()

	if info, ok := r.cache[id]; ok {
		return info, nil
	}
	return FileInfo{}, fmt.Errorf("file %s: %w", id, ErrDocumentNotFound)
}

// IDForPath returns the document ID for a path relative to the data directory.
func (r *Repository) IDForPath(relPath string) (string, bool) {
	if !r.isDocumentPath(relPath) {
		return "", false
	}
	return r.CreateID(relPath), true
}

// GetDocument retrieves a document by ID
func (r *Repository) GetDocument(id string) (*Document, error) {
	info, err := r.FileInfo(id)
	if err != nil {
		return nil, err
	}

	return &Document{
		Info: info,
		repo: r,
	}, nil
}

// CreateDocument creates a new document named after title and returns it.
// An existing document with the same ID is returned unchanged.
func (r *Repository) CreateDocument(title string) (*Document, error) {
	title = strings.TrimSpace(title)
	id := r.CreateID(title)
	if id == "" {
		return nil, fmt.Errorf("invalid document title %q", title)
	}

	if doc, err := r.GetDocument(id); err == nil {
		return doc, nil
	}

	relPath := id + documentExtension
	if r.isExcluded(relPath) {
		return nil, fmt.Errorf("invalid document title %q", title)
	}

	content := "# " + contentutil.TitleCase(path.Base(title)) + "\n"
	if err := r.rootManager.CreateFileIfNotExists(relPath, content); err != nil {
		return nil, fmt.Errorf("error creating document %s: %w", relPath, err)
	}

	r.ReloadFile(relPath)
	return r.GetDocument(id)
}

// CreateID generates a consistent URL-safe ID from a file path
func (r *Repository) CreateID(relPath string) string {
	return normalizeFileName(strings.TrimSuffix(relPath, documentExtension))
}

// DisplayName generates a user-friendly display name from a file path
func (r *Repository) DisplayName(relPath string) (string, string) {
	parts := strings.Split(strings.TrimSuffix(relPath, documentExtension), "/")

	for i, part := range parts {
		part = strings.ReplaceAll(part, "-", " ")
		part = strings.ReplaceAll(part, "_", " ")
		parts[i] = contentutil.TitleCase(part)
	}

	return strings.Join(parts, "/"), parts[len(parts)-1]
}

func (r *Repository) scan() map[string]FileInfo {
	results := make(map[string]FileInfo)

	err := r.rootManager.WalkDir(".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && (strings.HasPrefix(d.Name(), ".") || r.isExcluded(p)) {
				return fs.SkipDir
			}
			return nil
		}
		if !r.isDocumentPath(p) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		fileInfo := r.fileInfoFromPath(p, info)
		results[fileInfo.ID] = fileInfo
		return nil
	})
	if err != nil {
		log.Printf("Error scanning documents: %v", err)
	}

	return results
}

func (r *Repository) fileInfoFromPath(relPath string, info fs.FileInfo) FileInfo {
	dir := path.Dir(relPath)
	if dir == "." {
		dir = ""
	}

	depth := 0
	if dir != "" {
		depth = strings.Count(dir, "/") + 1
	}

	title, titleBase := r.DisplayName(relPath)

	return FileInfo{
		ID:        r.CreateID(relPath),
		Path:      relPath,
		Title:     title,
		TitleBase: titleBase,
		Directory: dir,
		Depth:     depth,
		ModTime:   info.ModTime(),
		Size:      info.Size(),
	}
}

func (r *Repository) isDocumentPath(relPath string) bool {
	if !strings.HasSuffix(relPath, documentExtension) || r.isExcluded(relPath) {
		return false
	}
	for _, part := range strings.Split(relPath, "/") {
		if strings.HasPrefix(part, ".") {
			return false
		}
	}
	return true
}

func (r *Repository) isExcluded(relPath string) bool {
	top, _, _ := strings.Cut(relPath, "/")
	return slices.Contains(r.config.ExcludeDirectories, top)
}

// normalizeFileName creates a URL-safe, consistent filename/path.
// It is not guaranteed to be unique; collisions resolve to the first scanned file.
func normalizeFileName(p string) string {
	normalized := strings.ToLower(p)
	normalized = strings.ReplaceAll(normalized, "\\", "/")

	// Replace spaces and underscores with hyphens
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")

	// Keep only: letters, numbers, hyphens, periods, and forward slashes
	var result strings.Builder
	for _, char := range normalized {
		switch {
		case (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9'):
			result.WriteRune(char)
		case char == '-' || char == '.' || char == '/':
			result.WriteRune(char)
		default:
			if result.Len() > 0 && result.String()[result.Len()-1] != '-' {
				result.WriteRune('-')
			}
		}
	}

	cleaned := strings.Trim(result.String(), "-")
	for strings.Contains(cleaned, "--") {
		cleaned = strings.ReplaceAll(cleaned, "--", "-")
	}

	// Dot segments would escape the URL space
	segments := strings.Split(cleaned, "/")
	kept := segments[:0]
	for _, s := range segments {
		s = strings.Trim(s, "-.")
		if s != "" {
			kept = append(kept, s)
		}
	}

	return strings.Join(kept, "/")
}

const welcomeText = `# Welcome to markpad

Write markdown on the left and watch the preview update on the right.

## Find and replace

- Type a term in the find box and press **Find** to highlight every match.
- Use **Next** and **Previous** to step through them; the counter shows where you are.
- **Replace** swaps the current match and moves to the next one.
- **Replace all** swaps every match at once.
- Toggle *Match case*, *Whole word* or *Regex* to change how the term is matched.

Try searching for the word "match" in this document.
`
