package files

import (
	"fmt"
	"sync"

	"github.com/patrickward/markpad/internal/crypto"
)

// Document is one markdown file in a Repository. Content is loaded lazily and
// cached until the next Save or Reload.
type Document struct {
	Info    FileInfo
	repo    *Repository
	mu      sync.Mutex
	content string
	loaded  bool
}

// load reads the document from disk, decrypting it when it is age sealed
func (d *Document) load() error {
	if d.loaded {
		return nil
	}

	content, err := d.repo.rootManager.ReadFile(d.Info.Path)
	if err != nil {
		return fmt.Errorf("failed to load document %s: %w", d.Info.Path, err)
	}

	if d.repo.encryption.CanDecrypt() && crypto.IsAgeEncrypted(content) {
		decrypted, err := d.repo.encryption.Decrypt(content)
		if err != nil {
			return fmt.Errorf("failed to decrypt document %s: %w", d.Info.Path, err)
		}
		d.content = decrypted
	} else {
		d.content = string(content)
	}

	d.loaded = true
	return nil
}

// Content returns the content of the document
func (d *Document) Content() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.load(); err != nil {
		return "", err
	}
	return d.content, nil
}

// Reload drops the cached content so the next Content call reads the file.
func (d *Document) Reload() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = false
	d.content = ""
}

// Save writes content to disk byte for byte. Documents whose frontmatter sets
// encrypted: true are sealed with the configured age recipients.
func (d *Document) Save(content string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.repo.encryption.CanEncrypt() && crypto.HasEncryptedFrontmatter(content) {
		encrypted, err := d.repo.encryption.Encrypt(content)
		if err != nil {
			return fmt.Errorf("failed to encrypt document %s: %w", d.Info.Path, err)
		}

		if err := d.repo.rootManager.WriteFile(d.Info.Path, encrypted, 0644); err != nil {
			return fmt.Errorf("failed to save document %s: %w", d.Info.Path, err)
		}
	} else {
		if err := d.repo.rootManager.WriteString(d.Info.Path, content); err != nil {
			return fmt.Errorf("failed to save document %s: %w", d.Info.Path, err)
		}
	}

	d.content = content
	d.loaded = true
	d.repo.ReloadFile(d.Info.Path)

	return nil
}

// Delete deletes the document from disk
func (d *Document) Delete() error {
	if err := d.repo.rootManager.Remove(d.Info.Path); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", d.Info.Path, err)
	}
	d.repo.ReloadFile(d.Info.Path)
	return nil
}
