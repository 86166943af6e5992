package crypto

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"filippo.io/age"

	"github.com/patrickward/markpad/internal/contentutil"
)

var (
	ErrNoRecipients = errors.New("no recipients configured for encryption")
	ErrNoIdentities = errors.New("no identities configured for decryption")
)

const (
	recipientFileSizeLimit = 16 << 20 // 16MiB
	recipientLineLimit     = 8 << 10  // 8KiB (same as sshd(8))
)

// Manager holds the age recipients and identities used to seal and open
// encrypted documents.
type Manager struct {
	mu         sync.RWMutex
	recipients []age.Recipient
	identities []age.Identity
	active     bool
}

// NewManager creates an inactive manager with no keys.
func NewManager() *Manager {
	return &Manager{}
}

// AddRecipient adds an X25519 public key.
func (m *Manager) AddRecipient(publicKey string) error {
	recipient, err := age.ParseX25519Recipient(publicKey)
	if err != nil {
		return fmt.Errorf("failed to parse recipient: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipients = append(m.recipients, recipient)
	return nil
}

// AddRecipientsFromFile loads one public key per line, skipping blank lines and
// lines starting with #.
func (m *Manager) AddRecipientsFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open recipients file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	if stat, err := file.Stat(); err == nil && stat.Size() > recipientFileSizeLimit {
		return fmt.Errorf("recipient file size exceeds limit: %d > %d", stat.Size(), recipientFileSizeLimit)
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) > recipientLineLimit {
			return fmt.Errorf("recipient line exceeds limit: %d > %d", len(line), recipientLineLimit)
		}
		if err := m.AddRecipient(line); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// AddIdentity adds an X25519 private key.
func (m *Manager) AddIdentity(secretKey string) error {
	identity, err := age.ParseX25519Identity(secretKey)
	if err != nil {
		return fmt.Errorf("failed to parse identity: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities = append(m.identities, identity)
	return nil
}

// AddIdentitiesFromFile loads an age identity file.
func (m *Manager) AddIdentitiesFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open identity file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	identities, err := age.ParseIdentities(file)
	if err != nil {
		return fmt.Errorf("failed to parse identities: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities = append(m.identities, identities...)
	return nil
}

// LoadKeys loads both key files and activates the manager.
func (m *Manager) LoadKeys(identitiesFile, recipientsFile string) error {
	if identitiesFile == "" {
		return fmt.Errorf("no identity file specified")
	}
	if recipientsFile == "" {
		return fmt.Errorf("no recipient file specified")
	}

	if err := m.AddIdentitiesFromFile(identitiesFile); err != nil {
		return fmt.Errorf("failed to load identity file %s: %w", identitiesFile, err)
	}
	if err := m.AddRecipientsFromFile(recipientsFile); err != nil {
		return fmt.Errorf("failed to load recipient file %s: %w", recipientsFile, err)
	}

	m.Activate()
	return nil
}

// Activate turns encryption on.
func (m *Manager) Activate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = true
}

// IsActive reports whether encryption is on. A nil manager is never active.
func (m *Manager) IsActive() bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// CanEncrypt reports whether the manager is active and has recipients.
func (m *Manager) CanEncrypt() bool {
	if !m.IsActive() {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.recipients) > 0
}

// CanDecrypt reports whether the manager is active and has identities.
func (m *Manager) CanDecrypt() bool {
	if !m.IsActive() {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.identities) > 0
}

// Encrypt seals content for every recipient.
func (m *Manager) Encrypt(content string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.recipients) == 0 {
		return nil, ErrNoRecipients
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, m.recipients...)
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypt writer: %w", err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close encrypt writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decrypt opens content with the configured identities.
func (m *Manager) Decrypt(sealed []byte) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.identities) == 0 {
		return "", ErrNoIdentities
	}

	r, err := age.Decrypt(bytes.NewReader(sealed), m.identities...)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("failed to read decrypted content: %w", err)
	}

	return buf.String(), nil
}

// IsAgeEncrypted checks for the age format header.
func IsAgeEncrypted(content []byte) bool {
	return bytes.HasPrefix(content, []byte("age-encryption.org/v1"))
}

// HasEncryptedFrontmatter reports whether the frontmatter sets encrypted to true or yes.
func HasEncryptedFrontmatter(content string) bool {
	value, ok := contentutil.FrontmatterValue(content, "encrypted")
	if !ok {
		return false
	}
	value = strings.ToLower(value)
	return value == "true" || value == "yes"
}
