package crypto

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
)

// KeyPair describes a generated identity and where it was written.
type KeyPair struct {
	PublicKey   string
	PublicPath  string
	PrivatePath string
}

// GenerateKeyPair creates a new X25519 identity and writes it to keysDir as
// <base>.pub and <base>.txt, where base is timestamped.
func GenerateKeyPair(keysDir string, now time.Time) (KeyPair, error) {
	if strings.TrimSpace(keysDir) == "" {
		return KeyPair{}, fmt.Errorf("keys directory must be specified")
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to generate identity: %w", err)
	}

	if err := os.MkdirAll(keysDir, 0700); err != nil {
		return KeyPair{}, fmt.Errorf("failed to create key directory: %w", err)
	}

	base := "markpad-key-" + now.Format("2006-01-02-15-04-05")
	pair := KeyPair{
		PublicKey:   identity.Recipient().String(),
		PublicPath:  filepath.Join(keysDir, base+".pub"),
		PrivatePath: filepath.Join(keysDir, base+".txt"),
	}

	if err := os.WriteFile(pair.PublicPath, []byte(pair.PublicKey+"\n"), 0644); err != nil {
		return KeyPair{}, fmt.Errorf("failed to save public key: %w", err)
	}

	private := fmt.Sprintf("# age identity file\n# generated: %s\n%s\n", now.Format("2006-01-02 15:04:05"), identity.String())
	if err := os.WriteFile(pair.PrivatePath, []byte(private), 0600); err != nil {
		return KeyPair{}, fmt.Errorf("failed to save private key: %w", err)
	}

	return pair, nil
}
