package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickward/markpad/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[server]
port = 9000

[search]
case_sensitive = true

[editor]
max_chars = 500

[session]
ttl = "10m"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Addr)
	assert.True(t, cfg.Search.CaseSensitive)
	assert.False(t, cfg.Search.Regex)
	assert.Equal(t, 500, cfg.Editor.MaxChars)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL.Duration)
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval.Duration)
}

func TestLoad_UnknownKey(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "[editor]\nmax_char = 5\n")
	_, err := config.Load(path)

	var parseErr *config.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.Path)
}

func TestLoad_InvalidSyntax(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "[server\nport = 1\n")
	_, err := config.Load(path)

	var parseErr *config.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "parse error in")
}

func TestLoad_BadDuration(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "[session]\nttl = \"soon\"\n")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 70000
	cfg.Editor.MaxChars = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "editor.max_chars")
}
