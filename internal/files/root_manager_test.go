package files_test

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickward/markpad/internal/files"
)

func setupRootManager(t *testing.T) *files.RootManager {
	t.Helper()

	rm, err := files.NewRootManager(t.TempDir())
	require.NoError(t, err)
	return rm
}

func TestRootManager_WriteAndRead(t *testing.T) {
	t.Parallel()
	rm := setupRootManager(t)

	require.NoError(t, rm.WriteString("notes/test.md", "testy test"))
	assert.True(t, rm.FileExists("notes/test.md"))

	content, err := rm.ReadFile("notes/test.md")
	require.NoError(t, err)
	assert.Equal(t, "testy test", string(content))

	_, err = rm.ReadFile("nonexistent.md")
	assert.Error(t, err)
}

func TestRootManager_EscapeIsRejected(t *testing.T) {
	t.Parallel()
	rm := setupRootManager(t)

	_, err := rm.ReadFile("../outside.md")
	assert.Error(t, err)
	assert.Error(t, rm.WriteString("../outside.md", "nope"))
}

func TestRootManager_Remove(t *testing.T) {
	t.Parallel()
	rm := setupRootManager(t)

	require.NoError(t, rm.WriteString("gone.md", "x"))
	require.NoError(t, rm.Remove("gone.md"))
	assert.False(t, rm.FileExists("gone.md"))
}

func TestRootManager_WalkDir(t *testing.T) {
	t.Parallel()
	rm := setupRootManager(t)

	require.NoError(t, rm.WriteString("a.md", "a"))
	require.NoError(t, rm.WriteString("dir/b.md", "b"))

	var seen []string
	err := rm.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			seen = append(seen, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.md", "dir/b.md"}, seen)
}

func TestRootManager_Rel(t *testing.T) {
	t.Parallel()
	rm := setupRootManager(t)

	abs, err := filepath.Abs(filepath.Join(rm.Path(), "dir", "b.md"))
	require.NoError(t, err)

	rel, ok := rm.Rel(abs)
	assert.True(t, ok)
	assert.Equal(t, "dir/b.md", rel)

	_, ok = rm.Rel(filepath.Dir(rm.Path()))
	assert.False(t, ok)
}

func TestRootManager_CreateFileIfNotExists(t *testing.T) {
	t.Parallel()
	rm := setupRootManager(t)

	require.NoError(t, rm.CreateFileIfNotExists("x.md", "first"))
	require.NoError(t, rm.CreateFileIfNotExists("x.md", "second"))

	content, err := rm.ReadFile("x.md")
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))
}
