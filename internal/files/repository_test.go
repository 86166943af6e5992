package files_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickward/markpad/internal/files"
)

func setupRepository(t *testing.T) (*files.Repository, *files.RootManager) {
	t.Helper()

	rm := setupRootManager(t)
	require.NoError(t, rm.WriteString("inbox.md", "# Inbox\n"))
	require.NoError(t, rm.WriteString("projects/big_plan.md", "# Plan\n"))
	require.NoError(t, rm.WriteString("projects/notes.txt", "ignored"))
	require.NoError(t, rm.WriteString("service/markpad.md", "ignored"))
	require.NoError(t, rm.WriteString(".hidden/secret.md", "ignored"))

	return files.NewRepository(rm, files.DefaultConfig), rm
}

func TestRepository_Files(t *testing.T) {
	t.Parallel()
	repo, _ := setupRepository(t)

	list := repo.Files()
	require.Len(t, list, 2)
	assert.Equal(t, "inbox", list[0].ID)
	assert.Equal(t, "projects/big-plan", list[1].ID)
	assert.Equal(t, "Projects/Big Plan", list[1].Title)
	assert.Equal(t, "Big Plan", list[1].TitleBase)
	assert.Equal(t, "projects", list[1].Directory)
	assert.Equal(t, 1, list[1].Depth)
}

func TestRepository_FileInfo(t *testing.T) {
	t.Parallel()
	repo, _ := setupRepository(t)

	info, err := repo.FileInfo("projects/big-plan")
	require.NoError(t, err)
	assert.Equal(t, "projects/big_plan.md", info.Path)

	_, err = repo.FileInfo("nonexistent")
	assert.ErrorIs(t, err, files.ErrDocumentNotFound)
}

func TestRepository_Initialize(t *testing.T) {
	t.Parallel()
	rm := setupRootManager(t)

	repo := files.NewRepository(rm, files.DefaultConfig)
	require.NoError(t, repo.Initialize())
	assert.True(t, rm.FileExists("welcome.md"))

	_, err := repo.FileInfo("welcome")
	assert.NoError(t, err)
}

func TestRepository_CreateDocument(t *testing.T) {
	t.Parallel()
	repo, rm := setupRepository(t)

	doc, err := repo.CreateDocument("Meeting Notes")
	require.NoError(t, err)
	assert.Equal(t, "meeting-notes", doc.Info.ID)
	assert.True(t, rm.FileExists("meeting-notes.md"))

	content, err := doc.Content()
	require.NoError(t, err)
	assert.Equal(t, "# Meeting Notes\n", content)

	again, err := repo.CreateDocument("meeting notes")
	require.NoError(t, err)
	assert.Equal(t, doc.Info.Path, again.Info.Path)

	_, err = repo.CreateDocument("  ")
	assert.Error(t, err)
	_, err = repo.CreateDocument("service/log")
	assert.Error(t, err)
}

func TestRepository_CreateID(t *testing.T) {
	t.Parallel()
	repo, _ := setupRepository(t)

	tests := []struct {
		path string
		want string
	}{
		{"inbox.md", "inbox"},
		{"My Notes.md", "my-notes"},
		{"dir/Some_File!.md", "dir/some-file"},
		{"../escape.md", "escape"},
		{"a//b.md", "a/b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, repo.CreateID(tt.path), tt.path)
	}
}

func TestRepository_IDForPath(t *testing.T) {
	t.Parallel()
	repo, _ := setupRepository(t)

	id, ok := repo.IDForPath("projects/big_plan.md")
	assert.True(t, ok)
	assert.Equal(t, "projects/big-plan", id)

	_, ok = repo.IDForPath("service/markpad.log")
	assert.False(t, ok)
	_, ok = repo.IDForPath(".hidden/secret.md")
	assert.False(t, ok)
}

func TestRepository_ReloadFile(t *testing.T) {
	t.Parallel()
	repo, rm := setupRepository(t)

	require.NoError(t, rm.WriteString("later.md", "later"))
	repo.ReloadFile("later.md")
	_, err := repo.FileInfo("later")
	require.NoError(t, err)

	require.NoError(t, rm.Remove("later.md"))
	repo.ReloadFile("later.md")
	_, err = repo.FileInfo("later")
	assert.ErrorIs(t, err, files.ErrDocumentNotFound)
}
