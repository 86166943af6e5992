package editor_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickward/markpad/internal/editor"
	"github.com/patrickward/markpad/internal/findreplace"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newStore(t *testing.T, maxSessions int) (*editor.Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return editor.NewStore(editor.Config{TTL: time.Minute, MaxSessions: maxSessions, Now: clock.Now}), clock
}

func textLoader(text *string) editor.LoadFunc {
	return func() (string, error) { return *text, nil }
}

func search(query string) func(*findreplace.Session) error {
	return func(sess *findreplace.Session) error {
		return sess.Search(findreplace.PatternSpec{Query: query})
	}
}

func cursorOf(t *testing.T, store *editor.Store, id, doc string, load editor.LoadFunc) findreplace.CursorState {
	t.Helper()
	var cursor findreplace.CursorState
	_, err := store.Do(id, doc, load, func(sess *findreplace.Session) error {
		cursor = sess.Cursor()
		return nil
	})
	require.NoError(t, err)
	return cursor
}

func TestStore_CreatesAndReusesSessions(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t, 0)
	text := "a b a b a"

	id, err := store.Do("", "doc", textLoader(&text), search("a"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	again, err := store.Do(id, "doc", textLoader(&text), func(sess *findreplace.Session) error {
		return sess.Next()
	})
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, findreplace.CursorState(1), cursorOf(t, store, id, "doc", textLoader(&text)))
	assert.Equal(t, 1, store.Len())
}

func TestStore_OtherDocumentStartsFresh(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t, 0)
	text := "abc"

	id, err := store.Do("", "one", textLoader(&text), search("b"))
	require.NoError(t, err)

	other, err := store.Do(id, "two", textLoader(&text), func(sess *findreplace.Session) error {
		assert.True(t, sess.Spec().IsEmpty())
		return nil
	})
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
	assert.Equal(t, 1, store.Len())
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()
	store, clock := newStore(t, 0)
	text := "abc"

	id, err := store.Do("", "doc", textLoader(&text), search("b"))
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	fresh, err := store.Do(id, "doc", textLoader(&text), func(sess *findreplace.Session) error { return nil })
	require.NoError(t, err)
	assert.NotEqual(t, id, fresh)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())
}

func TestStore_InvalidateDocumentReloadsText(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t, 0)
	text := "cat cat"

	id, err := store.Do("", "doc", textLoader(&text), search("cat"))
	require.NoError(t, err)

	text = "cat dog cat cat"
	assert.Equal(t, 1, store.InvalidateDocument("doc"))
	assert.Equal(t, 0, store.InvalidateDocument("missing"))

	_, err = store.Do(id, "doc", textLoader(&text), func(sess *findreplace.Session) error {
		assert.Equal(t, text, sess.Text())
		assert.Equal(t, 3, sess.Matches().Len())
		assert.Equal(t, findreplace.CursorState(0), sess.Cursor())
		return nil
	})
	require.NoError(t, err)
}

func TestStore_InvalidateWithSameTextKeepsCursor(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t, 0)
	text := "x x x"

	id, err := store.Do("", "doc", textLoader(&text), func(sess *findreplace.Session) error {
		if err := sess.Search(findreplace.PatternSpec{Query: "x"}); err != nil {
			return err
		}
		return sess.Next()
	})
	require.NoError(t, err)

	store.InvalidateDocument("doc")
	assert.Equal(t, findreplace.CursorState(1), cursorOf(t, store, id, "doc", textLoader(&text)))
}

func TestStore_LoadError(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t, 0)
	boom := errors.New("boom")

	_, err := store.Do("", "doc", func() (string, error) { return "", boom }, search("a"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Len())
}

func TestStore_FnErrorIsReturned(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t, 0)
	text := "abc"

	id, err := store.Do("", "doc", textLoader(&text), func(sess *findreplace.Session) error {
		return sess.Search(findreplace.PatternSpec{Query: "(", IsRegex: true})
	})
	assert.ErrorIs(t, err, findreplace.ErrInvalidPattern)
	assert.NotEmpty(t, id)
}

func TestStore_MaxSessionsEvictsOldest(t *testing.T) {
	t.Parallel()
	store, clock := newStore(t, 2)
	text := "abc"
	noop := func(*findreplace.Session) error { return nil }

	first, err := store.Do("", "doc", textLoader(&text), noop)
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, err := store.Do("", "doc", textLoader(&text), noop)
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = store.Do("", "doc", textLoader(&text), noop)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())

	kept, err := store.Do(second, "doc", textLoader(&text), noop)
	require.NoError(t, err)
	assert.Equal(t, second, kept)

	// The first session was evicted, so its ID no longer resolves
	reopened, err := store.Do(first, "doc", textLoader(&text), noop)
	require.NoError(t, err)
	assert.NotEqual(t, first, reopened)
}

func TestStore_ConcurrentUse(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t, 0)
	text := "a a a a"

	id, err := store.Do("", "doc", textLoader(&text), search("a"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				_, err := store.Do(id, "doc", textLoader(&text), func(sess *findreplace.Session) error {
					return sess.Next()
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	// 80 steps over 4 matches lands back on the first one
	assert.Equal(t, findreplace.CursorState(0), cursorOf(t, store, id, "doc", textLoader(&text)))
}
