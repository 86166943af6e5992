// Package editor keeps the find/replace sessions of open editor pages. Each
// browser tab holds a session ID; the store maps it to a findreplace.Session
// over the text of one document.
package editor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/patrickward/markpad/internal/findreplace"
)

// LoadFunc returns the current text of a document.
type LoadFunc func() (string, error)

// Config holds the store limits.
type Config struct {
	// TTL is how long an unused session lives.
	TTL time.Duration
	// MaxSessions caps the number of live sessions. 0 means no cap.
	MaxSessions int
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

// Entry is one session in the store.
type Entry struct {
	ID         string
	DocumentID string

	mu       sync.Mutex
	session  *findreplace.Session
	lastUsed atomic.Int64
	stale    atomic.Bool
}

// Store is safe for concurrent use. Operations on one entry are serialised by
// the entry's own lock.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	ttl     time.Duration
	max     int
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore(cfg Config) *Store {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		entries: make(map[string]*Entry),
		ttl:     ttl,
		max:     cfg.MaxSessions,
		now:     now,
	}
}

// Do runs fn on the session id for documentID and returns the ID the caller
// should use from now on. A new session is started over load's text when id
// is unknown, expired or bound to another document. A session whose document
// changed on disk is refreshed from load first; if the text is unchanged the
// match set and cursor are kept.
func (s *Store) Do(id, documentID string, load LoadFunc, fn func(*findreplace.Session) error) (string, error) {
	entry := s.acquire(id, documentID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := s.refresh(entry, load); err != nil {
		if entry.session == nil {
			s.Delete(entry.ID)
		}
		return "", err
	}

	entry.lastUsed.Store(s.now().UnixNano())
	return entry.ID, fn(entry.session)
}

func (s *Store) refresh(entry *Entry, load LoadFunc) error {
	if entry.session != nil && !entry.stale.Load() {
		return nil
	}

	text, err := load()
	if err != nil {
		return fmt.Errorf("loading session text for %s: %w", entry.DocumentID, err)
	}

	if entry.session == nil {
		entry.session = findreplace.NewSession(text)
	} else if text != entry.session.Text() {
		if err := entry.session.SetText(text); err != nil {
			return fmt.Errorf("refreshing session for %s: %w", entry.DocumentID, err)
		}
	}

	entry.stale.Store(false)
	return nil
}

func (s *Store) acquire(id, documentID string) *Entry {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[id]; ok {
		if entry.DocumentID == documentID && !s.expired(entry, now) {
			return entry
		}
		delete(s.entries, id)
	}

	if s.max > 0 && len(s.entries) >= s.max {
		s.evictOldest()
	}

	entry := &Entry{
		ID:         uuid.NewString(),
		DocumentID: documentID,
	}
	entry.lastUsed.Store(now.UnixNano())
	s.entries[entry.ID] = entry
	return entry
}

// evictOldest drops the least recently used entry. Callers hold s.mu.
func (s *Store) evictOldest() {
	var oldest *Entry
	for _, entry := range s.entries {
		if oldest == nil || entry.lastUsed.Load() < oldest.lastUsed.Load() {
			oldest = entry
		}
	}
	if oldest != nil {
		delete(s.entries, oldest.ID)
	}
}

func (s *Store) expired(entry *Entry, now time.Time) bool {
	return now.Sub(time.Unix(0, entry.lastUsed.Load())) > s.ttl
}

// InvalidateDocument marks every session over documentID as stale. Their text
// is reloaded on next use. It returns the number of sessions marked.
func (s *Store) InvalidateDocument(documentID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, entry := range s.entries {
		if entry.DocumentID == documentID {
			entry.stale.Store(true)
			n++
		}
	}
	return n
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, entry := range s.entries {
		if s.expired(entry, now) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
