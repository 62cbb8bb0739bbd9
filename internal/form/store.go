package form

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/omnimsg/composer/internal/model"
)

// ErrSessionNotFound is returned for unknown or expired form ids.
var ErrSessionNotFound = errors.New("form session not found")

// Store holds mounted form sessions in memory. Sessions are transient:
// they expire after ttl of inactivity and are pruned by the janitor.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*State
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*State),
		ttl:      ttl,
	}
}

// Mount creates and registers a fresh form session.
func (s *Store) Mount(t model.MessageType, channel model.Channel) (*State, error) {
	st, err := Mount(uuid.NewString(), t, channel)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[st.ID] = st
	return st, nil
}

// Get looks up a live session by id.
func (s *Store) Get(id string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st, nil
}

// Unmount discards a session.
func (s *Store) Unmount(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune drops sessions idle past the TTL and returns how many were
// removed.
func (s *Store) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, st := range s.sessions {
		if now.Sub(st.UpdatedAt()) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
