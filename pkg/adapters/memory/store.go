package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/pacer/pkg/domain"
)

// Store implements ports.HistoryStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.History
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.History),
	}
}

// Append adds copies of turns to the session's history.
func (s *Store) Append(ctx context.Context, sessionID string, turns ...domain.Turn) error {
	copied := make(domain.History, 0, len(turns))
	for _, t := range turns {
		copied = append(copied, copyTurn(t))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = append(s.data[sessionID], copied...)
	return nil
}

// Load returns a copy of the session's history.
func (s *Store) Load(ctx context.Context, sessionID string) (domain.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so callers can't mutate stored turns.
	ret := make(domain.History, len(h))
	for i, t := range h {
		ret[i] = copyTurn(t)
	}
	return ret, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active sessions, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}

func copyTurn(t domain.Turn) domain.Turn {
	switch v := t.(type) {
	case domain.ResponseTurn:
		return domain.Result{Fragments: v.Fragments, Metadata: v.Metadata}.Turn()
	default:
		return t
	}
}
