package state

import "sync"

// Store guards the live AppState against concurrent access from the UI loop
// and the restore sequence. Reads get clones; writes go through Mutate so a
// mutation is atomic with respect to snapshots.
type Store struct {
	mu       sync.RWMutex
	current  AppState
	defaults AppState
}

// NewStore creates a store holding the given defaults as both the initial
// state and the reference for default-omission.
func NewStore(defaults AppState) *Store {
	return &Store{
		current:  defaults.Clone(),
		defaults: defaults.Clone(),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Defaults returns a copy of the default state.
func (s *Store) Defaults() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults.Clone()
}

// Mutate applies fn to the live state under the write lock.
func (s *Store) Mutate(fn func(*AppState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.current)
}

// Replace swaps the whole state, used when a decoded share link is applied.
func (s *Store) Replace(next AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next.Clone()
}
