package standards

import "sync"

// Store holds the active record set. The set is swapped wholesale and never
// mutated in place, so slices handed out by Records stay valid.
type Store struct {
	mu      sync.RWMutex
	records []Standard
	version uint64
}

func NewStore(records []Standard) *Store {
	return &Store{records: records, version: 1}
}

func (s *Store) Records() []Standard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Snapshot returns the records together with the version they belong to.
func (s *Store) Snapshot() ([]Standard, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.version
}

// Version increases by one on every Replace.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Replace(records []Standard) {
	s.mu.Lock()
	s.records = records
	s.version++
	s.mu.Unlock()
}
