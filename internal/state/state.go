package state

import (
	"sort"
	"sync"

	"github.com/hamed0406/tracegate/internal/domain"
)

// Store keeps the latest probe record per service for the status server.
// Nothing is persisted; a restart starts blank.
type Store struct {
	mu      sync.RWMutex
	records map[string]*domain.ProbeRecord
}

func New() *Store {
	return &Store{records: make(map[string]*domain.ProbeRecord)}
}

// Set records r unless a newer record for the same service is already held.
func (s *Store) Set(r *domain.ProbeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.records[r.Service]
	if cur == nil || !r.CheckedAt.Before(cur.CheckedAt) {
		s.records[r.Service] = r
	}
}

func (s *Store) Get(service string) (*domain.ProbeRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[service]
	return r, ok
}

// All returns the held records sorted by service name.
func (s *Store) All() []*domain.ProbeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ProbeRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Service < out[j].Service })
	return out
}
