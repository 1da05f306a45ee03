package trades

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/fxagents/internal/core"
)

// Store keeps uploaded datasets in process memory.
//
// A Store is created at process start and handed to the handlers that need it; Clear is
// called on shutdown. Entries never expire and nothing is persisted, so every dataset is
// lost on restart.
type Store struct {
	datasets map[string]*Dataset
	order    []string // insertion order for listing
	mu       sync.RWMutex
	now      func() time.Time
}

// NewStore creates an empty dataset store.
func NewStore() *Store {
	return &Store{
		datasets: make(map[string]*Dataset),
		now:      time.Now,
	}
}

// Put stores a dataset under a new timestamp-derived identifier and returns it.
func (s *Store) Put(ds *Dataset) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ds.ID = fmt.Sprintf("data_%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8])
	ds.CreatedAt = now

	s.datasets[ds.ID] = ds
	s.order = append(s.order, ds.ID)
	return ds.ID
}

// Get retrieves a dataset by ID.
func (s *Store) Get(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, core.WrapError(core.ErrNotFound, fmt.Errorf("dataset %q", id))
	}
	return ds, nil
}

// List returns stored datasets, newest first.
func (s *Store) List() []*Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Dataset, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, s.datasets[s.order[i]])
	}
	return result
}

// Len returns the number of stored datasets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}

// Clear drops every dataset.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets = make(map[string]*Dataset)
	s.order = nil
}
