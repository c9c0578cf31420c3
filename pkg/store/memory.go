package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps designs in process memory. It is safe for
// concurrent use and backs tests and single-binary deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	designs map[uuid.UUID]Design
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{designs: make(map[uuid.UUID]Design)}
}

// Save stores a copy of the design, assigning ID and creation time if
// unset.
func (s *MemoryStore) Save(ctx context.Context, d *Design) error {
	prepare(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.designs[d.ID] = *d
	return nil
}

// Get retrieves a design by ID.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.designs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := d
	return &out, nil
}

// List returns summaries of all designs, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.designs))
	for _, d := range s.designs {
		out = append(out, Summary{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt, Pattern: d.Pattern})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// Delete removes a design by ID.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.designs[id]; !ok {
		return ErrNotFound
	}
	delete(s.designs, id)
	return nil
}

// Close does nothing for a memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
