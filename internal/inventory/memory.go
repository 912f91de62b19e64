package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
)

// MemoryStore is a process-local Ledger used by STORE_DRIVER=memory and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Entry

	// FloorZero refuses deductions that would take Available below zero.
	FloorZero bool
}

func NewMemoryStore(seed ...Entry) *MemoryStore {
	s := &MemoryStore{entries: make(map[string]*Entry, len(seed))}
	for _, e := range seed {
		e := e
		s.entries[e.Name] = &e
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, name string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return *e, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) ApplyDelta(_ context.Context, name string, delta int) (Applied, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		return Applied{}, nil
	}
	if delta == 0 {
		return Applied{Matched: true}, nil
	}
	if s.FloorZero && delta < 0 && e.Available+delta < 0 {
		return Applied{Matched: true}, nil
	}
	e.Available += delta
	return Applied{Matched: true, Modified: true}, nil
}

func (s *MemoryStore) Populate(_ context.Context, name string, quantity int) (Entry, bool, error) {
	if err := validatePopulate(name, quantity); err != nil {
		return Entry{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[name]; ok {
		e.Bought += quantity
		e.Available += quantity
		return *e, false, nil
	}
	e := &Entry{Name: name, Bought: quantity, Available: quantity}
	s.entries[name] = e
	return *e, true, nil
}

func (s *MemoryStore) EnsureEntry(_ context.Context, name string) (Entry, error) {
	if name == "" {
		return Entry{}, ErrNameRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		e = &Entry{Name: name}
		s.entries[name] = e
	}
	return *e, nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, name)
	return nil
}

func (s *MemoryStore) Rename(_ context.Context, oldName, newName string) error {
	if newName == "" {
		return ErrNameRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[oldName]
	if !ok || oldName == newName {
		return nil
	}
	if _, taken := s.entries[newName]; taken {
		return apperr.Conflictf("stock entry %q already exists", newName)
	}
	delete(s.entries, oldName)
	e.Name = newName
	s.entries[newName] = e
	return nil
}
