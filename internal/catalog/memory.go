package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu       sync.Mutex
	products map[string]Product
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{products: map[string]Product{}}
}

func (r *MemoryRepo) Create(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameUsedLocked(p.Name, p.ID) {
		return nameTaken(p.Name)
	}
	r.products[p.ID] = *p
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, id string) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) List(_ context.Context) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return ErrNotFound
	}
	if r.nameUsedLocked(p.Name, p.ID) {
		return nameTaken(p.Name)
	}
	r.products[p.ID] = *p
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	delete(r.products, id)
	return p, nil
}

func (r *MemoryRepo) nameUsedLocked(name, exceptID string) bool {
	for id, p := range r.products {
		if id != exceptID && p.Name == name {
			return true
		}
	}
	return false
}
