package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/inventory"
)

// MemoryRepo is a process-local Repository for STORE_DRIVER=memory and tests.
type MemoryRepo struct {
	mu     sync.Mutex
	orders map[string]Order
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{orders: map[string]Order{}}
}

func (r *MemoryRepo) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = clone(*o)
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, id string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return clone(o), nil
}

func (r *MemoryRepo) ListByPurchaser(_ context.Context, email string) ([]Order, error) {
	return r.filter(func(o Order) bool { return o.Purchaser.Email == email }), nil
}

func (r *MemoryRepo) ListAll(_ context.Context) ([]Order, error) {
	return r.filter(func(Order) bool { return true }), nil
}

func (r *MemoryRepo) ListByStatus(_ context.Context, s Status) ([]Order, error) {
	return r.filter(func(o Order) bool { return o.Status == s }), nil
}

func (r *MemoryRepo) CompareAndSetStatus(_ context.Context, id string, from, to Status, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = at
	r.orders[id] = o
	return true, nil
}

func (r *MemoryRepo) RecordDeduction(_ context.Context, id string, items []inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Deducted = append([]inventory.Item(nil), items...)
	r.orders[id] = o
	return nil
}

func (r *MemoryRepo) filter(keep func(Order) bool) []Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Order
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func clone(o Order) Order {
	o.LineItems = append([]LineItem(nil), o.LineItems...)
	o.Deducted = append([]inventory.Item(nil), o.Deducted...)
	if o.Single != nil {
		s := *o.Single
		o.Single = &s
	}
	return o
}
