// Package inventory keeps the per-product stock ledger and applies batched
// stock adjustments derived from orders.
package inventory

import (
	"context"
	"strings"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
)

// Entry is the ledger row for one product. Name is the join key to the catalog.
type Entry struct {
	Name      string `json:"name"`
	Bought    int    `json:"bought"`
	Available int    `json:"available"`
}

// Applied reports how a single delta landed on the ledger.
// An unmatched name is not an error.
type Applied struct {
	Matched  bool
	Modified bool
}

var (
	ErrNotFound        = apperr.NotFound("stock entry not found")
	ErrInvalidQuantity = apperr.InvalidInput("quantity must be positive")
	ErrNameRequired    = apperr.InvalidInput("product name is required")
)

// Ledger is the only shared mutable resource. Implementations must apply
// deltas as a single atomic increment per entry, never read-modify-write.
type Ledger interface {
	Get(ctx context.Context, name string) (Entry, error)
	List(ctx context.Context) ([]Entry, error)
	ApplyDelta(ctx context.Context, name string, delta int) (Applied, error)
	// Populate adds quantity to both fields, creating the entry if absent.
	// created is true when a new entry was inserted.
	Populate(ctx context.Context, name string, quantity int) (e Entry, created bool, err error)
	EnsureEntry(ctx context.Context, name string) (Entry, error)
	Delete(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName, newName string) error
}

func validatePopulate(name string, quantity int) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}
