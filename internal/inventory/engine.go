package inventory

import (
	"context"
	"fmt"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
)

// Direction tells the engine which way an order batch moves stock.
type Direction int

const (
	Deduct Direction = iota
	Refund
)

func (d Direction) String() string {
	if d == Refund {
		return "refund"
	}
	return "deduct"
}

// Item is one (product, quantity) pair derived from an order. Quantity is
// always positive; the sign comes from the Direction.
type Item struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// Summary mirrors a bulk write result: unmatched names are counted, not failed.
// Applied lists the items that actually moved stock, in batch order.
type Summary struct {
	Matched   int      `json:"matched"`
	Modified  int      `json:"modified"`
	Unmatched []string `json:"unmatched,omitempty"`
	Applied   []Item   `json:"applied,omitempty"`
}

// Engine applies a batch of items to a Ledger one atomic increment at a time.
type Engine struct {
	Ledger Ledger
}

func NewEngine(l Ledger) *Engine { return &Engine{Ledger: l} }

// Apply validates the whole batch before touching the ledger, then applies
// each item independently. A storage error stops the batch and returns the
// summary of what was already applied.
func (e *Engine) Apply(ctx context.Context, dir Direction, items []Item) (Summary, error) {
	for _, it := range items {
		if it.ProductName == "" {
			return Summary{}, ErrNameRequired
		}
		if it.Quantity <= 0 {
			return Summary{}, apperr.InvalidInputf("invalid quantity %d for %q", it.Quantity, it.ProductName)
		}
	}

	var sum Summary
	for _, it := range items {
		delta := it.Quantity
		if dir == Deduct {
			delta = -delta
		}
		res, err := e.Ledger.ApplyDelta(ctx, it.ProductName, delta)
		if err != nil {
			return sum, fmt.Errorf("%s %q: %w", dir, it.ProductName, err)
		}
		if !res.Matched {
			sum.Unmatched = append(sum.Unmatched, it.ProductName)
			continue
		}
		sum.Matched++
		if res.Modified {
			sum.Modified++
			sum.Applied = append(sum.Applied, it)
		}
	}
	return sum, nil
}
