package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
	"github.com/ariefcatur/ricemart-orders/internal/inventory"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type StockHandler struct {
	Ledger inventory.Ledger
	Log    zerolog.Logger
}

type PopulateReq struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type PopulateResp struct {
	Message   string          `json:"message"`
	StockItem inventory.Entry `json:"stockItem"`
}

// BatchItem is one row of a bulk deduction.
type BatchItem struct {
	Name         string `json:"name"`
	QuantitySold int    `json:"quantitySold"`
}

type BatchResp struct {
	Message string            `json:"message"`
	Summary inventory.Summary `json:"summary"`
}

func (h *StockHandler) Register(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Get("/api/stocks", h.list)
	r.With(authn).Put("/api/stocks/populate", h.populate)
	r.With(authn).Put("/api/stocks/update-batch", h.updateBatch)
}

func (h *StockHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	out, err := h.Ledger.List(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if out == nil {
		out = []inventory.Entry{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StockHandler) populate(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(identity(r)); err != nil {
		writeError(w, h.Log, err)
		return
	}
	var req PopulateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	e, created, err := h.Ledger.Populate(ctx, req.Name, req.Quantity)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Log.Info().Str("product", e.Name).Int("added", req.Quantity).Int("bought", e.Bought).
		Int("available", e.Available).Bool("created", created).Msg("stock populated")
	if created {
		writeJSON(w, http.StatusCreated, PopulateResp{
			Message:   fmt.Sprintf("New stock item %s created and populated with %dkg.", e.Name, req.Quantity),
			StockItem: e,
		})
		return
	}
	writeJSON(w, http.StatusOK, PopulateResp{
		Message: fmt.Sprintf("Successfully added %dkg to %s. Total bought: %d, Total available: %d.",
			req.Quantity, e.Name, e.Bought, e.Available),
		StockItem: e,
	})
}

// updateBatch deducts quantities straight from the ledger. Unknown names are
// reported in the summary; nothing matching at all is a 404.
func (h *StockHandler) updateBatch(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(identity(r)); err != nil {
		writeError(w, h.Log, err)
		return
	}
	var req []BatchItem
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if len(req) == 0 {
		writeError(w, h.Log, apperr.InvalidInput("Invalid update data provided."))
		return
	}
	items := make([]inventory.Item, 0, len(req))
	for _, it := range req {
		items = append(items, inventory.Item{ProductName: it.Name, Quantity: it.QuantitySold})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	sum, err := inventory.NewEngine(h.Ledger).Apply(ctx, inventory.Deduct, items)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Log.Info().Int("matched", sum.Matched).Int("modified", sum.Modified).
		Strs("unmatched", sum.Unmatched).Msg("stock batch deducted")

	switch {
	case sum.Modified > 0:
		writeJSON(w, http.StatusOK, BatchResp{Message: fmt.Sprintf("%d stock items updated successfully.", sum.Modified), Summary: sum})
	case sum.Matched > 0:
		writeJSON(w, http.StatusOK, BatchResp{Message: "Stock items matched but no changes made.", Summary: sum})
	default:
		writeError(w, h.Log, apperr.NotFound("No matching stock items found to update."))
	}
}
