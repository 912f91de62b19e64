package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	Service *catalog.Service
	Log     zerolog.Logger
}

// ProductView adds the derived effective price to a product.
type ProductView struct {
	catalog.Product
	EffectivePrice decimal.Decimal `json:"effective_price"`
}

func viewOf(p catalog.Product) ProductView {
	return ProductView{Product: p, EffectivePrice: p.EffectivePrice()}
}

type productResp struct {
	Message string      `json:"message"`
	Product ProductView `json:"product"`
}

func (h *CatalogHandler) Register(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Get("/api/riceproducts", h.list)
	r.Get("/api/riceproducts/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Post("/api/riceproducts", h.create)
		r.Put("/api/riceproducts/{id}", h.update)
		r.Delete("/api/riceproducts/{id}", h.delete)
	})
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	ps, err := h.Service.List(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, viewOf(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	p, err := h.Service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(p))
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var d catalog.Draft
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p, err := h.Service.Create(ctx, identity(r), d)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, productResp{Message: "Rice product created successfully", Product: viewOf(p)})
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	var d catalog.Draft
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p, err := h.Service.Update(ctx, identity(r), chi.URLParam(r, "id"), d)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, productResp{Message: "Rice product updated successfully", Product: viewOf(p)})
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p, err := h.Service.Delete(ctx, identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, productResp{Message: "Rice product deleted successfully", Product: viewOf(p)})
}
