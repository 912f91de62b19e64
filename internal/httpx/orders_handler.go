package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
	"github.com/ariefcatur/ricemart-orders/internal/metrics"
	"github.com/ariefcatur/ricemart-orders/internal/orders"
	"github.com/ariefcatur/ricemart-orders/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// IdempotencyStore maps client Idempotency-Key headers to created orders.
type IdempotencyStore interface {
	Claim(ctx context.Context, purchaser, key string) (claimed bool, orderID string, err error)
	Complete(ctx context.Context, purchaser, key, orderID string) error
	Release(ctx context.Context, purchaser, key string) error
}

type StatusCache interface {
	Set(ctx context.Context, cs redisx.CachedStatus) error
	Get(ctx context.Context, orderID string) (redisx.CachedStatus, bool, error)
}

// OrdersHandler serves the order endpoints. Idem and Status are optional.
type OrdersHandler struct {
	Workflow *orders.Workflow
	Idem     IdempotencyStore
	Status   StatusCache
	Log      zerolog.Logger
}

type CreateOrderReq struct {
	ProductName string            `json:"productName"`
	Description string            `json:"description"`
	TotalPrice  *decimal.Decimal  `json:"totalPrice"`
	Quantity    int               `json:"quantity"`
	UserDetails orders.Contact    `json:"userDetails"`
	CartItems   []orders.LineItem `json:"cartItems"`
}

type CreateOrderResp struct {
	Message    string       `json:"message"`
	OrderID    string       `json:"orderId"`
	Order      orders.Order `json:"order"`
	Idempotent bool         `json:"idempotent"`
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) Register(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Post("/api/orders", h.createOrder)
		r.Get("/api/orders", h.listMine)
		r.Get("/api/orders/{id}", h.getOrder)
		r.Get("/api/orders/{id}/status", h.getStatus)
		r.Put("/api/orders/{id}", h.updateStatus)
		r.Get("/api/admin/all-orders", h.listAll)
		r.Get("/api/order-history", h.history)
		r.Get("/api/stock-summary", h.salesSummary)
	})
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	who := identity(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	claimed := false
	if key != "" && h.Idem != nil && who.Email != "" {
		ok, existing, err := h.Idem.Claim(ctx, who.Email, key)
		switch {
		case err != nil:
			h.Log.Warn().Err(err).Msg("idempotency store unavailable; creating without it")
		case ok:
			claimed = true
		case existing == "":
			writeError(w, h.Log, apperr.Conflictf("a request with this idempotency key is already in progress"))
			return
		default:
			o, err := h.Workflow.GetOrder(ctx, who, existing)
			if err != nil {
				writeError(w, h.Log, err)
				return
			}
			writeJSON(w, http.StatusOK, CreateOrderResp{Message: "Order already placed", OrderID: o.ID, Order: o, Idempotent: true})
			return
		}
	}

	o, err := h.Workflow.CreateOrder(ctx, who, orders.CreateOrderInput{
		Items:       req.CartItems,
		ProductName: req.ProductName,
		Description: req.Description,
		Quantity:    req.Quantity,
		TotalPrice:  req.TotalPrice,
		Contact:     req.UserDetails,
	})
	metrics.RecordOrderOperation("create", err == nil)
	if err != nil {
		if claimed {
			_ = h.Idem.Release(context.WithoutCancel(ctx), who.Email, key)
		}
		writeError(w, h.Log, err)
		return
	}
	if claimed {
		if err := h.Idem.Complete(ctx, who.Email, key, o.ID); err != nil {
			h.Log.Warn().Err(err).Str("order_id", o.ID).Msg("idempotency record not saved")
		}
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusCreated, CreateOrderResp{Message: "Order placed successfully", OrderID: o.ID, Order: o})
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	out, err := h.Workflow.ListForPurchaser(ctx, identity(r))
	h.respondList(w, out, err)
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	out, err := h.Workflow.ListAll(ctx, identity(r))
	h.respondList(w, out, err)
}

func (h *OrdersHandler) history(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	out, err := h.Workflow.OrderHistory(ctx, identity(r))
	h.respondList(w, out, err)
}

func (h *OrdersHandler) respondList(w http.ResponseWriter, out []orders.Order, err error) {
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) salesSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	out, err := h.Workflow.SalesSummary(ctx, identity(r))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	o, err := h.Workflow.GetOrder(ctx, identity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// getStatus answers from the cache when the caller may see the order, and
// falls back to the store otherwise.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	who := identity(r)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache
	if h.Status != nil {
		cs, ok, err := h.Status.Get(ctx, orderID)
		if err != nil {
			h.Log.Warn().Err(err).Str("order_id", orderID).Msg("status cache read failed")
		}
		if ok && (who.Admin || strings.EqualFold(cs.Purchaser, who.Email)) {
			writeJSON(w, http.StatusOK, cs)
			return
		}
	}

	// 2) fallback DB
	o, err := h.Workflow.GetOrder(ctx, who, orderID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cacheStatus(ctx, o))
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Workflow.UpdateStatus(ctx, identity(r), chi.URLParam(r, "id"), req.Status)
	metrics.RecordOrderOperation("update_status", err == nil)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Order status updated to " + string(o.Status), "order": o})
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, o orders.Order) redisx.CachedStatus {
	cs := redisx.CachedStatus{
		OrderID:   o.ID,
		Status:    string(o.Status),
		Purchaser: o.Purchaser.Email,
		UpdatedAt: o.UpdatedAt,
	}
	if h.Status != nil {
		if err := h.Status.Set(ctx, cs); err != nil {
			h.Log.Warn().Err(err).Str("order_id", o.ID).Msg("status cache write failed")
		}
	}
	return cs
}
