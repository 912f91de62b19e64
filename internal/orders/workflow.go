package orders

import (
	"context"
	"strings"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
	"github.com/ariefcatur/ricemart-orders/internal/auth"
	"github.com/ariefcatur/ricemart-orders/internal/inventory"
	"github.com/ariefcatur/ricemart-orders/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// StockAlerter is the low-stock hook run after every deduction.
type StockAlerter interface {
	MaybeNotify(ctx context.Context, productName string, available int) bool
}

// Workflow couples order status changes with their stock adjustments.
// The order write is the primary operation; stock moves, alerts and events
// are secondary and never fail or roll back a committed order.
type Workflow struct {
	Orders Repository
	Ledger inventory.Ledger
	Stock  *inventory.Engine
	Alerts StockAlerter
	Events EventPublisher
	Log    zerolog.Logger
	Now    func() time.Time
	NewID  func() string
}

func NewWorkflow(repo Repository, ledger inventory.Ledger, alerts StockAlerter, events EventPublisher, log zerolog.Logger) *Workflow {
	return &Workflow{
		Orders: repo,
		Ledger: ledger,
		Stock:  inventory.NewEngine(ledger),
		Alerts: alerts,
		Events: events,
		Log:    log,
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateOrderInput carries either a cart (Items) or the legacy single
// product fields (ProductName, Quantity, TotalPrice).
type CreateOrderInput struct {
	Items       []LineItem
	ProductName string
	Description string
	Quantity    int
	TotalPrice  *decimal.Decimal
	Contact     Contact
}

func (in CreateOrderInput) validate() error {
	c := in.Contact
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" || strings.TrimSpace(c.Address) == "" {
		return apperr.InvalidInput("user details from form (name, phone, address) are required")
	}
	if len(in.Items) == 0 {
		if in.ProductName == "" || in.TotalPrice == nil || in.Quantity == 0 {
			return apperr.InvalidInput("please provide product details or cart items")
		}
		if in.Quantity < 0 {
			return apperr.InvalidInputf("invalid quantity %d for %q", in.Quantity, in.ProductName)
		}
	}
	for i, li := range in.Items {
		if strings.TrimSpace(li.ProductName) == "" {
			return apperr.InvalidInputf("cart item %d has no product name", i)
		}
		if li.Quantity <= 0 {
			return apperr.InvalidInputf("invalid quantity %d for %q", li.Quantity, li.ProductName)
		}
		if li.UnitPrice.IsNegative() {
			return apperr.InvalidInputf("invalid price %s for %q", li.UnitPrice, li.ProductName)
		}
	}
	if in.TotalPrice != nil && in.TotalPrice.IsNegative() {
		return apperr.InvalidInput("total price cannot be negative")
	}
	return nil
}

// CreateOrder persists a Pending order, then deducts its stock and checks
// the touched products against the low-stock threshold.
func (w *Workflow) CreateOrder(ctx context.Context, who auth.Identity, in CreateOrderInput) (Order, error) {
	if who.Email == "" {
		return Order{}, apperr.Unauthenticated("user authentication error: email not found in token")
	}
	if err := in.validate(); err != nil {
		return Order{}, err
	}

	now := w.Now().UTC().Truncate(time.Microsecond)
	o := Order{
		ID: w.NewID(),
		Purchaser: Purchaser{
			Email:   who.Email,
			UID:     who.UID,
			Name:    strings.TrimSpace(in.Contact.Name),
			Phone:   strings.TrimSpace(in.Contact.Phone),
			Address: strings.TrimSpace(in.Contact.Address),
		},
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(in.Items) > 0 {
		o.LineItems = append([]LineItem(nil), in.Items...)
		if in.TotalPrice != nil {
			o.TotalPrice = *in.TotalPrice
		} else {
			for _, li := range in.Items {
				o.TotalPrice = o.TotalPrice.Add(li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))))
			}
		}
	} else {
		o.Single = &SingleProduct{ProductName: in.ProductName, Description: in.Description, Quantity: in.Quantity}
		o.TotalPrice = *in.TotalPrice
	}

	if err := w.Orders.Create(ctx, &o); err != nil {
		return Order{}, err
	}
	log := w.Log.With().Str("order_id", o.ID).Str("purchaser", o.Purchaser.Email).Logger()
	log.Info().Int("items", len(o.StockItems())).Str("total", o.TotalPrice.String()).Msg("order saved")

	// The order is committed; a client disconnect must not skip the deduction.
	sctx := context.WithoutCancel(ctx)
	sum, err := w.Stock.Apply(sctx, inventory.Deduct, o.StockItems())
	touched := o.ProductNames()
	if err != nil {
		w.degraded(log, "deduct_stock", err)
		touched = distinctNames(sum.Applied)
	} else {
		w.recordSummary(log, inventory.Deduct, sum)
	}
	o.Deducted = sum.Applied
	if len(o.Deducted) > 0 {
		if rerr := w.Orders.RecordDeduction(sctx, o.ID, o.Deducted); rerr != nil {
			w.degraded(log, "record_deduction", rerr)
		}
	}
	w.checkLowStock(sctx, log, touched)

	w.publish(sctx, log, TopicOrderCreated, EventOrderCreated, o.ID, OrderCreatedPayload{
		OrderID:        o.ID,
		PurchaserEmail: o.Purchaser.Email,
		Items:          o.StockItems(),
		TotalPrice:     o.TotalPrice.String(),
		Stock:          summaryOrNil(sum, err),
	})
	return o, nil
}

func (w *Workflow) checkLowStock(ctx context.Context, log zerolog.Logger, names []string) {
	if w.Alerts == nil {
		return
	}
	for _, name := range names {
		e, err := w.Ledger.Get(ctx, name)
		if apperr.Is(err, apperr.KindNotFound) {
			continue
		}
		if err != nil {
			w.degraded(log.With().Str("product", name).Logger(), "low_stock_check", err)
			continue
		}
		w.Alerts.MaybeNotify(ctx, e.Name, e.Available)
	}
}

// UpdateStatus moves an order to a new status. Entering Canceled refunds what
// the order's creation actually deducted, exactly once: only the caller that
// wins the status swap performs the refund, and repeating a cancel is a no-op.
func (w *Workflow) UpdateStatus(ctx context.Context, who auth.Identity, orderID, rawStatus string) (Order, error) {
	next, err := ParseStatus(rawStatus)
	if err != nil {
		return Order{}, err
	}
	if who.Email == "" {
		return Order{}, apperr.Unauthenticated("user authentication error: email not found in token")
	}
	o, err := w.Orders.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !canModify(who, o) {
		return Order{}, apperr.Forbidden("you do not own this order")
	}
	if o.Status == next {
		return o, nil
	}
	if !CanTransition(o.Status, next) {
		return Order{}, apperr.Conflictf("cannot change order status from %s to %s", o.Status, next)
	}

	prev := o.Status
	now := w.Now().UTC().Truncate(time.Microsecond)
	swapped, err := w.Orders.CompareAndSetStatus(ctx, o.ID, prev, next, now)
	if err != nil {
		return Order{}, err
	}
	if !swapped {
		cur, err := w.Orders.Get(ctx, o.ID)
		if err != nil {
			return Order{}, err
		}
		if cur.Status == next {
			return cur, nil
		}
		return Order{}, apperr.Conflictf("order status changed concurrently to %s", cur.Status)
	}
	o.Status, o.UpdatedAt = next, now

	log := w.Log.With().Str("order_id", o.ID).Str("from", string(prev)).Str("to", string(next)).Logger()
	log.Info().Str("by", who.Email).Msg("order status updated")

	sctx := context.WithoutCancel(ctx)
	refunded := false
	if next == StatusCanceled && len(o.Deducted) > 0 {
		sum, err := w.Stock.Apply(sctx, inventory.Refund, o.Deducted)
		if err != nil {
			w.degraded(log, "refund_stock", err)
		} else {
			refunded = true
			w.recordSummary(log, inventory.Refund, sum)
		}
	}

	w.publish(sctx, log, TopicOrderStatusChanged, EventOrderStatusChanged, o.ID, OrderStatusChangedPayload{
		OrderID:       o.ID,
		From:          prev,
		To:            next,
		StockRefunded: refunded,
	})
	return o, nil
}

// GetOrder returns an order visible to who.
func (w *Workflow) GetOrder(ctx context.Context, who auth.Identity, orderID string) (Order, error) {
	if who.Email == "" {
		return Order{}, apperr.Unauthenticated("user authentication error: email not found in token")
	}
	o, err := w.Orders.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !canModify(who, o) {
		return Order{}, apperr.Forbidden("you do not own this order")
	}
	return o, nil
}

// ListForPurchaser returns who's orders, newest first, in every status.
func (w *Workflow) ListForPurchaser(ctx context.Context, who auth.Identity) ([]Order, error) {
	if who.Email == "" {
		return nil, apperr.Unauthenticated("user identification failed or email not found in token")
	}
	return w.Orders.ListByPurchaser(ctx, who.Email)
}

func (w *Workflow) ListAll(ctx context.Context, who auth.Identity) ([]Order, error) {
	if err := requireAdmin(who); err != nil {
		return nil, err
	}
	return w.Orders.ListAll(ctx)
}

// OrderHistory lists orders currently in Placed.
func (w *Workflow) OrderHistory(ctx context.Context, who auth.Identity) ([]Order, error) {
	if err := requireAdmin(who); err != nil {
		return nil, err
	}
	return w.Orders.ListByStatus(ctx, StatusPlaced)
}

func (w *Workflow) SalesSummary(ctx context.Context, who auth.Identity) ([]ProductSales, error) {
	if err := requireAdmin(who); err != nil {
		return nil, err
	}
	all, err := w.Orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(all), nil
}

func canModify(who auth.Identity, o Order) bool {
	return who.Admin || strings.EqualFold(who.Email, o.Purchaser.Email)
}

func requireAdmin(who auth.Identity) error {
	if who.Email == "" {
		return apperr.Unauthenticated("authentication required")
	}
	if !who.Admin {
		return apperr.Forbidden("admin role required")
	}
	return nil
}

func (w *Workflow) degraded(log zerolog.Logger, op string, err error) {
	metrics.RecordDegraded(op)
	log.Error().Err(apperr.Degraded(op, err)).Bool("degraded", true).Str("op", op).Msg("side effect failed after commit")
}

func (w *Workflow) recordSummary(log zerolog.Logger, dir inventory.Direction, sum inventory.Summary) {
	if len(sum.Unmatched) > 0 {
		metrics.RecordUnmatched(len(sum.Unmatched))
		log.Warn().Strs("unmatched", sum.Unmatched).Str("direction", dir.String()).Msg("order items matched no stock entry")
	}
	log.Info().Int("matched", sum.Matched).Int("modified", sum.Modified).Str("direction", dir.String()).Msg("stock adjusted")
}

func (w *Workflow) publish(ctx context.Context, log zerolog.Logger, topic, eventType, orderID string, payload any) {
	if w.Events == nil {
		return
	}
	if err := w.Events.Publish(ctx, topic, eventType, orderID, payload); err != nil {
		w.degraded(log, "publish_"+eventType, err)
	}
}

func distinctNames(items []inventory.Item) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		if !seen[it.ProductName] {
			seen[it.ProductName] = true
			out = append(out, it.ProductName)
		}
	}
	return out
}

func summaryOrNil(sum inventory.Summary, err error) *inventory.Summary {
	if err != nil {
		return nil
	}
	return &sum
}
