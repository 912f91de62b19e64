package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
	"github.com/ariefcatur/ricemart-orders/internal/auth"
	"github.com/ariefcatur/ricemart-orders/internal/inventory"
	"github.com/ariefcatur/ricemart-orders/internal/notify"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	asha  = auth.Identity{Email: "asha@example.com", UID: "u-asha"}
	ravi  = auth.Identity{Email: "ravi@example.com", UID: "u-ravi"}
	admin = auth.Identity{Email: "admin@ricemart.com", UID: "u-admin", Admin: true}

	contact = Contact{Name: "Asha", Phone: "9999999999", Address: "12 MG Road"}
)

type alertCall struct {
	product   string
	available int
}

type recordingAlerter struct {
	mu    sync.Mutex
	calls []alertCall
}

func (a *recordingAlerter) MaybeNotify(_ context.Context, product string, available int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, alertCall{product, available})
	return true
}

type recordingEvents struct {
	mu    sync.Mutex
	types []string
	err   error
}

func (e *recordingEvents) Publish(_ context.Context, _, eventType, _ string, _ any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, eventType)
	return e.err
}

type fixture struct {
	wf     *Workflow
	repo   *MemoryRepo
	stock  *inventory.MemoryStore
	alerts *recordingAlerter
	events *recordingEvents
}

func newFixture(seed ...inventory.Entry) *fixture {
	f := &fixture{
		repo:   NewMemoryRepo(),
		stock:  inventory.NewMemoryStore(seed...),
		alerts: &recordingAlerter{},
		events: &recordingEvents{},
	}
	f.wf = NewWorkflow(f.repo, f.stock, f.alerts, f.events, zerolog.Nop())
	var mu sync.Mutex
	seq := 0
	clock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	f.wf.NewID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("order-%03d", seq)
	}
	f.wf.Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Minute)
		return clock
	}
	return f
}

func (f *fixture) available(t *testing.T, name string) int {
	t.Helper()
	e, err := f.stock.Get(context.Background(), name)
	if err != nil {
		t.Fatalf("get %s: %v", name, err)
	}
	return e.Available
}

func cart(items ...LineItem) CreateOrderInput {
	return CreateOrderInput{Items: items, Contact: contact}
}

func item(name string, qty int) LineItem {
	return LineItem{ProductName: name, UnitPrice: decimal.NewFromInt(120), Quantity: qty}
}

func TestCreateAndCancel_RestoresStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "Basmati Rice", Bought: 100, Available: 100})

	o, err := f.wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 5)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.Status != StatusPending {
		t.Errorf("expected Pending, got %s", o.Status)
	}
	if got := f.available(t, "Basmati Rice"); got != 95 {
		t.Errorf("expected available=95 after order, got %d", got)
	}

	if _, err := f.wf.UpdateStatus(ctx, asha, o.ID, "Canceled"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := f.available(t, "Basmati Rice"); got != 100 {
		t.Errorf("expected available=100 after cancel, got %d", got)
	}
}

func TestCancelTwice_RefundsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "Basmati Rice", Bought: 100, Available: 100})
	o, _ := f.wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 5)))

	for i := 0; i < 2; i++ {
		got, err := f.wf.UpdateStatus(ctx, asha, o.ID, "Canceled")
		if err != nil {
			t.Fatalf("cancel %d: %v", i, err)
		}
		if got.Status != StatusCanceled {
			t.Errorf("expected Canceled, got %s", got.Status)
		}
	}
	if got := f.available(t, "Basmati Rice"); got != 100 {
		t.Errorf("expected available=100, got %d", got)
	}
}

func TestConcurrentCancels_RefundOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "Basmati Rice", Bought: 100, Available: 100})
	o, _ := f.wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 7)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.wf.UpdateStatus(ctx, asha, o.ID, "Canceled"); err != nil {
				t.Errorf("cancel: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := f.available(t, "Basmati Rice"); got != 100 {
		t.Errorf("expected a single refund to 100, got %d", got)
	}
}

func TestCreateOrder_EmptyCartRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "Basmati Rice", Bought: 100, Available: 100})

	_, err := f.wf.CreateOrder(ctx, asha, CreateOrderInput{Contact: contact})
	if !apperr.Is(err, apperr.KindInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if got := f.available(t, "Basmati Rice"); got != 100 {
		t.Errorf("expected no stock mutation, got %d", got)
	}
	if all, _ := f.repo.ListAll(ctx); len(all) != 0 {
		t.Errorf("expected no order persisted, got %d", len(all))
	}
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "Basmati Rice", Bought: 100, Available: 100})

	_, err := f.wf.CreateOrder(ctx, auth.Identity{}, cart(item("Basmati Rice", 5)))
	if !apperr.Is(err, apperr.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if all, _ := f.repo.ListAll(ctx); len(all) != 0 {
		t.Errorf("expected nothing persisted, got %d orders", len(all))
	}
	if got := f.available(t, "Basmati Rice"); got != 100 {
		t.Errorf("expected no stock mutation, got %d", got)
	}
}

func TestCreateOrder_MissingContact(t *testing.T) {
	f := newFixture()
	in := cart(item("Basmati Rice", 1))
	in.Contact.Phone = "  "
	if _, err := f.wf.CreateOrder(context.Background(), asha, in); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestCreateOrder_BadLineItem(t *testing.T) {
	f := newFixture()
	if _, err := f.wf.CreateOrder(context.Background(), asha, cart(item("Basmati Rice", 0))); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Errorf("expected invalid input for zero quantity, got %v", err)
	}
}

func TestCreateOrder_UnknownProductTolerated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "Basmati Rice", Bought: 100, Available: 100})

	o, err := f.wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 5), item("Mystery Rice", 3)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.available(t, "Basmati Rice"); got != 95 {
		t.Errorf("expected available=95, got %d", got)
	}
	if _, err := f.stock.Get(ctx, "Mystery Rice"); !errors.Is(err, inventory.ErrNotFound) {
		t.Errorf("expected unknown product to stay absent, got %v", err)
	}
	if len(f.alerts.calls) != 1 || f.alerts.calls[0] != (alertCall{"Basmati Rice", 95}) {
		t.Errorf("expected a single check for the known product, got %v", f.alerts.calls)
	}
	if o.ID == "" {
		t.Error("expected order id")
	}
}

func TestCreateOrder_SingleProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "Sona Masoori", Bought: 200, Available: 200})
	total := decimal.RequireFromString("450.50")

	o, err := f.wf.CreateOrder(ctx, asha, CreateOrderInput{
		ProductName: "Sona Masoori",
		Description: "10kg bag",
		Quantity:    10,
		TotalPrice:  &total,
		Contact:     contact,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.Single == nil || o.Single.Quantity != 10 || !o.TotalPrice.Equal(total) {
		t.Errorf("unexpected order %+v", o)
	}
	if got := f.available(t, "Sona Masoori"); got != 190 {
		t.Errorf("expected available=190, got %d", got)
	}

	if _, err := f.wf.UpdateStatus(ctx, asha, o.ID, "Canceled"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := f.available(t, "Sona Masoori"); got != 200 {
		t.Errorf("expected available=200 after cancel, got %d", got)
	}
}

func TestCreateOrder_SingleProductIncomplete(t *testing.T) {
	f := newFixture()
	_, err := f.wf.CreateOrder(context.Background(), asha, CreateOrderInput{
		ProductName: "Sona Masoori",
		Quantity:    10,
		Contact:     contact,
	})
	if !apperr.Is(err, apperr.KindInvalidInput) {
		t.Errorf("expected invalid input without price, got %v", err)
	}
}

func TestCreateOrder_TotalPrice(t *testing.T) {
	f := newFixture()
	o, err := f.wf.CreateOrder(context.Background(), asha, cart(item("A", 2), item("B", 1)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !o.TotalPrice.Equal(decimal.NewFromInt(360)) {
		t.Errorf("expected derived total 360, got %s", o.TotalPrice)
	}

	supplied := decimal.RequireFromString("99.99")
	in := cart(item("A", 2))
	in.TotalPrice = &supplied
	o, _ = f.wf.CreateOrder(context.Background(), asha, in)
	if !o.TotalPrice.Equal(supplied) {
		t.Errorf("expected supplied total kept, got %s", o.TotalPrice)
	}
}

func TestLowStock_AlertOnEveryDeductionBelowThreshold(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	stock := inventory.NewMemoryStore(inventory.Entry{Name: "Basmati Rice", Bought: 60, Available: 60})
	sink := &countingSink{}
	n := notify.New(50, "admin@ricemart.com", sink, zerolog.Nop())
	wf := NewWorkflow(repo, stock, n, nil, zerolog.Nop())

	if _, err := wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 20))); err != nil {
		t.Fatalf("create: %v", err)
	}
	n.Wait()
	if got := sink.count(); got != 1 {
		t.Fatalf("expected 1 notification at 40, got %d", got)
	}

	if _, err := wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 20))); err != nil {
		t.Fatalf("create: %v", err)
	}
	n.Wait()
	if got := sink.count(); got != 2 {
		t.Errorf("expected a second notification at 20, got %d", got)
	}
}

type countingSink struct {
	mu sync.Mutex
	n  int
}

func (s *countingSink) Send(context.Context, notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return errors.New("smtp unreachable")
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func TestLowStock_ChecksDistinctProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "Basmati Rice", Bought: 100, Available: 100})

	if _, err := f.wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 30), item("Basmati Rice", 30))); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(f.alerts.calls) != 1 || f.alerts.calls[0] != (alertCall{"Basmati Rice", 40}) {
		t.Errorf("expected one check with available=40, got %v", f.alerts.calls)
	}
}

type brokenLedger struct {
	*inventory.MemoryStore
}

func (brokenLedger) ApplyDelta(context.Context, string, int) (inventory.Applied, error) {
	return inventory.Applied{}, errors.New("storage unavailable")
}

func TestCreateOrder_StockFailureIsDegraded(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	ledger := brokenLedger{inventory.NewMemoryStore(inventory.Entry{Name: "Basmati Rice", Bought: 10, Available: 10})}
	alerts := &recordingAlerter{}
	wf := NewWorkflow(repo, ledger, alerts, nil, zerolog.Nop())

	o, err := wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 5)))
	if err != nil {
		t.Fatalf("expected order to succeed despite stock failure, got %v", err)
	}
	if _, err := repo.Get(ctx, o.ID); err != nil {
		t.Errorf("expected order persisted, got %v", err)
	}
	if len(alerts.calls) != 0 {
		t.Errorf("expected no low stock check after failed deduction, got %v", alerts.calls)
	}

	got, err := wf.UpdateStatus(ctx, asha, o.ID, "Canceled")
	if err != nil {
		t.Fatalf("expected cancel to succeed despite refund failure, got %v", err)
	}
	if got.Status != StatusCanceled {
		t.Errorf("expected Canceled, got %s", got.Status)
	}
}

func TestCancel_FloorZeroRefundsOnlyDeducted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(
		inventory.Entry{Name: "Basmati Rice", Bought: 3, Available: 3},
		inventory.Entry{Name: "Sona Masoori", Bought: 10, Available: 10},
	)
	f.stock.FloorZero = true

	o, err := f.wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 5), item("Sona Masoori", 4)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.available(t, "Basmati Rice"); got != 3 {
		t.Errorf("expected refused deduction to leave 3, got %d", got)
	}
	if len(o.Deducted) != 1 || o.Deducted[0].ProductName != "Sona Masoori" {
		t.Errorf("expected only Sona Masoori recorded as deducted, got %+v", o.Deducted)
	}

	if _, err := f.wf.UpdateStatus(ctx, asha, o.ID, "Canceled"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := f.available(t, "Basmati Rice"); got != 3 {
		t.Errorf("expected available=3 after cancel, got %d", got)
	}
	if got := f.available(t, "Sona Masoori"); got != 10 {
		t.Errorf("expected available=10 after cancel, got %d", got)
	}
}

// failAfterLedger applies the first n deltas and then reports a storage error.
type failAfterLedger struct {
	*inventory.MemoryStore
	mu sync.Mutex
	n  int
}

func (l *failAfterLedger) ApplyDelta(ctx context.Context, name string, delta int) (inventory.Applied, error) {
	l.mu.Lock()
	if l.n == 0 {
		l.mu.Unlock()
		return inventory.Applied{}, errors.New("storage unavailable")
	}
	l.n--
	l.mu.Unlock()
	return l.MemoryStore.ApplyDelta(ctx, name, delta)
}

func TestCreateOrder_PartialDeduction(t *testing.T) {
	ctx := context.Background()
	stock := inventory.NewMemoryStore(
		inventory.Entry{Name: "Basmati Rice", Bought: 60, Available: 60},
		inventory.Entry{Name: "Jeera Rice", Bought: 60, Available: 60},
	)
	ledger := &failAfterLedger{MemoryStore: stock, n: 1}
	alerts := &recordingAlerter{}
	wf := NewWorkflow(NewMemoryRepo(), ledger, alerts, nil, zerolog.Nop())

	o, err := wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 20), item("Jeera Rice", 20)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(alerts.calls) != 1 || alerts.calls[0] != (alertCall{"Basmati Rice", 40}) {
		t.Errorf("expected low stock check for the deducted product only, got %v", alerts.calls)
	}

	ledger.n = 10
	if _, err := wf.UpdateStatus(ctx, asha, o.ID, "Canceled"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	for _, name := range []string{"Basmati Rice", "Jeera Rice"} {
		if e, _ := stock.Get(ctx, name); e.Available != 60 {
			t.Errorf("%s: expected available=60 after cancel, got %d", name, e.Available)
		}
	}
}

func TestCreateOrder_EventFailureIsDegraded(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("broker down")
	if _, err := f.wf.CreateOrder(context.Background(), asha, cart(item("A", 1))); err != nil {
		t.Errorf("expected success despite publish failure, got %v", err)
	}
	if len(f.events.types) != 1 || f.events.types[0] != EventOrderCreated {
		t.Errorf("expected one OrderCreated publish attempt, got %v", f.events.types)
	}
}

func TestUpdateStatus_InvalidStatusLeavesOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	o, _ := f.wf.CreateOrder(ctx, asha, cart(item("A", 1)))

	for _, s := range []string{"Delivered", "canceled", ""} {
		if _, err := f.wf.UpdateStatus(ctx, asha, o.ID, s); !apperr.Is(err, apperr.KindInvalidInput) {
			t.Errorf("status %q: expected invalid input, got %v", s, err)
		}
	}
	stored, _ := f.repo.Get(ctx, o.ID)
	if stored.Status != StatusPending {
		t.Errorf("expected Pending unchanged, got %s", stored.Status)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newFixture()
	if _, err := f.wf.UpdateStatus(context.Background(), asha, "nope", "Shipped"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpdateStatus_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "A", Bought: 10, Available: 10})
	o, _ := f.wf.CreateOrder(ctx, asha, cart(item("A", 1)))

	if _, err := f.wf.UpdateStatus(ctx, ravi, o.ID, "Canceled"); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if got := f.available(t, "A"); got != 9 {
		t.Errorf("expected no refund on forbidden cancel, got %d", got)
	}
	if _, err := f.wf.UpdateStatus(ctx, admin, o.ID, "Shipped"); err != nil {
		t.Errorf("expected admin override, got %v", err)
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "A", Bought: 10, Available: 10})
	o, _ := f.wf.CreateOrder(ctx, asha, cart(item("A", 1)))

	for _, s := range []string{"Placed", "Shipped", "Completed"} {
		got, err := f.wf.UpdateStatus(ctx, admin, o.ID, s)
		if err != nil {
			t.Fatalf("to %s: %v", s, err)
		}
		if string(got.Status) != s {
			t.Errorf("expected %s, got %s", s, got.Status)
		}
	}
	if _, err := f.wf.UpdateStatus(ctx, admin, o.ID, "Canceled"); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("expected conflict canceling a completed order, got %v", err)
	}
	if got := f.available(t, "A"); got != 9 {
		t.Errorf("expected stock untouched, got %d", got)
	}
}

func TestUpdateStatus_CanceledIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "A", Bought: 10, Available: 10})
	o, _ := f.wf.CreateOrder(ctx, asha, cart(item("A", 4)))
	_, _ = f.wf.UpdateStatus(ctx, asha, o.ID, "Canceled")

	if _, err := f.wf.UpdateStatus(ctx, asha, o.ID, "Shipped"); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("expected conflict leaving Canceled, got %v", err)
	}
	if got := f.available(t, "A"); got != 10 {
		t.Errorf("expected available=10, got %d", got)
	}
}

func TestLedgerInvariant_AcrossOrderSequence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.Entry{Name: "Basmati Rice", Bought: 500, Available: 500})

	qtys := []int{5, 12, 3, 40, 8, 21}
	var ids []string
	for _, q := range qtys {
		o, err := f.wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", q)))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, o.ID)
	}
	canceled := map[int]bool{1: true, 3: true, 4: true}
	for i := range canceled {
		if _, err := f.wf.UpdateStatus(ctx, asha, ids[i], "Canceled"); err != nil {
			t.Fatalf("cancel: %v", err)
		}
	}
	_, _ = f.wf.UpdateStatus(ctx, asha, ids[3], "Canceled")

	want := 500
	for i, q := range qtys {
		if !canceled[i] {
			want -= q
		}
	}
	if got := f.available(t, "Basmati Rice"); got != want {
		t.Errorf("expected available=%d, got %d", want, got)
	}
}

func TestListing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	first, _ := f.wf.CreateOrder(ctx, asha, cart(item("A", 1)))
	_, _ = f.wf.CreateOrder(ctx, ravi, cart(item("B", 1)))
	second, _ := f.wf.CreateOrder(ctx, asha, cart(item("C", 1)))
	_, _ = f.wf.UpdateStatus(ctx, asha, first.ID, "Canceled")

	mine, err := f.wf.ListForPurchaser(ctx, asha)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != second.ID || mine[1].ID != first.ID {
		t.Errorf("expected own orders newest first, got %v", orderIDs(mine))
	}

	if _, err := f.wf.ListAll(ctx, asha); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("expected forbidden for non-admin, got %v", err)
	}
	all, err := f.wf.ListAll(ctx, admin)
	if err != nil || len(all) != 3 {
		t.Errorf("expected 3 orders for admin, got %d (%v)", len(all), err)
	}

	if _, err := f.wf.GetOrder(ctx, ravi, first.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("expected forbidden reading another's order, got %v", err)
	}
}

func TestSalesSummary_ExcludesCanceled(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	total := decimal.NewFromInt(100)
	_, _ = f.wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 5), item("Jeera Rice", 2)))
	canceled, _ := f.wf.CreateOrder(ctx, asha, cart(item("Basmati Rice", 50)))
	_, _ = f.wf.CreateOrder(ctx, ravi, CreateOrderInput{ProductName: "Basmati Rice", Quantity: 3, TotalPrice: &total, Contact: contact})
	_, _ = f.wf.UpdateStatus(ctx, asha, canceled.ID, "Canceled")

	got, err := f.wf.SalesSummary(ctx, admin)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := []ProductSales{{"Basmati Rice", 8}, {"Jeera Rice", 2}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want[i], got[i])
		}
	}
}

func orderIDs(os []Order) []string {
	out := make([]string, 0, len(os))
	for _, o := range os {
		out = append(out, o.ID)
	}
	return out
}
