package catalog

import (
	"context"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
	"github.com/ariefcatur/ricemart-orders/internal/auth"
	"github.com/ariefcatur/ricemart-orders/internal/inventory"
	"github.com/ariefcatur/ricemart-orders/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service applies catalog changes and mirrors them onto the stock ledger:
// create ensures an entry, rename re-keys it, delete removes it. Ledger
// failures are logged and never fail the catalog write.
type Service struct {
	Products Repository
	Ledger   inventory.Ledger
	Log      zerolog.Logger
	Now      func() time.Time
	NewID    func() string
}

func NewService(repo Repository, ledger inventory.Ledger, log zerolog.Logger) *Service {
	return &Service{
		Products: repo,
		Ledger:   ledger,
		Log:      log,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.Products.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	return s.Products.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, who auth.Identity, d Draft) (Product, error) {
	if err := requireAdmin(who); err != nil {
		return Product{}, err
	}
	now := s.Now().UTC().Truncate(time.Microsecond)
	p := Product{ID: s.NewID(), CreatedAt: now, UpdatedAt: now}
	if d.OriginalPrice == nil {
		return Product{}, apperr.InvalidInput("all fields are required: name, description, original_price, image_url, category")
	}
	if err := d.apply(&p); err != nil {
		return Product{}, err
	}
	if err := s.Products.Create(ctx, &p); err != nil {
		return Product{}, err
	}
	log := s.Log.With().Str("product_id", p.ID).Str("product", p.Name).Logger()
	log.Info().Str("category", string(p.Category)).Msg("rice product created")

	if _, err := s.Ledger.EnsureEntry(context.WithoutCancel(ctx), p.Name); err != nil {
		s.degraded(log, "ensure_stock_entry", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, who auth.Identity, id string, d Draft) (Product, error) {
	if err := requireAdmin(who); err != nil {
		return Product{}, err
	}
	if d.empty() {
		return Product{}, apperr.InvalidInput("no update data provided")
	}
	p, err := s.Products.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	oldName := p.Name
	if err := d.apply(&p); err != nil {
		return Product{}, err
	}
	p.UpdatedAt = s.Now().UTC().Truncate(time.Microsecond)
	if err := s.Products.Update(ctx, &p); err != nil {
		return Product{}, err
	}
	log := s.Log.With().Str("product_id", p.ID).Str("product", p.Name).Logger()
	log.Info().Msg("rice product updated")

	if oldName != p.Name {
		if err := s.Ledger.Rename(context.WithoutCancel(ctx), oldName, p.Name); err != nil {
			s.degraded(log.With().Str("old_name", oldName).Logger(), "rename_stock_entry", err)
		}
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, who auth.Identity, id string) (Product, error) {
	if err := requireAdmin(who); err != nil {
		return Product{}, err
	}
	p, err := s.Products.Delete(ctx, id)
	if err != nil {
		return Product{}, err
	}
	log := s.Log.With().Str("product_id", p.ID).Str("product", p.Name).Logger()
	log.Info().Msg("rice product deleted")

	if err := s.Ledger.Delete(context.WithoutCancel(ctx), p.Name); err != nil {
		s.degraded(log, "delete_stock_entry", err)
	}
	return p, nil
}

func (s *Service) degraded(log zerolog.Logger, op string, err error) {
	metrics.RecordDegraded(op)
	log.Error().Err(apperr.Degraded(op, err)).Bool("degraded", true).Str("op", op).Msg("stock ledger sync failed")
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
