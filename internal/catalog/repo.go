package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = apperr.NotFound("rice product not found")

// Repository stores products. Create and Update return Conflict when the
// name is already taken by another product.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (Product, error)
}

func nameTaken(name string) error {
	return apperr.Conflictf("a product with the name %q already exists", name)
}

type PGRepo struct{ DB *pgxpool.Pool }

const productColumns = `id, name, description, original_price::text, discount_percentage::text,
	image_url, category, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO catalog_products(id, name, description, original_price, discount_percentage,
		                             image_url, category, created_at, updated_at)
		VALUES ($1,$2,$3,$4::numeric,$5::numeric,$6,$7,$8,$9)`,
		p.ID, p.Name, p.Description, p.OriginalPrice.String(), p.DiscountPercentage.String(),
		p.ImageURL, string(p.Category), p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return nameTaken(p.Name)
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM catalog_products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM catalog_products ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE catalog_products
		SET name=$2, description=$3, original_price=$4::numeric, discount_percentage=$5::numeric,
		    image_url=$6, category=$7, updated_at=$8
		WHERE id=$1`,
		p.ID, p.Name, p.Description, p.OriginalPrice.String(), p.DiscountPercentage.String(),
		p.ImageURL, string(p.Category), p.UpdatedAt)
	if isUniqueViolation(err) {
		return nameTaken(p.Name)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`DELETE FROM catalog_products WHERE id=$1 RETURNING `+productColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p               Product
		price, discount string
		category        string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &discount,
		&p.ImageURL, &category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	var err error
	if p.OriginalPrice, err = decimal.NewFromString(price); err != nil {
		return Product{}, fmt.Errorf("product %s price: %w", p.ID, err)
	}
	if p.DiscountPercentage, err = decimal.NewFromString(discount); err != nil {
		return Product{}, fmt.Errorf("product %s discount: %w", p.ID, err)
	}
	p.Category = Category(category)
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
