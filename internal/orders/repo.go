package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
	"github.com/ariefcatur/ricemart-orders/internal/inventory"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = apperr.NotFound("order not found")

// Repository persists orders. Orders are never deleted; after Create only
// Status, UpdatedAt and the recorded deduction change.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (Order, error)
	ListByPurchaser(ctx context.Context, email string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByStatus(ctx context.Context, s Status) ([]Order, error)
	// CompareAndSetStatus moves id from one status to another and reports
	// false when the stored status was no longer from.
	CompareAndSetStatus(ctx context.Context, id string, from, to Status, at time.Time) (bool, error)
	// RecordDeduction replaces the items the ledger took for id.
	RecordDeduction(ctx context.Context, id string, items []inventory.Item) error
}

type PGRepo struct{ DB *pgxpool.Pool }

const orderColumns = `id, purchaser_email, purchaser_uid, purchaser_name, purchaser_phone, purchaser_address,
	single_product_name, single_description, single_quantity, total_price::text, status, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		singleName, singleDesc *string
		singleQty              *int
	)
	if o.Single != nil {
		singleName, singleDesc, singleQty = &o.Single.ProductName, &o.Single.Description, &o.Single.Quantity
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, purchaser_email, purchaser_uid, purchaser_name, purchaser_phone, purchaser_address,
		                   single_product_name, single_description, single_quantity, total_price, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::numeric,$11,$12,$13)`,
		o.ID, o.Purchaser.Email, o.Purchaser.UID, o.Purchaser.Name, o.Purchaser.Phone, o.Purchaser.Address,
		singleName, singleDesc, singleQty, o.TotalPrice.String(), string(o.Status), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, li := range o.LineItems {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_line_items(order_id, position, product_name, unit_price, quantity)
			VALUES ($1,$2,$3,$4::numeric,$5)`,
			o.ID, i, li.ProductName, li.UnitPrice.String(), li.Quantity); err != nil {
			return fmt.Errorf("insert line item %d: %w", i, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) Get(ctx context.Context, id string) (Order, error) {
	out, err := r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
	if err != nil {
		return Order{}, err
	}
	if len(out) == 0 {
		return Order{}, ErrNotFound
	}
	return out[0], nil
}

func (r *PGRepo) ListByPurchaser(ctx context.Context, email string) ([]Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE purchaser_email=$1 ORDER BY created_at DESC`, email)
}

func (r *PGRepo) ListAll(ctx context.Context) ([]Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *PGRepo) ListByStatus(ctx context.Context, s Status) ([]Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE status=$1 ORDER BY created_at DESC`, string(s))
}

func (r *PGRepo) CompareAndSetStatus(ctx context.Context, id string, from, to Status, at time.Time) (bool, error) {
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$3, updated_at=$4 WHERE id=$1 AND status=$2`,
		id, string(from), string(to), at)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *PGRepo) RecordDeduction(ctx context.Context, id string, items []inventory.Item) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_stock_deductions WHERE order_id=$1`, id); err != nil {
		return fmt.Errorf("clear deduction: %w", err)
	}
	for i, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_stock_deductions(order_id, position, product_name, quantity)
			VALUES ($1,$2,$3,$4)`,
			id, i, it.ProductName, it.Quantity); err != nil {
			return fmt.Errorf("insert deduction %d: %w", i, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) query(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var (
		out   []Order
		ids   []string
		index = map[string]int{}
	)
	for rows.Next() {
		var (
			o                      Order
			singleName, singleDesc *string
			singleQty              *int
			total, status          string
		)
		if err := rows.Scan(&o.ID, &o.Purchaser.Email, &o.Purchaser.UID, &o.Purchaser.Name, &o.Purchaser.Phone,
			&o.Purchaser.Address, &singleName, &singleDesc, &singleQty, &total, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if o.TotalPrice, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("order %s total: %w", o.ID, err)
		}
		o.Status = Status(status)
		if singleName != nil {
			o.Single = &SingleProduct{ProductName: *singleName}
			if singleDesc != nil {
				o.Single.Description = *singleDesc
			}
			if singleQty != nil {
				o.Single.Quantity = *singleQty
			}
		}
		index[o.ID] = len(out)
		ids = append(ids, o.ID)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := r.DB.Query(ctx, `
		SELECT order_id, product_name, unit_price::text, quantity
		FROM order_line_items WHERE order_id = ANY($1) ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer items.Close()
	for items.Next() {
		var (
			orderID, price string
			li             LineItem
		)
		if err := items.Scan(&orderID, &li.ProductName, &price, &li.Quantity); err != nil {
			return nil, err
		}
		if li.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("order %s line price: %w", orderID, err)
		}
		i := index[orderID]
		out[i].LineItems = append(out[i].LineItems, li)
	}
	if err := items.Err(); err != nil {
		return nil, err
	}

	moved, err := r.DB.Query(ctx, `
		SELECT order_id, product_name, quantity
		FROM order_stock_deductions WHERE order_id = ANY($1) ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, fmt.Errorf("query deductions: %w", err)
	}
	defer moved.Close()
	for moved.Next() {
		var (
			orderID string
			it      inventory.Item
		)
		if err := moved.Scan(&orderID, &it.ProductName, &it.Quantity); err != nil {
			return nil, err
		}
		i := index[orderID]
		out[i].Deducted = append(out[i].Deducted, it)
	}
	return out, moved.Err()
}
