package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PGStore keeps the ledger in the stock table keyed by product name.
type PGStore struct {
	DB        *pgxpool.Pool
	FloorZero bool
}

func (s *PGStore) Get(ctx context.Context, name string) (Entry, error) {
	var e Entry
	err := s.DB.QueryRow(ctx, `SELECT name, bought, available FROM stock WHERE name=$1`, name).
		Scan(&e.Name, &e.Bought, &e.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get stock %q: %w", name, err)
	}
	return e, nil
}

func (s *PGStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `SELECT name, bought, available FROM stock ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Bought, &e.Available); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ApplyDelta is a single atomic increment. With FloorZero the decrement is
// conditional and a refused row counts as matched but not modified.
func (s *PGStore) ApplyDelta(ctx context.Context, name string, delta int) (Applied, error) {
	if delta != 0 {
		ct, err := s.DB.Exec(ctx, `
			UPDATE stock SET available = available + $2
			WHERE name=$1 AND (NOT $3 OR $2 >= 0 OR available + $2 >= 0)`,
			name, delta, s.FloorZero)
		if err != nil {
			return Applied{}, fmt.Errorf("apply delta %d to %q: %w", delta, name, err)
		}
		if ct.RowsAffected() == 1 {
			return Applied{Matched: true, Modified: true}, nil
		}
	}

	var exists bool
	if err := s.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM stock WHERE name=$1)`, name).Scan(&exists); err != nil {
		return Applied{}, fmt.Errorf("match stock %q: %w", name, err)
	}
	return Applied{Matched: exists}, nil
}

func (s *PGStore) Populate(ctx context.Context, name string, quantity int) (Entry, bool, error) {
	if err := validatePopulate(name, quantity); err != nil {
		return Entry{}, false, err
	}
	var (
		e       Entry
		created bool
	)
	err := s.DB.QueryRow(ctx, `
		INSERT INTO stock(name, bought, available) VALUES ($1, $2, $2)
		ON CONFLICT (name) DO UPDATE
		SET bought = stock.bought + EXCLUDED.bought,
		    available = stock.available + EXCLUDED.available
		RETURNING name, bought, available, (xmax = 0)`,
		name, quantity).Scan(&e.Name, &e.Bought, &e.Available, &created)
	if err != nil {
		return Entry{}, false, fmt.Errorf("populate stock %q: %w", name, err)
	}
	return e, created, nil
}

func (s *PGStore) EnsureEntry(ctx context.Context, name string) (Entry, error) {
	if name == "" {
		return Entry{}, ErrNameRequired
	}
	if _, err := s.DB.Exec(ctx, `
		INSERT INTO stock(name, bought, available) VALUES ($1, 0, 0)
		ON CONFLICT (name) DO NOTHING`, name); err != nil {
		return Entry{}, fmt.Errorf("ensure stock %q: %w", name, err)
	}
	return s.Get(ctx, name)
}

func (s *PGStore) Delete(ctx context.Context, name string) error {
	if _, err := s.DB.Exec(ctx, `DELETE FROM stock WHERE name=$1`, name); err != nil {
		return fmt.Errorf("delete stock %q: %w", name, err)
	}
	return nil
}

func (s *PGStore) Rename(ctx context.Context, oldName, newName string) error {
	if newName == "" {
		return ErrNameRequired
	}
	if oldName == newName {
		return nil
	}
	_, err := s.DB.Exec(ctx, `UPDATE stock SET name=$2 WHERE name=$1`, oldName, newName)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflictf("stock entry %q already exists", newName)
	}
	if err != nil {
		return fmt.Errorf("rename stock %q: %w", oldName, err)
	}
	return nil
}
