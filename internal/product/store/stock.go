package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/warung/internal/database"
	"github.com/MrJamesThe3rd/warung/internal/stock"
)

// StockLedger moves product stock on behalf of a caller-owned transaction.
type StockLedger struct {
	q database.Querier
}

func NewStockLedger(q database.Querier) *StockLedger {
	return &StockLedger{q: q}
}

// LockStock takes row locks in id order so that two sales touching the same
// products cannot deadlock.
func (l *StockLedger) LockStock(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]stock.Level, error) {
	query := `
		SELECT id, name, stock
		FROM products
		WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE
	`

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := l.q.QueryContext(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("locking products: %w", err)
	}
	defer rows.Close()

	levels := make(map[uuid.UUID]stock.Level, len(ids))

	for rows.Next() {
		var lvl stock.Level
		if err := rows.Scan(&lvl.ProductID, &lvl.Name, &lvl.Stock); err != nil {
			return nil, fmt.Errorf("scanning stock level: %w", err)
		}

		levels[lvl.ProductID] = lvl
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock levels: %w", err)
	}

	return levels, nil
}

func (l *StockLedger) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`

	res, err := l.q.ExecContext(ctx, query, qty, id)
	if err != nil {
		return false, fmt.Errorf("decrementing stock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decrementing stock: %w", err)
	}

	return n == 1, nil
}

func (l *StockLedger) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	query := `UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`

	if _, err := l.q.ExecContext(ctx, query, qty, id); err != nil {
		return fmt.Errorf("incrementing stock: %w", err)
	}

	return nil
}

func (l *StockLedger) DrainStock(ctx context.Context, id uuid.UUID, qty int) error {
	query := `UPDATE products SET stock = GREATEST(stock - $1, 0), updated_at = NOW() WHERE id = $2`

	if _, err := l.q.ExecContext(ctx, query, qty, id); err != nil {
		return fmt.Errorf("draining stock: %w", err)
	}

	return nil
}
