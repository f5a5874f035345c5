package store

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/warung/internal/database"
)

// Sequencer keeps one counter row per month. Run inside the sale's
// transaction, a rollback returns the number to the pool.
type Sequencer struct {
	q database.Querier
}

func NewSequencer(q database.Querier) *Sequencer {
	return &Sequencer{q: q}
}

func (s *Sequencer) NextInvoiceNumber(ctx context.Context, period string) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (period, last_number)
		VALUES ($1, 1)
		ON CONFLICT (period) DO UPDATE SET last_number = invoice_sequences.last_number + 1
		RETURNING last_number
	`

	var n int64
	if err := s.q.QueryRowContext(ctx, query, period).Scan(&n); err != nil {
		return 0, fmt.Errorf("incrementing invoice sequence: %w", err)
	}

	return n, nil
}
