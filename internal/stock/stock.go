// Package stock checks and moves product quantities for transaction lines.
package stock

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
)

// Direction is which way a transaction moves goods.
type Direction int

const (
	// Out removes units, as a sale does.
	Out Direction = iota
	// In adds units, as a purchase does.
	In
)

// Line is a requested quantity of one product.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Level is a product's current stock as read under lock.
type Level struct {
	ProductID uuid.UUID
	Name      string
	Stock     int
}

var (
	ErrInsufficient    = apperr.Conflict("insufficient stock")
	ErrProductNotFound = apperr.NotFound("product not found")
)

// Locker reads stock levels and holds row locks until the surrounding
// transaction ends.
type Locker interface {
	LockStock(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Level, error)
}

// Adjuster moves stock. Decrement succeeds only when enough units remain and
// reports false otherwise.
type Adjuster interface {
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error
	// DrainStock removes up to qty units, stopping at zero.
	DrainStock(ctx context.Context, id uuid.UUID, qty int) error
}

// Merge folds repeated products into a single line each, ordered by id so
// that concurrent writers lock rows in the same order.
func Merge(lines []Line) []Line {
	totals := make(map[uuid.UUID]int, len(lines))

	for _, l := range lines {
		totals[l.ProductID] += l.Quantity
	}

	out := make([]Line, 0, len(totals))
	for id, qty := range totals {
		out = append(out, Line{ProductID: id, Quantity: qty})
	}

	slices.SortFunc(out, func(a, b Line) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})

	return out
}

func ids(lines []Line) []uuid.UUID {
	out := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		out[i] = l.ProductID
	}

	return out
}

// Check locks every product on the lines and verifies it exists. Outgoing
// lines must also fit the current stock. Lines must already be merged.
func Check(ctx context.Context, l Locker, lines []Line, dir Direction) error {
	levels, err := l.LockStock(ctx, ids(lines))
	if err != nil {
		return fmt.Errorf("locking stock: %w", err)
	}

	for _, line := range lines {
		lvl, ok := levels[line.ProductID]
		if !ok {
			return apperr.Wrap(ErrProductNotFound, "product %s not found", line.ProductID)
		}

		if dir == Out && lvl.Stock < line.Quantity {
			return insufficient(lvl, line.Quantity)
		}
	}

	return nil
}

// Apply moves stock for every line in the given direction.
func Apply(ctx context.Context, a Adjuster, lines []Line, dir Direction) error {
	for _, line := range lines {
		if dir == In {
			if err := a.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("incrementing stock: %w", err)
			}

			continue
		}

		ok, err := a.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return fmt.Errorf("decrementing stock: %w", err)
		}

		if !ok {
			return apperr.Wrap(ErrInsufficient, "insufficient stock for product %s", line.ProductID)
		}
	}

	return nil
}

// Restore undoes Apply for a removed transaction. Goods bought in are drained
// but never below zero, since they may already have been sold.
func Restore(ctx context.Context, a Adjuster, lines []Line, dir Direction) error {
	for _, line := range lines {
		var err error
		if dir == Out {
			err = a.IncrementStock(ctx, line.ProductID, line.Quantity)
		} else {
			err = a.DrainStock(ctx, line.ProductID, line.Quantity)
		}

		if err != nil {
			return fmt.Errorf("restoring stock for %s: %w", line.ProductID, err)
		}
	}

	return nil
}

func insufficient(lvl Level, requested int) error {
	return apperr.Wrap(ErrInsufficient, "insufficient stock for %q: available %d, requested %d",
		lvl.Name, lvl.Stock, requested)
}
