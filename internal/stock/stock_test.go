package stock_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/stock"
)

type shelf struct {
	levels map[uuid.UUID]*stock.Level
}

func newShelf(levels ...stock.Level) *shelf {
	s := &shelf{levels: make(map[uuid.UUID]*stock.Level)}
	for _, l := range levels {
		s.levels[l.ProductID] = &l
	}

	return s
}

func (s *shelf) LockStock(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]stock.Level, error) {
	out := make(map[uuid.UUID]stock.Level)

	for _, id := range ids {
		if l, ok := s.levels[id]; ok {
			out[id] = *l
		}
	}

	return out, nil
}

func (s *shelf) DecrementStock(_ context.Context, id uuid.UUID, qty int) (bool, error) {
	l := s.levels[id]
	if l == nil || l.Stock < qty {
		return false, nil
	}

	l.Stock -= qty

	return true, nil
}

func (s *shelf) IncrementStock(_ context.Context, id uuid.UUID, qty int) error {
	s.levels[id].Stock += qty
	return nil
}

func (s *shelf) DrainStock(_ context.Context, id uuid.UUID, qty int) error {
	s.levels[id].Stock = max(s.levels[id].Stock-qty, 0)
	return nil
}

func TestMerge(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	got := stock.Merge([]stock.Line{
		{ProductID: a, Quantity: 2},
		{ProductID: b, Quantity: 1},
		{ProductID: a, Quantity: 3},
	})

	require.Len(t, got, 2)

	byID := map[uuid.UUID]int{}
	for _, l := range got {
		byID[l.ProductID] = l.Quantity
	}

	assert.Equal(t, 5, byID[a])
	assert.Equal(t, 1, byID[b])
	assert.Equal(t, got, stock.Merge(got))
}

func TestCheck(t *testing.T) {
	noodle := uuid.New()
	missing := uuid.New()

	type testCase struct {
		name     string
		lines    []stock.Line
		dir      stock.Direction
		wantErr  error
		wantKind apperr.Kind
	}

	tests := []testCase{
		{
			name:  "Enough stock",
			lines: []stock.Line{{ProductID: noodle, Quantity: 5}},
			dir:   stock.Out,
		},
		{
			name:     "Short",
			lines:    []stock.Line{{ProductID: noodle, Quantity: 6}},
			dir:      stock.Out,
			wantErr:  stock.ErrInsufficient,
			wantKind: apperr.KindConflict,
		},
		{
			name:  "Purchase ignores level",
			lines: []stock.Line{{ProductID: noodle, Quantity: 600}},
			dir:   stock.In,
		},
		{
			name:     "Unknown product",
			lines:    []stock.Line{{ProductID: missing, Quantity: 1}},
			dir:      stock.In,
			wantErr:  stock.ErrProductNotFound,
			wantKind: apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newShelf(stock.Level{ProductID: noodle, Name: "Indomie Goreng", Stock: 5})

			err := stock.Check(context.Background(), s, tt.lines, tt.dir)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCheck_MessageNamesProduct(t *testing.T) {
	id := uuid.New()
	s := newShelf(stock.Level{ProductID: id, Name: "Kopi Kapal Api", Stock: 2})

	err := stock.Check(context.Background(), s, []stock.Line{{ProductID: id, Quantity: 3}}, stock.Out)

	assert.Equal(t, `insufficient stock for "Kopi Kapal Api": available 2, requested 3`, apperr.Message(err))
}

func TestApplyAndRestore(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	s := newShelf(stock.Level{ProductID: id, Stock: 10})
	lines := []stock.Line{{ProductID: id, Quantity: 4}}

	require.NoError(t, stock.Apply(ctx, s, lines, stock.Out))
	assert.Equal(t, 6, s.levels[id].Stock)

	require.NoError(t, stock.Restore(ctx, s, lines, stock.Out))
	assert.Equal(t, 10, s.levels[id].Stock)

	require.NoError(t, stock.Apply(ctx, s, lines, stock.In))
	assert.Equal(t, 14, s.levels[id].Stock)

	s.levels[id].Stock = 1
	require.NoError(t, stock.Restore(ctx, s, lines, stock.In))
	assert.Equal(t, 0, s.levels[id].Stock)
}

func TestApply_ConditionalDecrementFails(t *testing.T) {
	id := uuid.New()
	s := newShelf(stock.Level{ProductID: id, Stock: 1})

	err := stock.Apply(context.Background(), s, []stock.Line{{ProductID: id, Quantity: 2}}, stock.Out)

	assert.ErrorIs(t, err, stock.ErrInsufficient)
	assert.Equal(t, 1, s.levels[id].Stock)
}
