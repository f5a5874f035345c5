package invoice_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/invoice"
)

type memSequencer struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func (m *memSequencer) NextInvoiceNumber(_ context.Context, period string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.counters == nil {
		m.counters = map[string]int64{}
	}

	m.counters[period]++

	return m.counters[period], nil
}

func TestFormat(t *testing.T) {
	at := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-20251201-00001", invoice.Format(at, 1))
	assert.Equal(t, "INV-20251201-00042", invoice.Format(at, 42))
	assert.Equal(t, "INV-20251201-123456", invoice.Format(at, 123456))
}

func TestIssue_MonthlyReset(t *testing.T) {
	ctx := context.Background()
	seq := &memSequencer{}

	type testCase struct {
		name string
		at   time.Time
		want string
	}

	tests := []testCase{
		{name: "First of November", at: time.Date(2025, 11, 30, 23, 0, 0, 0, time.UTC), want: "INV-20251130-00001"},
		{name: "Second of November", at: time.Date(2025, 11, 30, 23, 30, 0, 0, time.UTC), want: "INV-20251130-00002"},
		{name: "First of December", at: time.Date(2025, 12, 1, 0, 5, 0, 0, time.UTC), want: "INV-20251201-00001"},
		{name: "Second of December", at: time.Date(2025, 12, 2, 8, 0, 0, 0, time.UTC), want: "INV-20251202-00002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := invoice.Issue(ctx, seq, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssue_UsesLocalDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 20:00 UTC on Nov 30 is already Dec 1 in Jakarta.
	at := time.Date(2025, 11, 30, 20, 0, 0, 0, time.UTC).In(jakarta)

	got, err := invoice.Issue(context.Background(), &memSequencer{}, at)
	require.NoError(t, err)
	assert.Equal(t, "INV-20251201-00001", got)
	assert.Equal(t, "202512", invoice.Period(at))
}

func TestIssue_Concurrent(t *testing.T) {
	seq := &memSequencer{}
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	const n = 50

	codes := make(chan string, n)

	var wg sync.WaitGroup
	for range n {
		wg.Go(func() {
			code, err := invoice.Issue(context.Background(), seq, at)
			if err == nil {
				codes <- code
			}
		})
	}

	wg.Wait()
	close(codes)

	seen := map[string]bool{}
	for c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}

	assert.Len(t, seen, n)
}

func TestIssue_SequencerError(t *testing.T) {
	_, err := invoice.Issue(context.Background(), &memSequencer{err: errors.New("db down")}, time.Now())
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	date, n, err := invoice.Parse("INV-20251201-00017")
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), date)

	_, _, err = invoice.Parse("INV-2025-1")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	codes := []string{
		"INV-20260105-100000",
		"legacy-7",
		"INV-20260105-99999",
		"INV-20251231-00001",
		"INV-20260105-00002",
	}

	slices.SortFunc(codes, invoice.Compare)

	assert.Equal(t, []string{
		"INV-20251231-00001",
		"INV-20260105-00002",
		"INV-20260105-99999",
		"INV-20260105-100000",
		"legacy-7",
	}, codes)
}
