// Package invoice issues human-readable transaction codes of the form
// INV-YYYYMMDD-NNNNN. The counter restarts every calendar month.
package invoice

import (
	"cmp"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const prefix = "INV"

var codePattern = regexp.MustCompile(`^INV-(\d{8})-(\d{5,})$`)

// Sequencer hands out the next counter value for a period. Implementations
// must be atomic so concurrent callers never receive the same number.
type Sequencer interface {
	NextInvoiceNumber(ctx context.Context, period string) (int64, error)
}

// Period is the counter bucket for t, as YYYYMM in t's location.
func Period(t time.Time) string {
	return t.Format("200601")
}

// Format renders a code for the n-th invoice issued on t's date.
func Format(t time.Time, n int64) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, t.Format("20060102"), n)
}

// Issue takes the next number for t's month and formats the code.
func Issue(ctx context.Context, seq Sequencer, t time.Time) (string, error) {
	n, err := seq.NextInvoiceNumber(ctx, Period(t))
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}

	return Format(t, n), nil
}

// Parse splits a code back into its date and counter.
func Parse(code string) (time.Time, int64, error) {
	m := codePattern.FindStringSubmatch(code)
	if m == nil {
		return time.Time{}, 0, fmt.Errorf("invalid invoice code %q", code)
	}

	date, err := time.Parse("20060102", m[1])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid invoice date in %q: %w", code, err)
	}

	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid invoice number in %q: %w", code, err)
	}

	return date, n, nil
}

// Compare orders codes by date, then by counter, so INV-20260105-100000
// sorts after INV-20260105-99999. Codes that do not parse sort last, by text.
func Compare(a, b string) int {
	da, na, errA := Parse(a)
	db, nb, errB := Parse(b)

	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}

	if c := da.Compare(db); c != 0 {
		return c
	}

	return cmp.Compare(na, nb)
}
