package view

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/report"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders an amount the way receipts print it.
func FormatAmount(d decimal.Decimal) string {
	return report.FormatRupiah(d)
}

func FormatDate(t time.Time) string {
	return t.Format("02-01-2006")
}

// ParseAmount reads what a cashier types: "Rp 25.000", "25000" or "12.500,50".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "rp")
	s = strings.TrimSpace(s)

	if s == "" {
		return decimal.Zero, errors.New("amount is required")
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("amount must be a number")
	}

	if d.IsNegative() {
		return decimal.Zero, errors.New("amount must not be negative")
	}

	return d, nil
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
