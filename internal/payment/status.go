package payment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
)

// Status is how much of a transaction's total has been collected.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

var (
	ErrUnknownStatus    = apperr.Validation("unknown payment status")
	ErrNegativePaid     = apperr.Validation("paid amount must not be negative")
	ErrPaidExceedsTotal = apperr.Validation("paid amount must not exceed total amount")
	ErrStatusMismatch   = apperr.Validation("payment status does not match paid amount")
	ErrAmountPrecision  = apperr.Validation("amount must have at most 2 decimal places")
	ErrAmountTooLarge   = apperr.Validation("amount is too large")
)

// Amounts are stored as NUMERIC(14, 2).
const (
	AmountScale = 2
	amountLimit = 1_000_000_000_000
)

var maxAmount = decimal.NewFromInt(amountLimit)

// CheckAmount rejects amounts the database would round or refuse. Trailing
// zeros are fine: 100.000 is accepted, 100.004 is not.
func CheckAmount(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(AmountScale)) {
		return apperr.Wrap(ErrAmountPrecision, "%s %s has more than %d decimal places", field, d.String(), AmountScale)
	}

	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return apperr.Wrap(ErrAmountTooLarge, "%s %s is too large", field, d.String())
	}

	return nil
}

// Parse accepts only the three known statuses.
func Parse(s string) (Status, error) {
	switch Status(s) {
	case StatusUnpaid, StatusPartial, StatusPaid:
		return Status(s), nil
	}

	return "", apperr.Wrap(ErrUnknownStatus, "unknown payment status %q", s)
}

// Label is the shop-facing name of the status.
func (s Status) Label() string {
	switch s {
	case StatusPaid:
		return "Lunas"
	case StatusPartial:
		return "Sebagian"
	case StatusUnpaid:
		return "Belum Bayar"
	}

	return string(s)
}

// Derive computes the status implied by a paid amount.
func Derive(total, paid decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// Remaining is total minus paid, never below zero.
func Remaining(total, paid decimal.Decimal) decimal.Decimal {
	r := total.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}

	return r
}

// Check verifies that both amounts are storable, that paid is within
// [0, total] and that it agrees with s.
func (s Status) Check(total, paid decimal.Decimal) error {
	if err := CheckAmount("total amount", total); err != nil {
		return err
	}

	if err := CheckAmount("paid amount", paid); err != nil {
		return err
	}

	if paid.IsNegative() {
		return ErrNegativePaid
	}

	if paid.GreaterThan(total) {
		return ErrPaidExceedsTotal
	}

	var ok bool

	switch s {
	case StatusPaid:
		ok = paid.Equal(total)
	case StatusUnpaid:
		ok = paid.IsZero() && total.IsPositive()
	case StatusPartial:
		ok = paid.IsPositive() && paid.LessThan(total)
	default:
		return apperr.Wrap(ErrUnknownStatus, "unknown payment status %q", string(s))
	}

	if !ok {
		return apperr.Wrap(ErrStatusMismatch, "status %s requires a different paid amount (total %s, paid %s)",
			s, total.String(), paid.String())
	}

	return nil
}

// Resolve fills in whichever of status or paid the caller left out.
// A partial status cannot be resolved without an explicit paid amount.
func Resolve(total decimal.Decimal, status *Status, paid *decimal.Decimal) (Status, decimal.Decimal, error) {
	switch {
	case status != nil && paid != nil:
		return *status, *paid, nil
	case paid != nil:
		return Derive(total, *paid), *paid, nil
	case status != nil:
		switch *status {
		case StatusPaid:
			return StatusPaid, total, nil
		case StatusUnpaid:
			return StatusUnpaid, decimal.Zero, nil
		case StatusPartial:
			return "", decimal.Zero, apperr.Validation("paid amount is required for a partial payment")
		}

		return "", decimal.Zero, fmt.Errorf("resolve: %w", apperr.Wrap(ErrUnknownStatus, "unknown payment status %q", string(*status)))
	}

	return StatusPaid, total, nil
}
