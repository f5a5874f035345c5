package debt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/payment"
)

// Ledger is the debt storage a reconciliation writes through. It is always
// bound to the database transaction of the sale being reconciled.
type Ledger interface {
	// GetDebtByTransaction returns ErrNotFound when the sale has no debt.
	GetDebtByTransaction(ctx context.Context, transactionID uuid.UUID) (*Debt, error)
	CreateDebt(ctx context.Context, d *Debt) error
	UpdateDebt(ctx context.Context, d *Debt) error
	CreatePayment(ctx context.Context, p *Payment) error
}

// Source is the state of a sale that its debt must mirror.
type Source struct {
	TransactionID uuid.UUID
	CustomerID    *uuid.UUID
	Total         decimal.Decimal
	Paid          decimal.Decimal
	At            time.Time
}

const (
	noteInitialPayment = "initial payment"
	noteSaleEdit       = "recorded from sale edit"
)

// Reconcile makes the sale's debt agree with src. A debt is opened when
// something remains to be paid and none exists, and an existing debt is
// brought in line otherwise. Money collected through the sale itself is
// recorded as a payment so the payment ledger stays the source of truth.
// Running it twice on the same source writes nothing the second time.
// The returned debt is nil when the sale has never needed one.
func Reconcile(ctx context.Context, l Ledger, src Source) (*Debt, error) {
	remaining := payment.Remaining(src.Total, src.Paid)

	existing, err := l.GetDebtByTransaction(ctx, src.TransactionID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("loading debt: %w", err)
	}

	if existing == nil {
		if !remaining.IsPositive() {
			return nil, nil
		}

		return open(ctx, l, src)
	}

	if src.Paid.LessThan(existing.PaidAmount) {
		return nil, ErrPaidBelowCollected
	}

	if remaining.IsPositive() && src.CustomerID == nil {
		return nil, ErrCustomerRequired
	}

	changed := false

	if delta := src.Paid.Sub(existing.PaidAmount); delta.IsPositive() {
		p := &Payment{DebtID: existing.ID, Amount: delta, PaymentDate: src.At, Notes: noteSaleEdit}
		if err := l.CreatePayment(ctx, p); err != nil {
			return nil, fmt.Errorf("recording payment: %w", err)
		}

		existing.Payments = append(existing.Payments, p)
		changed = true
	}

	if src.CustomerID != nil && *src.CustomerID != existing.CustomerID {
		existing.CustomerID = *src.CustomerID
		changed = true
	}

	before := *existing
	existing.apply(src.Paid)

	if !changed &&
		before.RemainingDebt.Equal(existing.RemainingDebt) &&
		before.Status == existing.Status {
		return existing, nil
	}

	if err := l.UpdateDebt(ctx, existing); err != nil {
		return nil, fmt.Errorf("updating debt: %w", err)
	}

	return existing, nil
}

func open(ctx context.Context, l Ledger, src Source) (*Debt, error) {
	if src.CustomerID == nil {
		return nil, ErrCustomerRequired
	}

	d := &Debt{
		CustomerID:    *src.CustomerID,
		TransactionID: src.TransactionID,
		TotalDebt:     src.Total,
	}
	d.apply(src.Paid)

	if err := l.CreateDebt(ctx, d); err != nil {
		return nil, fmt.Errorf("creating debt: %w", err)
	}

	if src.Paid.IsPositive() {
		p := &Payment{DebtID: d.ID, Amount: src.Paid, PaymentDate: src.At, Notes: noteInitialPayment}
		if err := l.CreatePayment(ctx, p); err != nil {
			return nil, fmt.Errorf("recording initial payment: %w", err)
		}

		d.Payments = append(d.Payments, p)
	}

	return d, nil
}
