package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/warung/internal/database"
	"github.com/MrJamesThe3rd/warung/internal/debt"
)

// Ledger writes debts and payments through a caller-owned transaction.
type Ledger struct {
	q database.Querier
}

func NewLedger(q database.Querier) *Ledger {
	return &Ledger{q: q}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, customer_id, customer_name, transaction_id, invoice_code,
// total_debt, paid_amount, remaining_debt, status, created_at, updated_at
func scanDebt(s scanner) (*debt.Debt, error) {
	var d debt.Debt

	if err := s.Scan(
		&d.ID, &d.CustomerID, &d.CustomerName, &d.TransactionID, &d.InvoiceCode,
		&d.TotalDebt, &d.PaidAmount, &d.RemainingDebt, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &d, nil
}

const selectDebtColumns = `
	d.id, d.customer_id, c.name AS customer_name, d.transaction_id, t.invoice_code,
	d.total_debt, d.paid_amount, d.remaining_debt, d.status, d.created_at, d.updated_at
`

const fromDebts = `
	FROM debts d
	JOIN customers c ON d.customer_id = c.id
	JOIN transactions t ON d.transaction_id = t.id
`

func (l *Ledger) GetDebtByTransaction(ctx context.Context, transactionID uuid.UUID) (*debt.Debt, error) {
	query := `SELECT ` + selectDebtColumns + fromDebts + ` WHERE d.transaction_id = $1 FOR UPDATE OF d`

	d, err := scanDebt(l.q.QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, debt.ErrNotFound
		}

		return nil, fmt.Errorf("getting debt by transaction: %w", err)
	}

	return d, nil
}

func (l *Ledger) CreateDebt(ctx context.Context, d *debt.Debt) error {
	query := `
		INSERT INTO debts (customer_id, transaction_id, total_debt, paid_amount, remaining_debt, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := l.q.QueryRowContext(ctx, query,
		d.CustomerID, d.TransactionID, d.TotalDebt, d.PaidAmount, d.RemainingDebt, d.Status,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating debt: %w", err)
	}

	return nil
}

func (l *Ledger) UpdateDebt(ctx context.Context, d *debt.Debt) error {
	query := `
		UPDATE debts
		SET customer_id = $1, paid_amount = $2, remaining_debt = $3, status = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := l.q.QueryRowContext(ctx, query,
		d.CustomerID, d.PaidAmount, d.RemainingDebt, d.Status, d.ID,
	).Scan(&d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return debt.ErrNotFound
		}

		return fmt.Errorf("updating debt: %w", err)
	}

	return nil
}

func (l *Ledger) CreatePayment(ctx context.Context, p *debt.Payment) error {
	query := `
		INSERT INTO debt_payments (debt_id, amount, payment_date, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := l.q.QueryRowContext(ctx, query, p.DebtID, p.Amount, p.PaymentDate, p.Notes).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating debt payment: %w", err)
	}

	return nil
}
