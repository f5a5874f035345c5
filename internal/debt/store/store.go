package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/debt"
	"github.com/MrJamesThe3rd/warung/internal/payment"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetDebt(ctx context.Context, id uuid.UUID) (*debt.Debt, error) {
	query := `SELECT ` + selectDebtColumns + fromDebts + ` WHERE d.id = $1`

	d, err := scanDebt(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, debt.ErrNotFound
		}

		return nil, fmt.Errorf("getting debt: %w", err)
	}

	return d, nil
}

func (s *Store) ListDebts(ctx context.Context, filter debt.ListFilter) ([]*debt.Debt, int, error) {
	where := " WHERE 1 = 1"

	var args []any

	argIdx := 1

	if filter.CustomerID != nil {
		where += fmt.Sprintf(" AND d.customer_id = $%d", argIdx)

		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if filter.Status != nil {
		where += fmt.Sprintf(" AND d.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.OpenOnly {
		where += " AND d.remaining_debt > 0"
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+fromDebts+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting debts: %w", err)
	}

	query := `SELECT ` + selectDebtColumns + fromDebts + where +
		fmt.Sprintf(" ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)

	args = append(args, filter.Page.Normalize().Limit, filter.Page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing debts: %w", err)
	}
	defer rows.Close()

	var out []*debt.Debt

	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning debt: %w", err)
		}

		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating debts: %w", err)
	}

	return out, total, nil
}

func (s *Store) ListPayments(ctx context.Context, debtID uuid.UUID) ([]*debt.Payment, error) {
	query := `
		SELECT id, debt_id, amount, payment_date, notes, created_at
		FROM debt_payments
		WHERE debt_id = $1
		ORDER BY payment_date ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var out []*debt.Payment

	for rows.Next() {
		var p debt.Payment
		if err := rows.Scan(&p.ID, &p.DebtID, &p.Amount, &p.PaymentDate, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		out = append(out, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return out, nil
}

func (s *Store) Stats(ctx context.Context) (*debt.Stats, error) {
	query := `
		SELECT
			COALESCE(SUM(remaining_debt), 0),
			COUNT(*) FILTER (WHERE remaining_debt > 0),
			COUNT(*) FILTER (WHERE remaining_debt = 0),
			COUNT(DISTINCT customer_id) FILTER (WHERE remaining_debt > 0)
		FROM debts
	`

	var st debt.Stats
	if err := s.db.QueryRowContext(ctx, query).Scan(
		&st.TotalOutstanding, &st.OpenCount, &st.PaidCount, &st.CustomersOwing,
	); err != nil {
		return nil, fmt.Errorf("debt stats: %w", err)
	}

	return &st, nil
}

func (s *Store) ListBalances(ctx context.Context) ([]debt.Balance, error) {
	query := `SELECT ` + selectDebtColumns + `,
			COALESCE((SELECT SUM(p.amount) FROM debt_payments p WHERE p.debt_id = d.id), 0)
		` + fromDebts + ` ORDER BY d.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing balances: %w", err)
	}
	defer rows.Close()

	var out []debt.Balance

	for rows.Next() {
		var (
			d   debt.Debt
			sum decimal.Decimal
		)

		if err := rows.Scan(
			&d.ID, &d.CustomerID, &d.CustomerName, &d.TransactionID, &d.InvoiceCode,
			&d.TotalDebt, &d.PaidAmount, &d.RemainingDebt, &d.Status,
			&d.CreatedAt, &d.UpdatedAt, &sum,
		); err != nil {
			return nil, fmt.Errorf("scanning balance: %w", err)
		}

		out = append(out, debt.Balance{Debt: &d, PaymentsTotal: sum})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating balances: %w", err)
	}

	return out, nil
}

type paymentTx struct {
	*Ledger
	tx *sql.Tx
}

func (s *Store) BeginPayment(ctx context.Context) (debt.PaymentTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning payment tx: %w", err)
	}

	return &paymentTx{Ledger: NewLedger(dbTx), tx: dbTx}, nil
}

func (ptx *paymentTx) Commit() error { return ptx.tx.Commit() }

func (ptx *paymentTx) Rollback() error {
	if err := ptx.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (ptx *paymentTx) LockSale(ctx context.Context, debtID uuid.UUID) error {
	query := `
		SELECT t.id
		FROM transactions t
		JOIN debts d ON d.transaction_id = t.id
		WHERE d.id = $1
		FOR UPDATE OF t
	`

	var id uuid.UUID
	if err := ptx.tx.QueryRowContext(ctx, query, debtID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return debt.ErrNotFound
		}

		return fmt.Errorf("locking sale: %w", err)
	}

	return nil
}

func (ptx *paymentTx) LockDebt(ctx context.Context, id uuid.UUID) (*debt.Debt, error) {
	query := `SELECT ` + selectDebtColumns + fromDebts + ` WHERE d.id = $1 FOR UPDATE OF d`

	d, err := scanDebt(ptx.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, debt.ErrNotFound
		}

		return nil, fmt.Errorf("locking debt: %w", err)
	}

	return d, nil
}

func (ptx *paymentTx) SumPayments(ctx context.Context, debtID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := ptx.tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM debt_payments WHERE debt_id = $1`, debtID,
	).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("summing payments: %w", err)
	}

	return sum, nil
}

func (ptx *paymentTx) SyncTransaction(ctx context.Context, transactionID uuid.UUID, paid decimal.Decimal, status payment.Status) error {
	query := `
		UPDATE transactions
		SET paid_amount = LEAST($1, total_amount), payment_status = $2, updated_at = NOW()
		WHERE id = $3
	`

	if _, err := ptx.tx.ExecContext(ctx, query, paid, status, transactionID); err != nil {
		return fmt.Errorf("syncing transaction payment: %w", err)
	}

	return nil
}
