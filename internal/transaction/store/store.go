package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/warung/internal/database"
	"github.com/MrJamesThe3rd/warung/internal/debt"
	debtStore "github.com/MrJamesThe3rd/warung/internal/debt/store"
	invoiceStore "github.com/MrJamesThe3rd/warung/internal/invoice/store"
	productStore "github.com/MrJamesThe3rd/warung/internal/product/store"
	"github.com/MrJamesThe3rd/warung/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order: id, invoice_code, type, customer_id, customer_name, total_amount,
// paid_amount, payment_status, notes, transaction_date, created_at, updated_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var t transaction.Transaction

	var customerName sql.NullString

	if err := s.Scan(
		&t.ID, &t.InvoiceCode, &t.Type, &t.CustomerID, &customerName,
		&t.TotalAmount, &t.PaidAmount, &t.PaymentStatus, &t.Notes,
		&t.TransactionDate, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.CustomerName = customerName.String

	return &t, nil
}

const selectTransactionColumns = `
	t.id, t.invoice_code, t.type, t.customer_id, c.name AS customer_name, t.total_amount,
	t.paid_amount, t.payment_status, t.notes, t.transaction_date, t.created_at, t.updated_at
`

const fromTransactions = `
	FROM transactions t
	LEFT JOIN customers c ON t.customer_id = c.id
`

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	t, err := getTransaction(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}

	d, err := findDebt(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	t.Debt = d

	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, int, error) {
	where := " WHERE 1 = 1"

	var args []any

	argIdx := 1

	if filter.Type != nil {
		where += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Status != nil {
		where += fmt.Sprintf(" AND t.payment_status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.CustomerID != nil {
		where += fmt.Sprintf(" AND t.customer_id = $%d", argIdx)

		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if filter.StartDate != nil {
		where += fmt.Sprintf(" AND t.transaction_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		where += fmt.Sprintf(" AND t.transaction_date < $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+fromTransactions+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting transactions: %w", err)
	}

	query := `SELECT ` + selectTransactionColumns + fromTransactions + where +
		fmt.Sprintf(" ORDER BY t.transaction_date DESC, t.invoice_code DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)

	args = append(args, filter.Page.Normalize().Limit, filter.Page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var (
		txs  []*transaction.Transaction
		byID = map[uuid.UUID]*transaction.Transaction{}
		ids  []string
	)

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
		byID[t.ID] = t
		ids = append(ids, t.ID.String())
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating transactions: %w", err)
	}

	if len(ids) == 0 {
		return txs, total, nil
	}

	items, err := listItems(ctx, s.db, `ti.transaction_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, 0, err
	}

	for _, it := range items {
		if t := byID[it.TransactionID]; t != nil {
			t.Items = append(t.Items, it)
		}
	}

	return txs, total, nil
}

func getTransaction(ctx context.Context, q database.Querier, id uuid.UUID, lock bool) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + ` WHERE t.id = $1`
	if lock {
		query += ` FOR UPDATE OF t`
	}

	t, err := scanTransaction(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	items, err := listItems(ctx, q, `ti.transaction_id = $1`, id)
	if err != nil {
		return nil, err
	}

	t.Items = items

	return t, nil
}

func listItems(ctx context.Context, q database.Querier, cond string, arg any) ([]*transaction.Item, error) {
	query := `
		SELECT ti.id, ti.transaction_id, ti.product_id, p.name, ti.quantity, ti.price, ti.subtotal, ti.created_at
		FROM transaction_items ti
		JOIN products p ON ti.product_id = p.id
		WHERE ` + cond + `
		ORDER BY ti.created_at ASC, ti.id ASC`

	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []*transaction.Item

	for rows.Next() {
		var it transaction.Item
		if err := rows.Scan(
			&it.ID, &it.TransactionID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.Price, &it.Subtotal, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, &it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return items, nil
}

func findDebt(ctx context.Context, q database.Querier, transactionID uuid.UUID) (*debt.Debt, error) {
	query := `
		SELECT id, customer_id, transaction_id, total_debt, paid_amount, remaining_debt, status, created_at, updated_at
		FROM debts
		WHERE transaction_id = $1
	`

	var d debt.Debt

	err := q.QueryRowContext(ctx, query, transactionID).Scan(
		&d.ID, &d.CustomerID, &d.TransactionID, &d.TotalDebt, &d.PaidAmount,
		&d.RemainingDebt, &d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting debt: %w", err)
	}

	return &d, nil
}

// unitOfWork stitches the invoice, stock and debt ledgers onto one *sql.Tx.
type unitOfWork struct {
	*invoiceStore.Sequencer
	*productStore.StockLedger
	*debtStore.Ledger

	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (transaction.UnitOfWork, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return &unitOfWork{
		Sequencer:   invoiceStore.NewSequencer(dbTx),
		StockLedger: productStore.NewStockLedger(dbTx),
		Ledger:      debtStore.NewLedger(dbTx),
		tx:          dbTx,
	}, nil
}

func (u *unitOfWork) Commit() error { return u.tx.Commit() }

func (u *unitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (u *unitOfWork) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	if err := u.tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("checking customer: %w", err)
	}

	return ok, nil
}

func (u *unitOfWork) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (invoice_code, type, customer_id, total_amount, paid_amount, payment_status, notes, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := u.tx.QueryRowContext(ctx, query,
		t.InvoiceCode,
		t.Type,
		t.CustomerID,
		t.TotalAmount,
		t.PaidAmount,
		t.PaymentStatus,
		t.Notes,
		t.TransactionDate,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (u *unitOfWork) CreateItems(ctx context.Context, items []*transaction.Item) error {
	query := `
		INSERT INTO transaction_items (transaction_id, product_id, quantity, price, subtotal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	for _, it := range items {
		err := u.tx.QueryRowContext(ctx, query,
			it.TransactionID, it.ProductID, it.Quantity, it.Price, it.Subtotal,
		).Scan(&it.ID, &it.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating item: %w", err)
		}
	}

	return nil
}

func (u *unitOfWork) LockTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return getTransaction(ctx, u.tx, id, true)
}

func (u *unitOfWork) UpdateTransaction(ctx context.Context, t *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET customer_id = $1, paid_amount = $2, payment_status = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := u.tx.QueryRowContext(ctx, query,
		t.CustomerID, t.PaidAmount, t.PaymentStatus, t.Notes, t.ID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (u *unitOfWork) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := u.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
