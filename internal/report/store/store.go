package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Summarize(ctx context.Context, w report.Window) (report.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM((ti.price - p.purchase_price) * ti.quantity), 0),
			COALESCE(SUM(ti.quantity), 0),
			COUNT(DISTINCT t.id)
		FROM transactions t
		JOIN transaction_items ti ON ti.transaction_id = t.id
		JOIN products p ON ti.product_id = p.id
		WHERE t.type = 'sale' AND t.transaction_date >= $1 AND t.transaction_date < $2
	`

	var sum report.Summary
	if err := s.db.QueryRowContext(ctx, query, w.Start, w.End).Scan(
		&sum.Profit, &sum.ProductsSold, &sum.Transactions,
	); err != nil {
		return report.Summary{}, fmt.Errorf("summarizing sales: %w", err)
	}

	return sum, nil
}

func (s *Store) Outstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(remaining_debt), 0) FROM debts WHERE remaining_debt > 0`,
	).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing outstanding debt: %w", err)
	}

	return total, nil
}

func (s *Store) SalesByDate(ctx context.Context, w report.Window, tz string) ([]report.DailySales, error) {
	query := `
		SELECT TO_CHAR(t.transaction_date AT TIME ZONE $3, 'YYYY-MM-DD') AS day, SUM(t.total_amount)
		FROM transactions t
		WHERE t.type = 'sale' AND t.transaction_date >= $1 AND t.transaction_date < $2
		GROUP BY day
		ORDER BY day
	`

	rows, err := s.db.QueryContext(ctx, query, w.Start, w.End, tz)
	if err != nil {
		return nil, fmt.Errorf("grouping sales by date: %w", err)
	}
	defer rows.Close()

	var out []report.DailySales

	for rows.Next() {
		var d report.DailySales
		if err := rows.Scan(&d.Date, &d.Total); err != nil {
			return nil, fmt.Errorf("scanning daily sales: %w", err)
		}

		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily sales: %w", err)
	}

	return out, nil
}

func (s *Store) TopProducts(ctx context.Context, w report.Window, limit int) ([]report.TopProduct, error) {
	query := `
		SELECT p.id, p.name, SUM(ti.quantity) AS qty, SUM(ti.subtotal)
		FROM transaction_items ti
		JOIN transactions t ON ti.transaction_id = t.id
		JOIN products p ON ti.product_id = p.id
		WHERE t.type = 'sale' AND t.transaction_date >= $1 AND t.transaction_date < $2
		GROUP BY p.id, p.name
		ORDER BY qty DESC, p.name ASC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, w.Start, w.End, limit)
	if err != nil {
		return nil, fmt.Errorf("listing top products: %w", err)
	}
	defer rows.Close()

	var out []report.TopProduct

	for rows.Next() {
		var p report.TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scanning top product: %w", err)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top products: %w", err)
	}

	return out, nil
}

func (s *Store) RecentSales(ctx context.Context, limit int) ([]report.RecentSale, error) {
	query := `
		SELECT t.id, t.invoice_code, c.name, t.total_amount, t.payment_status, t.transaction_date
		FROM transactions t
		LEFT JOIN customers c ON t.customer_id = c.id
		WHERE t.type = 'sale'
		ORDER BY t.transaction_date DESC, t.invoice_code DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent sales: %w", err)
	}
	defer rows.Close()

	var out []report.RecentSale

	for rows.Next() {
		var (
			r    report.RecentSale
			name sql.NullString
		)

		if err := rows.Scan(&r.ID, &r.InvoiceCode, &name, &r.TotalAmount, &r.PaymentStatus, &r.TransactionDate); err != nil {
			return nil, fmt.Errorf("scanning recent sale: %w", err)
		}

		r.CustomerName = name.String
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recent sales: %w", err)
	}

	return out, nil
}

func (s *Store) CustomerName(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	if err := s.db.QueryRowContext(ctx, `SELECT name FROM customers WHERE id = $1`, id).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", report.ErrCustomerNotFound
		}

		return "", fmt.Errorf("getting customer: %w", err)
	}

	return name, nil
}

func (s *Store) OpenDebts(ctx context.Context, customerID uuid.UUID) ([]report.StatementLine, error) {
	query := `
		SELECT t.invoice_code, t.transaction_date, d.total_debt, d.paid_amount, d.remaining_debt
		FROM debts d
		JOIN transactions t ON d.transaction_id = t.id
		WHERE d.customer_id = $1 AND d.remaining_debt > 0
		ORDER BY t.transaction_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing open debts: %w", err)
	}
	defer rows.Close()

	var out []report.StatementLine

	for rows.Next() {
		var l report.StatementLine
		if err := rows.Scan(&l.InvoiceCode, &l.Date, &l.Total, &l.Paid, &l.Remaining); err != nil {
			return nil, fmt.Errorf("scanning open debt: %w", err)
		}

		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating open debts: %w", err)
	}

	return out, nil
}
