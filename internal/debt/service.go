package debt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/page"
	"github.com/MrJamesThe3rd/warung/internal/payment"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=debt
type Repository interface {
	GetDebt(ctx context.Context, id uuid.UUID) (*Debt, error)
	ListDebts(ctx context.Context, filter ListFilter) ([]*Debt, int, error)
	ListPayments(ctx context.Context, debtID uuid.UUID) ([]*Payment, error)
	Stats(ctx context.Context) (*Stats, error)
	// ListBalances returns every debt next to the sum of its recorded payments.
	ListBalances(ctx context.Context) ([]Balance, error)

	BeginPayment(ctx context.Context) (PaymentTx, error)
}

// PaymentTx records a payment and rewrites the debt and its sale atomically.
//
// Row locks are taken sale first, then debt, the same order sale edits and
// deletes use.
type PaymentTx interface {
	// LockSale holds the row lock of the sale the debt belongs to.
	LockSale(ctx context.Context, debtID uuid.UUID) error
	// LockDebt reads the debt and holds its row lock until commit.
	LockDebt(ctx context.Context, id uuid.UUID) (*Debt, error)
	CreatePayment(ctx context.Context, p *Payment) error
	SumPayments(ctx context.Context, debtID uuid.UUID) (decimal.Decimal, error)
	UpdateDebt(ctx context.Context, d *Debt) error
	// SyncTransaction copies the debt's paid amount and status onto its sale.
	SyncTransaction(ctx context.Context, transactionID uuid.UUID, paid decimal.Decimal, status payment.Status) error
	Commit() error
	Rollback() error
}

type Balance struct {
	Debt          *Debt
	PaymentsTotal decimal.Decimal
}

type ListFilter struct {
	CustomerID *uuid.UUID
	Status     *payment.Status
	// OpenOnly keeps debts with something left to pay.
	OpenOnly bool
	Page     page.Request
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the time source used for payment dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type RecordPaymentParams struct {
	DebtID uuid.UUID
	Amount decimal.Decimal
	Notes  string
}

type PaymentResult struct {
	Payment *Payment
	Debt    *Debt
}

// RecordPayment applies an installment. The debt row is locked for the
// duration so concurrent payments serialise, and the new paid amount is
// recomputed from the payment ledger rather than incremented.
func (s *Service) RecordPayment(ctx context.Context, params RecordPaymentParams) (*PaymentResult, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if err := payment.CheckAmount("payment amount", params.Amount); err != nil {
		return nil, err
	}

	ptx, err := s.repo.BeginPayment(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payment: %w", err)
	}
	defer apperr.Compensate("record debt payment", ptx.Rollback)

	d, err := lock(ctx, ptx, params.DebtID)
	if err != nil {
		return nil, err
	}

	if !d.RemainingDebt.IsPositive() {
		return nil, ErrAlreadyPaid
	}

	if params.Amount.GreaterThan(d.RemainingDebt) {
		return nil, apperr.Wrap(ErrPaymentExceedsRemaining, "payment amount %s exceeds remaining debt %s",
			params.Amount.String(), d.RemainingDebt.String())
	}

	p := &Payment{
		DebtID:      d.ID,
		Amount:      params.Amount,
		PaymentDate: s.now(),
		Notes:       params.Notes,
	}

	if err := ptx.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("recording payment: %w", err)
	}

	if err := s.settle(ctx, ptx, d); err != nil {
		return nil, err
	}

	if err := ptx.Commit(); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}

	slog.Info("debt payment recorded",
		"debt_id", d.ID, "amount", p.Amount.String(), "remaining", d.RemainingDebt.String(), "status", d.Status)

	return &PaymentResult{Payment: p, Debt: d}, nil
}

func lock(ctx context.Context, ptx PaymentTx, id uuid.UUID) (*Debt, error) {
	if err := ptx.LockSale(ctx, id); err != nil {
		return nil, err
	}

	return ptx.LockDebt(ctx, id)
}

// settle recomputes d from its payments and propagates the result to the sale.
func (s *Service) settle(ctx context.Context, ptx PaymentTx, d *Debt) error {
	paid, err := ptx.SumPayments(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("summing payments: %w", err)
	}

	d.apply(paid)

	if err := ptx.UpdateDebt(ctx, d); err != nil {
		return fmt.Errorf("updating debt: %w", err)
	}

	if err := ptx.SyncTransaction(ctx, d.TransactionID, d.PaidAmount, d.Status); err != nil {
		return fmt.Errorf("syncing transaction: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Debt, error) {
	d, err := s.repo.GetDebt(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPayments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}

	d.Payments = payments

	return d, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Debt, int, error) {
	filter.Page = filter.Page.Normalize()
	return s.repo.ListDebts(ctx, filter)
}

func (s *Service) Payments(ctx context.Context, debtID uuid.UUID) ([]*Payment, error) {
	if _, err := s.repo.GetDebt(ctx, debtID); err != nil {
		return nil, err
	}

	return s.repo.ListPayments(ctx, debtID)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

// Discrepancy is a debt whose stored figures disagree with its payments.
type Discrepancy struct {
	DebtID            uuid.UUID
	InvoiceCode       string
	PaidAmount        decimal.Decimal
	PaymentsTotal     decimal.Decimal
	RemainingDebt     decimal.Decimal
	ExpectedRemaining decimal.Decimal
	Status            payment.Status
	ExpectedStatus    payment.Status
}

// Verify lists debts whose paid amount, remaining amount or status do not
// follow from their payment ledger.
func (s *Service) Verify(ctx context.Context) ([]Discrepancy, error) {
	balances, err := s.repo.ListBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing balances: %w", err)
	}

	var out []Discrepancy

	for _, b := range balances {
		d := b.Debt
		wantRemaining := payment.Remaining(d.TotalDebt, b.PaymentsTotal)
		wantStatus := payment.Derive(d.TotalDebt, b.PaymentsTotal)

		if d.PaidAmount.Equal(b.PaymentsTotal) && d.RemainingDebt.Equal(wantRemaining) && d.Status == wantStatus {
			continue
		}

		out = append(out, Discrepancy{
			DebtID:            d.ID,
			InvoiceCode:       d.InvoiceCode,
			PaidAmount:        d.PaidAmount,
			PaymentsTotal:     b.PaymentsTotal,
			RemainingDebt:     d.RemainingDebt,
			ExpectedRemaining: wantRemaining,
			Status:            d.Status,
			ExpectedStatus:    wantStatus,
		})
	}

	return out, nil
}

// Repair rewrites each listed debt from its payments. It returns how many
// debts were fixed before the first failure.
func (s *Service) Repair(ctx context.Context, ds []Discrepancy) (int, error) {
	fixed := 0

	for _, disc := range ds {
		if err := s.repairOne(ctx, disc.DebtID); err != nil {
			return fixed, fmt.Errorf("repairing debt %s: %w", disc.DebtID, err)
		}

		fixed++
	}

	return fixed, nil
}

func (s *Service) repairOne(ctx context.Context, id uuid.UUID) error {
	ptx, err := s.repo.BeginPayment(ctx)
	if err != nil {
		return fmt.Errorf("begin repair: %w", err)
	}
	defer apperr.Compensate("repair debt", ptx.Rollback)

	d, err := lock(ctx, ptx, id)
	if err != nil {
		return err
	}

	if err := s.settle(ctx, ptx, d); err != nil {
		return err
	}

	if err := ptx.Commit(); err != nil {
		return fmt.Errorf("commit repair: %w", err)
	}

	slog.Info("debt repaired", "debt_id", d.ID, "paid", d.PaidAmount.String(), "status", d.Status)

	return nil
}
