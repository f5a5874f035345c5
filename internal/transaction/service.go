package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/debt"
	"github.com/MrJamesThe3rd/warung/internal/invoice"
	"github.com/MrJamesThe3rd/warung/internal/page"
	"github.com/MrJamesThe3rd/warung/internal/payment"
	"github.com/MrJamesThe3rd/warung/internal/stock"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// GetTransaction loads the transaction with its items and debt.
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, int, error)

	Begin(ctx context.Context) (UnitOfWork, error)
}

// UnitOfWork is one database transaction spanning every write a sale makes.
// Nothing is visible to other readers until Commit.
type UnitOfWork interface {
	invoice.Sequencer
	stock.Locker
	stock.Adjuster
	debt.Ledger

	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateTransaction(ctx context.Context, t *Transaction) error
	CreateItems(ctx context.Context, items []*Item) error
	// LockTransaction loads the header and items and holds the header row lock.
	LockTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, t *Transaction) error
	// DeleteTransaction removes the transaction along with its items, debt and payments.
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService builds the transaction service. Invoice dates and monthly
// counters follow loc.
func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{repo: repo, loc: loc, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type ItemParams struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	// Subtotal is optional. When present it must match Quantity times Price.
	Subtotal *decimal.Decimal
}

type CreateParams struct {
	Type          Type
	CustomerID    *uuid.UUID
	TotalAmount   decimal.Decimal
	PaymentStatus *payment.Status
	PaidAmount    *decimal.Decimal
	Notes         string
	Items         []ItemParams
}

type UpdateParams struct {
	PaymentStatus *payment.Status
	PaidAmount    *decimal.Decimal
	Notes         *string
	CustomerID    *uuid.UUID
}

type ListFilter struct {
	Type       *Type
	Status     *payment.Status
	CustomerID *uuid.UUID
	StartDate  *time.Time
	// EndDate is exclusive.
	EndDate *time.Time
	Page    page.Request
}

// Create records a sale or purchase. Every write happens in one unit of
// work: the invoice number, the header, the items, the stock movement and
// the debt either all land or none do.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if params.Type == "" {
		params.Type = TypeSale
	}

	t, err := build(params)
	if err != nil {
		return nil, err
	}

	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer apperr.Compensate("create transaction", uow.Rollback)

	if err := s.checkCustomer(ctx, uow, t.CustomerID); err != nil {
		return nil, err
	}

	lines := t.lines()
	dir := t.Type.direction()

	if err := stock.Check(ctx, uow, lines, dir); err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)

	code, err := invoice.Issue(ctx, uow, now)
	if err != nil {
		return nil, err
	}

	t.InvoiceCode = code
	t.TransactionDate = now

	if err := uow.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	for _, it := range t.Items {
		it.TransactionID = t.ID
	}

	if err := uow.CreateItems(ctx, t.Items); err != nil {
		return nil, fmt.Errorf("creating items: %w", err)
	}

	if err := stock.Apply(ctx, uow, lines, dir); err != nil {
		return nil, err
	}

	if t.Type == TypeSale {
		d, err := debt.Reconcile(ctx, uow, t.debtSource(now))
		if err != nil {
			return nil, err
		}

		t.Debt = d
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	slog.Info("transaction created",
		"invoice", t.InvoiceCode, "type", t.Type, "total", t.TotalAmount.String(), "status", t.PaymentStatus)

	return t, nil
}

// Update edits payment details, notes and the customer of a transaction.
// Items and totals are fixed once recorded.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer apperr.Compensate("update transaction", uow.Rollback)

	t, err := uow.LockTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.CustomerID != nil {
		if err := s.checkCustomer(ctx, uow, params.CustomerID); err != nil {
			return nil, err
		}

		t.CustomerID = params.CustomerID
	}

	if params.Notes != nil {
		t.Notes = strings.TrimSpace(*params.Notes)
	}

	if params.PaymentStatus != nil || params.PaidAmount != nil {
		status, paid, err := payment.Resolve(t.TotalAmount, params.PaymentStatus, params.PaidAmount)
		if err != nil {
			return nil, err
		}

		if err := status.Check(t.TotalAmount, paid); err != nil {
			return nil, err
		}

		t.PaymentStatus = status
		t.PaidAmount = paid
	}

	if t.Type == TypeSale && t.PaymentStatus != payment.StatusPaid && t.CustomerID == nil {
		return nil, ErrCustomerRequired
	}

	if err := uow.UpdateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	if t.Type == TypeSale {
		d, err := debt.Reconcile(ctx, uow, t.debtSource(s.now().In(s.loc)))
		if err != nil {
			return nil, err
		}

		t.Debt = d
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	slog.Info("transaction updated", "invoice", t.InvoiceCode, "paid", t.PaidAmount.String(), "status", t.PaymentStatus)

	return t, nil
}

// Delete removes a transaction and puts its stock movement back.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer apperr.Compensate("delete transaction", uow.Rollback)

	t, err := uow.LockTransaction(ctx, id)
	if err != nil {
		return err
	}

	if err := stock.Restore(ctx, uow, t.lines(), t.Type.direction()); err != nil {
		return err
	}

	if err := uow.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	slog.Info("transaction deleted", "invoice", t.InvoiceCode)

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, int, error) {
	filter.Page = filter.Page.Normalize()
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) checkCustomer(ctx context.Context, uow UnitOfWork, id *uuid.UUID) error {
	if id == nil {
		return nil
	}

	ok, err := uow.CustomerExists(ctx, *id)
	if err != nil {
		return fmt.Errorf("checking customer: %w", err)
	}

	if !ok {
		return ErrCustomerNotFound
	}

	return nil
}

func (t *Transaction) debtSource(at time.Time) debt.Source {
	return debt.Source{
		TransactionID: t.ID,
		CustomerID:    t.CustomerID,
		Total:         t.TotalAmount,
		Paid:          t.PaidAmount,
		At:            at,
	}
}

// build validates params and assembles an unsaved transaction. Checks run
// in a fixed order so each failure reports one specific reason.
func build(params CreateParams) (*Transaction, error) {
	if _, err := ParseType(string(params.Type)); err != nil {
		return nil, err
	}

	if len(params.Items) == 0 {
		return nil, ErrNoItems
	}

	items := make([]*Item, len(params.Items))

	for i, p := range params.Items {
		if p.Quantity <= 0 {
			return nil, apperr.Wrap(ErrInvalidQuantity, "item %d: quantity must be greater than zero", i+1)
		}

		if p.Price.IsNegative() {
			return nil, apperr.Wrap(ErrInvalidPrice, "item %d: price must not be negative", i+1)
		}

		if err := payment.CheckAmount(fmt.Sprintf("item %d: price", i+1), p.Price); err != nil {
			return nil, err
		}

		subtotal := p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		if p.Subtotal != nil && !p.Subtotal.Equal(subtotal) {
			return nil, apperr.Wrap(ErrSubtotalMismatch, "item %d: subtotal %s does not equal %d x %s",
				i+1, p.Subtotal.String(), p.Quantity, p.Price.String())
		}

		items[i] = &Item{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Price:     p.Price,
			Subtotal:  subtotal,
		}
	}

	if params.TotalAmount.IsNegative() {
		return nil, ErrInvalidTotal
	}

	status, paid, err := payment.Resolve(params.TotalAmount, params.PaymentStatus, params.PaidAmount)
	if err != nil {
		return nil, err
	}

	if err := status.Check(params.TotalAmount, paid); err != nil {
		return nil, err
	}

	if params.Type == TypeSale && status != payment.StatusPaid && params.CustomerID == nil {
		return nil, ErrCustomerRequired
	}

	return &Transaction{
		Type:          params.Type,
		CustomerID:    params.CustomerID,
		TotalAmount:   params.TotalAmount,
		PaidAmount:    paid,
		PaymentStatus: status,
		Notes:         strings.TrimSpace(params.Notes),
		Items:         items,
	}, nil
}
