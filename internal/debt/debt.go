package debt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/payment"
)

// Debt is the receivable opened when a sale is not paid in full.
// PaidAmount always equals the sum of its payments.
type Debt struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	CustomerName  string // Loaded via JOIN
	TransactionID uuid.UUID
	InvoiceCode   string // Loaded via JOIN
	TotalDebt     decimal.Decimal
	PaidAmount    decimal.Decimal
	RemainingDebt decimal.Decimal
	Status        payment.Status
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	Payments      []*Payment
}

// Payment is one installment against a debt.
type Payment struct {
	ID          uuid.UUID
	DebtID      uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Notes       string
	CreatedAt   time.Time
}

// Stats summarises the receivables book.
type Stats struct {
	TotalOutstanding decimal.Decimal
	OpenCount        int
	PaidCount        int
	CustomersOwing   int
}

var (
	ErrNotFound                = apperr.NotFound("debt not found")
	ErrInvalidAmount           = apperr.Validation("payment amount must be greater than zero")
	ErrPaymentExceedsRemaining = apperr.Validation("payment amount exceeds remaining debt")
	ErrAlreadyPaid             = apperr.Conflict("debt is already paid")
	ErrCustomerRequired        = apperr.Validation("customer is required for a sale that is not fully paid")
	ErrPaidBelowCollected      = apperr.Validation("paid amount cannot be lower than payments already recorded")
)

func (d *Debt) apply(paid decimal.Decimal) {
	d.PaidAmount = paid
	d.RemainingDebt = payment.Remaining(d.TotalDebt, paid)
	d.Status = payment.Derive(d.TotalDebt, paid)
}
