package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/debt"
	"github.com/MrJamesThe3rd/warung/internal/payment"
	"github.com/MrJamesThe3rd/warung/internal/stock"
)

// Type says whether goods left the shop or came in.
type Type string

const (
	TypeSale     Type = "sale"
	TypePurchase Type = "purchase"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeSale, TypePurchase:
		return Type(s), nil
	case "":
		return TypeSale, nil
	}

	return "", apperr.Wrap(ErrUnknownType, "unknown transaction type %q", s)
}

func (t Type) direction() stock.Direction {
	if t == TypePurchase {
		return stock.In
	}

	return stock.Out
}

// Transaction is a sale or purchase with its line items.
type Transaction struct {
	ID              uuid.UUID
	InvoiceCode     string
	Type            Type
	CustomerID      *uuid.UUID
	CustomerName    string // Loaded via JOIN
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	PaymentStatus   payment.Status
	Notes           string
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	Items           []*Item
	Debt            *debt.Debt
}

// RemainingAmount is what the customer still owes on this transaction.
func (t *Transaction) RemainingAmount() decimal.Decimal {
	return payment.Remaining(t.TotalAmount, t.PaidAmount)
}

// Item is one product line. Subtotal is always Quantity times Price.
type Item struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	ProductID     uuid.UUID
	ProductName   string // Loaded via JOIN
	Quantity      int
	Price         decimal.Decimal
	Subtotal      decimal.Decimal
	CreatedAt     time.Time
}

func (t *Transaction) lines() []stock.Line {
	lines := make([]stock.Line, len(t.Items))
	for i, it := range t.Items {
		lines[i] = stock.Line{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	return stock.Merge(lines)
}

var (
	ErrNotFound         = apperr.NotFound("transaction not found")
	ErrUnknownType      = apperr.Validation("unknown transaction type")
	ErrNoItems          = apperr.Validation("transaction must have at least one item")
	ErrInvalidQuantity  = apperr.Validation("item quantity must be greater than zero")
	ErrInvalidPrice     = apperr.Validation("item price must not be negative")
	ErrSubtotalMismatch = apperr.Validation("item subtotal must equal quantity times price")
	ErrInvalidTotal     = apperr.Validation("total amount must not be negative")
	ErrCustomerRequired = apperr.Validation("customer is required for a sale that is not fully paid")
	ErrCustomerNotFound = apperr.NotFound("customer not found")
)
