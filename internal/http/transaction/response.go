package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/debt"
	"github.com/MrJamesThe3rd/warung/internal/payment"
	"github.com/MrJamesThe3rd/warung/internal/transaction"
)

type transactionResponse struct {
	ID                 uuid.UUID        `json:"id"`
	InvoiceCode        string           `json:"invoiceCode"`
	Type               transaction.Type `json:"type"`
	CustomerID         *uuid.UUID       `json:"customerId"`
	Customer           *customerRef     `json:"customer,omitempty"`
	TotalAmount        decimal.Decimal  `json:"totalAmount"`
	PaidAmount         decimal.Decimal  `json:"paidAmount"`
	RemainingAmount    decimal.Decimal  `json:"remainingAmount"`
	PaymentStatus      payment.Status   `json:"paymentStatus"`
	PaymentStatusLabel string           `json:"paymentStatusLabel"`
	Notes              string           `json:"notes"`
	TransactionDate    time.Time        `json:"transactionDate"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          *time.Time       `json:"updatedAt,omitempty"`
	Items              []itemResponse   `json:"items"`
	Debt               *debtSummary     `json:"debt,omitempty"`
}

type customerRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type productRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type itemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Product   productRef      `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type debtSummary struct {
	ID            uuid.UUID       `json:"id"`
	TotalDebt     decimal.Decimal `json:"totalDebt"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	RemainingDebt decimal.Decimal `json:"remainingDebt"`
	Status        payment.Status  `json:"status"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:                 tx.ID,
		InvoiceCode:        tx.InvoiceCode,
		Type:               tx.Type,
		CustomerID:         tx.CustomerID,
		TotalAmount:        tx.TotalAmount,
		PaidAmount:         tx.PaidAmount,
		RemainingAmount:    tx.RemainingAmount(),
		PaymentStatus:      tx.PaymentStatus,
		PaymentStatusLabel: tx.PaymentStatus.Label(),
		Notes:              tx.Notes,
		TransactionDate:    tx.TransactionDate,
		CreatedAt:          tx.CreatedAt,
		UpdatedAt:          tx.UpdatedAt,
		Items:              make([]itemResponse, len(tx.Items)),
	}

	if tx.CustomerID != nil && tx.CustomerName != "" {
		resp.Customer = &customerRef{ID: *tx.CustomerID, Name: tx.CustomerName}
	}

	for i, it := range tx.Items {
		resp.Items[i] = itemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Product:   productRef{ID: it.ProductID, Name: it.ProductName},
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal,
		}
	}

	if tx.Debt != nil {
		resp.Debt = toDebtSummary(tx.Debt)
	}

	return resp
}

func toDebtSummary(d *debt.Debt) *debtSummary {
	return &debtSummary{
		ID:            d.ID,
		TotalDebt:     d.TotalDebt,
		PaidAmount:    d.PaidAmount,
		RemainingDebt: d.RemainingDebt,
		Status:        d.Status,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
