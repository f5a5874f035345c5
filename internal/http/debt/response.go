package debt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/debt"
	"github.com/MrJamesThe3rd/warung/internal/payment"
)

type debtResponse struct {
	ID            uuid.UUID         `json:"id"`
	CustomerID    uuid.UUID         `json:"customerId"`
	Customer      customerRef       `json:"customer"`
	TransactionID uuid.UUID         `json:"transactionId"`
	InvoiceCode   string            `json:"invoiceCode"`
	TotalDebt     decimal.Decimal   `json:"totalDebt"`
	PaidAmount    decimal.Decimal   `json:"paidAmount"`
	RemainingDebt decimal.Decimal   `json:"remainingDebt"`
	Status        payment.Status    `json:"status"`
	StatusLabel   string            `json:"statusLabel"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     *time.Time        `json:"updatedAt,omitempty"`
	Payments      []paymentResponse `json:"payments,omitempty"`
}

type customerRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type paymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	DebtID      uuid.UUID       `json:"debtId"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type paymentResultResponse struct {
	Payment paymentResponse `json:"payment"`
	Debt    debtResponse    `json:"debt"`
}

type statsResponse struct {
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	TotalPaidCount   int             `json:"totalPaidCount"`
	OpenCount        int             `json:"openCount"`
	CustomersOwing   int             `json:"customersOwing"`
}

func toResponse(d *debt.Debt) debtResponse {
	resp := debtResponse{
		ID:            d.ID,
		CustomerID:    d.CustomerID,
		Customer:      customerRef{ID: d.CustomerID, Name: d.CustomerName},
		TransactionID: d.TransactionID,
		InvoiceCode:   d.InvoiceCode,
		TotalDebt:     d.TotalDebt,
		PaidAmount:    d.PaidAmount,
		RemainingDebt: d.RemainingDebt,
		Status:        d.Status,
		StatusLabel:   d.Status.Label(),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}

	if len(d.Payments) > 0 {
		resp.Payments = toPaymentList(d.Payments)
	}

	return resp
}

func toPaymentResponse(p *debt.Payment) paymentResponse {
	return paymentResponse{
		ID:          p.ID,
		DebtID:      p.DebtID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

func toPaymentList(ps []*debt.Payment) []paymentResponse {
	resp := make([]paymentResponse, len(ps))
	for i, p := range ps {
		resp[i] = toPaymentResponse(p)
	}

	return resp
}

func toResponseList(ds []*debt.Debt) []debtResponse {
	resp := make([]debtResponse, len(ds))
	for i, d := range ds {
		resp[i] = toResponse(d)
	}

	return resp
}
