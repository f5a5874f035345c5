package transaction

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/http/respond"
	"github.com/MrJamesThe3rd/warung/internal/payment"
	"github.com/MrJamesThe3rd/warung/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
	loc *time.Location
}

func NewHandler(svc *transaction.Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type itemRequest struct {
	ProductID uuid.UUID        `json:"productId" validate:"required"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Subtotal  *decimal.Decimal `json:"subtotal"`
}

type createTransactionRequest struct {
	Type          transaction.Type `json:"type" validate:"omitempty,oneof=sale purchase"`
	CustomerID    *uuid.UUID       `json:"customerId"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	PaymentStatus *payment.Status  `json:"paymentStatus" validate:"omitempty,oneof=paid partial unpaid"`
	PaidAmount    *decimal.Decimal `json:"paidAmount"`
	Notes         string           `json:"notes" validate:"max=1000"`
	Items         []itemRequest    `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	items := make([]transaction.ItemParams, len(req.Items))
	for i, it := range req.Items {
		items[i] = transaction.ItemParams{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal,
		}
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		Type:          req.Type,
		CustomerID:    req.CustomerID,
		TotalAmount:   req.TotalAmount,
		PaymentStatus: req.PaymentStatus,
		PaidAmount:    req.PaidAmount,
		Notes:         req.Notes,
		Items:         items,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{Page: respond.Page(r)}
	q := r.URL.Query()

	if s := q.Get("type"); s != "" {
		t, err := transaction.ParseType(s)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		filter.Type = &t
	}

	if s := q.Get("status"); s != "" {
		st, err := payment.Parse(s)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		filter.Status = &st
	}

	var err error

	if filter.CustomerID, err = respond.QueryUUID(r, "customerId"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.StartDate, err = respond.QueryDate(r, "startDate", h.loc); err != nil {
		respond.Error(w, r, err)
		return
	}

	end, err := respond.QueryDate(r, "endDate", h.loc)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if end != nil {
		filter.EndDate = new(end.AddDate(0, 0, 1))
	}

	txs, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.NewList(toResponseList(txs), filter.Page, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

type updateTransactionRequest struct {
	PaymentStatus *payment.Status  `json:"paymentStatus" validate:"omitempty,oneof=paid partial unpaid"`
	PaidAmount    *decimal.Decimal `json:"paidAmount"`
	Notes         *string          `json:"notes" validate:"omitempty,max=1000"`
	CustomerID    *uuid.UUID       `json:"customerId"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Update(r.Context(), id, transaction.UpdateParams{
		PaymentStatus: req.PaymentStatus,
		PaidAmount:    req.PaidAmount,
		Notes:         req.Notes,
		CustomerID:    req.CustomerID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
