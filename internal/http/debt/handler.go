package debt

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/debt"
	"github.com/MrJamesThe3rd/warung/internal/http/respond"
	"github.com/MrJamesThe3rd/warung/internal/payment"
)

type Handler struct {
	svc *debt.Service
}

func NewHandler(svc *debt.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts under /debts.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/stats", h.stats)
	r.Get("/{id}", h.get)
	r.Get("/{id}/payments", h.payments)
	r.Post("/{id}/payments", h.recordForDebt)
}

// PaymentRoutes mounts under /debt-payments.
func (h *Handler) PaymentRoutes(r chi.Router) {
	r.Post("/", h.record)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := debt.ListFilter{Page: respond.Page(r)}

	if s := r.URL.Query().Get("status"); s != "" {
		st, err := payment.Parse(s)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		filter.Status = &st
	}

	filter.OpenOnly = r.URL.Query().Get("open") == "true"

	var err error
	if filter.CustomerID, err = respond.QueryUUID(r, "customerId"); err != nil {
		respond.Error(w, r, err)
		return
	}

	ds, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.NewList(toResponseList(ds), filter.Page, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) payments(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	ps, err := h.svc.Payments(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, struct {
		Data []paymentResponse `json:"data"`
	}{Data: toPaymentList(ps)})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, statsResponse{
		TotalOutstanding: st.TotalOutstanding,
		TotalPaidCount:   st.PaidCount,
		OpenCount:        st.OpenCount,
		CustomersOwing:   st.CustomersOwing,
	})
}

type recordPaymentRequest struct {
	DebtID uuid.UUID       `json:"debtId" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes" validate:"max=500"`
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	h.recordPayment(w, r, req)
}

type debtPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes" validate:"max=500"`
}

func (h *Handler) recordForDebt(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req debtPaymentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	h.recordPayment(w, r, recordPaymentRequest{DebtID: id, Amount: req.Amount, Notes: req.Notes})
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request, req recordPaymentRequest) {
	res, err := h.svc.RecordPayment(r.Context(), debt.RecordPaymentParams{
		DebtID: req.DebtID,
		Amount: req.Amount,
		Notes:  req.Notes,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, paymentResultResponse{
		Payment: toPaymentResponse(res.Payment),
		Debt:    toResponse(res.Debt),
	})
}
