package stats

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/http/respond"
	"github.com/MrJamesThe3rd/warung/internal/payment"
	"github.com/MrJamesThe3rd/warung/internal/report"
)

type Handler struct {
	svc *report.Service
	loc *time.Location
}

func NewHandler(svc *report.Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.dashboard)
}

type dashboardResponse struct {
	Range              windowResponse  `json:"range"`
	TodayProfit        decimal.Decimal `json:"todayProfit"`
	RangeProfit        decimal.Decimal `json:"rangeProfit"`
	TotalProductsSold  int             `json:"totalProductsSold"`
	TotalTransactions  int             `json:"totalTransactions"`
	TotalDebt          decimal.Decimal `json:"totalDebt"`
	SalesByDate        []dailySales    `json:"salesByDate"`
	TopProducts        []topProduct    `json:"topProducts"`
	RecentTransactions []recentSale    `json:"recentTransactions"`
}

type windowResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type dailySales struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type topProduct struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type recentSale struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceCode     string          `json:"invoiceCode"`
	CustomerName    string          `json:"customerName"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentStatus   payment.Status  `json:"paymentStatus"`
	TransactionDate time.Time       `json:"transactionDate"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	q := report.Query{Range: report.Range(r.URL.Query().Get("range"))}

	var err error
	if q.Start, err = respond.QueryDate(r, "startDate", h.loc); err != nil {
		respond.Error(w, r, err)
		return
	}

	if q.End, err = respond.QueryDate(r, "endDate", h.loc); err != nil {
		respond.Error(w, r, err)
		return
	}

	d, err := h.svc.Dashboard(r.Context(), q)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(d))
}

func toResponse(d *report.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Range:              windowResponse{Start: d.Window.Start, End: d.Window.End},
		TodayProfit:        d.TodayProfit,
		RangeProfit:        d.RangeProfit,
		TotalProductsSold:  d.TotalProductsSold,
		TotalTransactions:  d.TotalTransactions,
		TotalDebt:          d.TotalDebt,
		SalesByDate:        make([]dailySales, len(d.SalesByDate)),
		TopProducts:        make([]topProduct, len(d.TopProducts)),
		RecentTransactions: make([]recentSale, len(d.RecentTransactions)),
	}

	for i, s := range d.SalesByDate {
		resp.SalesByDate[i] = dailySales{Date: s.Date, Total: s.Total}
	}

	for i, p := range d.TopProducts {
		resp.TopProducts[i] = topProduct{ProductID: p.ProductID, Name: p.Name, Quantity: p.Quantity, Revenue: p.Revenue}
	}

	for i, s := range d.RecentTransactions {
		resp.RecentTransactions[i] = recentSale{
			ID:              s.ID,
			InvoiceCode:     s.InvoiceCode,
			CustomerName:    s.CustomerName,
			TotalAmount:     s.TotalAmount,
			PaymentStatus:   s.PaymentStatus,
			TransactionDate: s.TransactionDate,
		}
	}

	return resp
}
