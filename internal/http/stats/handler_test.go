package stats_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	statsHandler "github.com/MrJamesThe3rd/warung/internal/http/stats"
	"github.com/MrJamesThe3rd/warung/internal/payment"
	"github.com/MrJamesThe3rd/warung/internal/report"
)

var wib = time.FixedZone("WIB", 7*60*60)

func newRouter(repo report.Repository) http.Handler {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, wib)
	svc := report.NewService(repo, wib, "Warung").WithClock(func() time.Time { return now })

	r := chi.NewRouter()
	r.Route("/stats", statsHandler.NewHandler(svc, wib).Routes)

	return r
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestHandler_Dashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	march := report.Window{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, wib),
		End:   time.Date(2026, 4, 1, 0, 0, 0, 0, wib),
	}
	today := report.Window{
		Start: time.Date(2026, 3, 15, 0, 0, 0, 0, wib),
		End:   time.Date(2026, 3, 16, 0, 0, 0, 0, wib),
	}

	repo.EXPECT().Summarize(gomock.Any(), today).Return(report.Summary{Profit: decimal.NewFromInt(12000)}, nil)
	repo.EXPECT().Summarize(gomock.Any(), march).Return(report.Summary{
		Profit:       decimal.NewFromInt(340000),
		ProductsSold: 210,
		Transactions: 57,
	}, nil)
	repo.EXPECT().Outstanding(gomock.Any()).Return(decimal.NewFromInt(95000), nil)
	repo.EXPECT().SalesByDate(gomock.Any(), march, "WIB").Return([]report.DailySales{
		{Date: "2026-03-14", Total: decimal.NewFromInt(410000)},
	}, nil)
	repo.EXPECT().TopProducts(gomock.Any(), march, 8).Return([]report.TopProduct{
		{ProductID: uuid.New(), Name: "Indomie Goreng", Quantity: 48, Revenue: decimal.NewFromInt(168000)},
	}, nil)
	repo.EXPECT().RecentSales(gomock.Any(), 10).Return([]report.RecentSale{
		{ID: uuid.New(), InvoiceCode: "INV-20260315-00003", TotalAmount: decimal.NewFromInt(7000), PaymentStatus: payment.StatusPaid},
	}, nil)

	w := get(newRouter(repo), "/stats?range=this-month")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "12000", body["todayProfit"])
	assert.Equal(t, "340000", body["rangeProfit"])
	assert.EqualValues(t, 210, body["totalProductsSold"])
	assert.EqualValues(t, 57, body["totalTransactions"])
	assert.Equal(t, "95000", body["totalDebt"])
	assert.Len(t, body["salesByDate"], 1)
	assert.Len(t, body["topProducts"], 1)
	assert.Len(t, body["recentTransactions"], 1)
}

func TestHandler_Dashboard_BadQuery(t *testing.T) {
	type testCase struct {
		name      string
		query     string
		wantError string
	}

	tests := []testCase{
		{name: "unknown range", query: "?range=forever", wantError: `unknown range "forever"`},
		{name: "only start", query: "?startDate=2026-03-01", wantError: "startDate and endDate must be given together"},
		{name: "reversed", query: "?startDate=2026-03-10&endDate=2026-03-01", wantError: "startDate must not be after endDate"},
		{name: "bad date", query: "?startDate=10/03/2026&endDate=2026-03-11", wantError: "startDate must be a date in YYYY-MM-DD form"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			w := get(newRouter(report.NewMockRepository(ctrl)), "/stats"+tc.query)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantError, body["error"])
		})
	}
}
