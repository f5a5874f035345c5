package debt_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/warung/internal/debt"
	debtHandler "github.com/MrJamesThe3rd/warung/internal/http/debt"
	"github.com/MrJamesThe3rd/warung/internal/payment"
)

func newRouter(repo debt.Repository) http.Handler {
	h := debtHandler.NewHandler(debt.NewService(repo))

	r := chi.NewRouter()
	r.Route("/debts", h.Routes)
	r.Route("/debt-payments", h.PaymentRoutes)

	return r
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return w, out
}

func TestHandler_RecordPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := debt.NewMockRepository(ctrl)
	ptx := debt.NewMockPaymentTx(ctrl)

	debtID, txID := uuid.New(), uuid.New()

	repo.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil)
	ptx.EXPECT().LockSale(gomock.Any(), debtID).Return(nil)
	ptx.EXPECT().LockDebt(gomock.Any(), debtID).Return(&debt.Debt{
		ID:            debtID,
		CustomerID:    uuid.New(),
		CustomerName:  "Bu Sri",
		TransactionID: txID,
		InvoiceCode:   "INV-20260315-00001",
		TotalDebt:     decimal.NewFromInt(100000),
		PaidAmount:    decimal.Zero,
		RemainingDebt: decimal.NewFromInt(100000),
		Status:        payment.StatusUnpaid,
	}, nil)
	ptx.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *debt.Payment) error {
		p.ID = uuid.New()
		return nil
	})
	ptx.EXPECT().SumPayments(gomock.Any(), debtID).Return(decimal.NewFromInt(25000), nil)
	ptx.EXPECT().UpdateDebt(gomock.Any(), gomock.Any()).Return(nil)
	ptx.EXPECT().SyncTransaction(gomock.Any(), txID, gomock.Any(), payment.StatusPartial).Return(nil)
	ptx.EXPECT().Commit().Return(nil)
	ptx.EXPECT().Rollback().Return(nil).AnyTimes()

	w, body := do(t, newRouter(repo), http.MethodPost, "/debts/"+debtID.String()+"/payments", `{"amount":25000,"notes":"cicilan 1"}`)

	require.Equal(t, http.StatusCreated, w.Code)

	pay := body["payment"].(map[string]any)
	assert.Equal(t, "25000", pay["amount"])
	assert.Equal(t, "cicilan 1", pay["notes"])

	d := body["debt"].(map[string]any)
	assert.Equal(t, "25000", d["paidAmount"])
	assert.Equal(t, "75000", d["remainingDebt"])
	assert.Equal(t, "partial", d["status"])
}

func TestHandler_RecordPayment_Rejected(t *testing.T) {
	debtID := uuid.New()

	type testCase struct {
		name       string
		path       string
		body       string
		setup      func(repo *debt.MockRepository, ptx *debt.MockPaymentTx)
		wantStatus int
		wantError  string
	}

	tests := []testCase{
		{
			name:       "zero amount",
			path:       "/debts/" + debtID.String() + "/payments",
			body:       `{"amount":"0"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "payment amount must be greater than zero",
		},
		{
			name:       "malformed id",
			path:       "/debts/not-a-uuid/payments",
			body:       `{"amount":"1000"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid id",
		},
		{
			name:       "missing debt id",
			path:       "/debt-payments",
			body:       `{"amount":"1000"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "debtId is required",
		},
		{
			name: "unknown debt",
			path: "/debt-payments",
			body: `{"debtId":"` + debtID.String() + `","amount":"1000"}`,
			setup: func(repo *debt.MockRepository, ptx *debt.MockPaymentTx) {
				repo.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil)
				ptx.EXPECT().LockSale(gomock.Any(), debtID).Return(debt.ErrNotFound)
				ptx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "debt not found",
		},
		{
			name: "more than remaining",
			path: "/debt-payments",
			body: `{"debtId":"` + debtID.String() + `","amount":"50000"}`,
			setup: func(repo *debt.MockRepository, ptx *debt.MockPaymentTx) {
				repo.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil)
				ptx.EXPECT().LockSale(gomock.Any(), debtID).Return(nil)
				ptx.EXPECT().LockDebt(gomock.Any(), debtID).Return(&debt.Debt{
					ID:            debtID,
					TotalDebt:     decimal.NewFromInt(40000),
					RemainingDebt: decimal.NewFromInt(40000),
					Status:        payment.StatusUnpaid,
				}, nil)
				ptx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "payment amount 50000 exceeds remaining debt 40000",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := debt.NewMockRepository(ctrl)
			ptx := debt.NewMockPaymentTx(ctrl)

			if tc.setup != nil {
				tc.setup(repo, ptx)
			}

			w, body := do(t, newRouter(repo), http.MethodPost, tc.path, tc.body)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantError, body["error"])
		})
	}
}

func TestHandler_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := debt.NewMockRepository(ctrl)

	repo.EXPECT().Stats(gomock.Any()).Return(&debt.Stats{
		TotalOutstanding: decimal.NewFromInt(325000),
		OpenCount:        4,
		PaidCount:        11,
		CustomersOwing:   3,
	}, nil)

	w, body := do(t, newRouter(repo), http.MethodGet, "/debts/stats", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "325000", body["totalOutstanding"])
	assert.EqualValues(t, 4, body["openCount"])
	assert.EqualValues(t, 11, body["totalPaidCount"])
	assert.EqualValues(t, 3, body["customersOwing"])
}
