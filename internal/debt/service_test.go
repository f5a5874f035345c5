package debt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/debt"
	"github.com/MrJamesThe3rd/warung/internal/payment"
)

func openDebt(total, paid string) *debt.Debt {
	return &debt.Debt{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		TransactionID: uuid.New(),
		TotalDebt:     d(total),
		PaidAmount:    d(paid),
		RemainingDebt: payment.Remaining(d(total), d(paid)),
		Status:        payment.Derive(d(total), d(paid)),
	}
}

func TestService_RecordPayment(t *testing.T) {
	fixed := time.Date(2025, 12, 5, 14, 0, 0, 0, time.UTC)

	type args struct {
		amount string
	}

	type testCase struct {
		name       string
		debt       *debt.Debt
		args       args
		setupMock  func(r *debt.MockRepository, ptx *debt.MockPaymentTx, dd *debt.Debt)
		wantErr    error
		wantKind   apperr.Kind
		wantStatus payment.Status
		wantRemain string
	}

	tests := []testCase{
		{
			name: "Partial installment",
			debt: openDebt("100000", "40000"),
			args: args{amount: "20000"},
			setupMock: func(r *debt.MockRepository, ptx *debt.MockPaymentTx, dd *debt.Debt) {
				r.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil)
				ptx.EXPECT().LockSale(gomock.Any(), dd.ID).Return(nil)
				ptx.EXPECT().LockDebt(gomock.Any(), dd.ID).Return(dd, nil)
				ptx.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *debt.Payment) error {
						assert.Equal(t, fixed, p.PaymentDate)
						p.ID = uuid.New()
						return nil
					})
				ptx.EXPECT().SumPayments(gomock.Any(), dd.ID).Return(d("60000"), nil)
				ptx.EXPECT().UpdateDebt(gomock.Any(), dd).Return(nil)
				ptx.EXPECT().SyncTransaction(gomock.Any(), dd.TransactionID, d("60000"), payment.StatusPartial).Return(nil)
				ptx.EXPECT().Commit().Return(nil)
				ptx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: payment.StatusPartial,
			wantRemain: "40000",
		},
		{
			name: "Full payment closes debt",
			debt: openDebt("100000", "40000"),
			args: args{amount: "60000"},
			setupMock: func(r *debt.MockRepository, ptx *debt.MockPaymentTx, dd *debt.Debt) {
				r.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil)
				ptx.EXPECT().LockSale(gomock.Any(), dd.ID).Return(nil)
				ptx.EXPECT().LockDebt(gomock.Any(), dd.ID).Return(dd, nil)
				ptx.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil)
				ptx.EXPECT().SumPayments(gomock.Any(), dd.ID).Return(d("100000"), nil)
				ptx.EXPECT().UpdateDebt(gomock.Any(), dd).Return(nil)
				ptx.EXPECT().SyncTransaction(gomock.Any(), dd.TransactionID, d("100000"), payment.StatusPaid).Return(nil)
				ptx.EXPECT().Commit().Return(nil)
				ptx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: payment.StatusPaid,
			wantRemain: "0",
		},
		{
			name: "Overpayment rejected",
			debt: openDebt("100000", "40000"),
			args: args{amount: "60001"},
			setupMock: func(r *debt.MockRepository, ptx *debt.MockPaymentTx, dd *debt.Debt) {
				r.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil)
				ptx.EXPECT().LockSale(gomock.Any(), dd.ID).Return(nil)
				ptx.EXPECT().LockDebt(gomock.Any(), dd.ID).Return(dd, nil)
				ptx.EXPECT().Rollback().Return(nil)
			},
			wantErr:  debt.ErrPaymentExceedsRemaining,
			wantKind: apperr.KindValidation,
		},
		{
			name: "Already paid",
			debt: openDebt("100000", "100000"),
			args: args{amount: "1000"},
			setupMock: func(r *debt.MockRepository, ptx *debt.MockPaymentTx, dd *debt.Debt) {
				r.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil)
				ptx.EXPECT().LockSale(gomock.Any(), dd.ID).Return(nil)
				ptx.EXPECT().LockDebt(gomock.Any(), dd.ID).Return(dd, nil)
				ptx.EXPECT().Rollback().Return(nil)
			},
			wantErr:  debt.ErrAlreadyPaid,
			wantKind: apperr.KindConflict,
		},
		{
			name:     "Zero amount",
			debt:     openDebt("100000", "0"),
			args:     args{amount: "0"},
			wantErr:  debt.ErrInvalidAmount,
			wantKind: apperr.KindValidation,
		},
		{
			name:     "Sub-cent amount",
			debt:     openDebt("100000", "0"),
			args:     args{amount: "0.004"},
			wantErr:  payment.ErrAmountPrecision,
			wantKind: apperr.KindValidation,
		},
		{
			name: "Debt not found",
			debt: openDebt("100000", "0"),
			args: args{amount: "5000"},
			setupMock: func(r *debt.MockRepository, ptx *debt.MockPaymentTx, dd *debt.Debt) {
				r.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil)
				ptx.EXPECT().LockSale(gomock.Any(), dd.ID).Return(debt.ErrNotFound)
				ptx.EXPECT().Rollback().Return(nil)
			},
			wantErr:  debt.ErrNotFound,
			wantKind: apperr.KindNotFound,
		},
		{
			name: "Sync failure rolls back",
			debt: openDebt("100000", "0"),
			args: args{amount: "5000"},
			setupMock: func(r *debt.MockRepository, ptx *debt.MockPaymentTx, dd *debt.Debt) {
				r.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil)
				ptx.EXPECT().LockSale(gomock.Any(), dd.ID).Return(nil)
				ptx.EXPECT().LockDebt(gomock.Any(), dd.ID).Return(dd, nil)
				ptx.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil)
				ptx.EXPECT().SumPayments(gomock.Any(), dd.ID).Return(d("5000"), nil)
				ptx.EXPECT().UpdateDebt(gomock.Any(), dd).Return(nil)
				ptx.EXPECT().SyncTransaction(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db error"))
				ptx.EXPECT().Rollback().Return(nil)
			},
			wantKind: apperr.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := debt.NewMockRepository(ctrl)
			ptx := debt.NewMockPaymentTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, ptx, tt.debt)
			}

			svc := debt.NewService(repo).WithClock(func() time.Time { return fixed })

			got, err := svc.RecordPayment(context.Background(), debt.RecordPaymentParams{
				DebtID: tt.debt.ID,
				Amount: d(tt.args.amount),
			})

			if tt.wantStatus == "" {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Debt.Status)
			assert.True(t, got.Debt.RemainingDebt.Equal(d(tt.wantRemain)))
			assert.True(t, got.Payment.Amount.Equal(d(tt.args.amount)))
		})
	}
}

func TestService_RecordPayment_LockOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dd := openDebt("100000", "40000")
	repo := debt.NewMockRepository(ctrl)
	ptx := debt.NewMockPaymentTx(ctrl)

	gomock.InOrder(
		repo.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil),
		ptx.EXPECT().LockSale(gomock.Any(), dd.ID).Return(nil),
		ptx.EXPECT().LockDebt(gomock.Any(), dd.ID).Return(dd, nil),
		ptx.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil),
		ptx.EXPECT().SumPayments(gomock.Any(), dd.ID).Return(d("50000"), nil),
		ptx.EXPECT().UpdateDebt(gomock.Any(), dd).Return(nil),
		ptx.EXPECT().SyncTransaction(gomock.Any(), dd.TransactionID, d("50000"), payment.StatusPartial).Return(nil),
		ptx.EXPECT().Commit().Return(nil),
		ptx.EXPECT().Rollback().Return(nil),
	)

	_, err := debt.NewService(repo).RecordPayment(context.Background(), debt.RecordPaymentParams{
		DebtID: dd.ID,
		Amount: d("10000"),
	})
	require.NoError(t, err)
}

func TestService_Verify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	healthy := openDebt("100000", "40000")
	drifted := openDebt("100000", "40000")

	repo := debt.NewMockRepository(ctrl)
	repo.EXPECT().ListBalances(gomock.Any()).Return([]debt.Balance{
		{Debt: healthy, PaymentsTotal: d("40000")},
		{Debt: drifted, PaymentsTotal: d("70000")},
	}, nil)

	got, err := debt.NewService(repo).Verify(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, drifted.ID, got[0].DebtID)
	assert.True(t, got[0].ExpectedRemaining.Equal(d("30000")))
	assert.Equal(t, payment.StatusPartial, got[0].ExpectedStatus)
}

func TestService_Repair(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	drifted := openDebt("100000", "40000")

	repo := debt.NewMockRepository(ctrl)
	ptx := debt.NewMockPaymentTx(ctrl)

	repo.EXPECT().BeginPayment(gomock.Any()).Return(ptx, nil)
	ptx.EXPECT().LockSale(gomock.Any(), drifted.ID).Return(nil)
	ptx.EXPECT().LockDebt(gomock.Any(), drifted.ID).Return(drifted, nil)
	ptx.EXPECT().SumPayments(gomock.Any(), drifted.ID).Return(d("100000"), nil)
	ptx.EXPECT().UpdateDebt(gomock.Any(), drifted).Return(nil)
	ptx.EXPECT().SyncTransaction(gomock.Any(), drifted.TransactionID, d("100000"), payment.StatusPaid).Return(nil)
	ptx.EXPECT().Commit().Return(nil)
	ptx.EXPECT().Rollback().Return(nil)

	n, err := debt.NewService(repo).Repair(context.Background(), []debt.Discrepancy{{DebtID: drifted.ID}})
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, payment.StatusPaid, drifted.Status)
	assert.True(t, drifted.RemainingDebt.IsZero())
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dd := openDebt("50000", "10000")

	repo := debt.NewMockRepository(ctrl)
	repo.EXPECT().GetDebt(gomock.Any(), dd.ID).Return(dd, nil)
	repo.EXPECT().ListPayments(gomock.Any(), dd.ID).Return([]*debt.Payment{
		{ID: uuid.New(), DebtID: dd.ID, Amount: decimal.NewFromInt(10000)},
	}, nil)

	got, err := debt.NewService(repo).Get(context.Background(), dd.ID)
	require.NoError(t, err)
	assert.Len(t, got.Payments, 1)
}
