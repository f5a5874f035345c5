package product_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/payment"
	"github.com/MrJamesThe3rd/warung/internal/product"
)

func TestService_Create(t *testing.T) {
	catID := uuid.New()

	type testCase struct {
		name      string
		params    product.CreateParams
		setupMock func(repo *product.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "valid product",
			params: product.CreateParams{
				Name:          " Indomie Goreng ",
				CategoryID:    &catID,
				Stock:         40,
				PurchasePrice: decimal.NewFromInt(2800),
				SellingPrice:  decimal.NewFromInt(3500),
			},
			setupMock: func(repo *product.MockRepository) {
				repo.EXPECT().NameTaken(gomock.Any(), "Indomie Goreng", uuid.Nil).Return(false, nil)
				repo.EXPECT().CategoryExists(gomock.Any(), catID).Return(true, nil)
				repo.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "negative stock",
			params:    product.CreateParams{Name: "Kopi", Stock: -1},
			setupMock: func(*product.MockRepository) {},
			wantErr:   product.ErrNegativeStock,
		},
		{
			name:      "negative price",
			params:    product.CreateParams{Name: "Kopi", SellingPrice: decimal.NewFromInt(-100)},
			setupMock: func(*product.MockRepository) {},
			wantErr:   product.ErrNegativePrice,
		},
		{
			name:      "sub-cent price",
			params:    product.CreateParams{Name: "Kopi", PurchasePrice: decimal.RequireFromString("2800.125")},
			setupMock: func(*product.MockRepository) {},
			wantErr:   payment.ErrAmountPrecision,
		},
		{
			name:   "duplicate",
			params: product.CreateParams{Name: "Kopi"},
			setupMock: func(repo *product.MockRepository) {
				repo.EXPECT().NameTaken(gomock.Any(), "Kopi", uuid.Nil).Return(true, nil)
			},
			wantErr: product.ErrDuplicateName,
		},
		{
			name:   "unknown category",
			params: product.CreateParams{Name: "Kopi", CategoryID: &catID},
			setupMock: func(repo *product.MockRepository) {
				repo.EXPECT().NameTaken(gomock.Any(), "Kopi", uuid.Nil).Return(false, nil)
				repo.EXPECT().CategoryExists(gomock.Any(), catID).Return(false, nil)
			},
			wantErr: product.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := product.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := product.NewService(repo).Create(context.Background(), tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Indomie Goreng", got.Name)
		})
	}
}

func TestService_Update_ClearCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := product.NewMockRepository(ctrl)

	id := uuid.New()
	catID := uuid.New()

	repo.EXPECT().GetProduct(gomock.Any(), id).
		Return(&product.Product{ID: id, Name: "Teh", CategoryID: &catID, Stock: 3}, nil)
	repo.EXPECT().UpdateProduct(gomock.Any(), gomock.Any()).Return(nil)

	got, err := product.NewService(repo).Update(context.Background(), id, product.UpdateParams{
		ClearCategory: true,
		Stock:         new(12),
	})
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, 12, got.Stock)
}

func TestService_ImportBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := product.NewMockRepository(ctrl)
	itx := product.NewMockImportTx(ctrl)

	drinks := uuid.New()

	gomock.InOrder(
		repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil),
		itx.EXPECT().EnsureCategory(gomock.Any(), "Minuman").Return(drinks, nil),
		itx.EXPECT().UpsertProduct(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *product.Product) (bool, error) {
				assert.Equal(t, "Aqua 600ml", p.Name)
				assert.Equal(t, &drinks, p.CategoryID)

				return true, nil
			}),
		itx.EXPECT().UpsertProduct(gomock.Any(), gomock.Any()).Return(false, nil),
		itx.EXPECT().Commit().Return(nil),
		itx.EXPECT().Rollback().Return(nil),
	)

	res, err := product.NewService(repo).ImportBatch(context.Background(), []product.CreateParams{
		{Name: "Aqua 600ml", CategoryName: " Minuman ", Stock: 24, SellingPrice: decimal.NewFromInt(4000)},
		{Name: "Gula 1kg", Stock: 5, SellingPrice: decimal.NewFromInt(17000)},
	})
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)
	assert.Len(t, res.Updated, 1)
	assert.Equal(t, "Gula 1kg", res.Updated[0].Name)
}

func TestService_ImportBatch_BadRowRejectsAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := product.NewMockRepository(ctrl)

	_, err := product.NewService(repo).ImportBatch(context.Background(), []product.CreateParams{
		{Name: "Aqua 600ml", Stock: 24},
		{Name: "Gula 1kg", Stock: -2},
	})
	require.ErrorIs(t, err, product.ErrNegativeStock)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "row 2: stock must not be negative", err.Error())
}

func TestService_ImportBatch_UpsertFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := product.NewMockRepository(ctrl)
	itx := product.NewMockImportTx(ctrl)

	boom := errors.New("deadlock detected")

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().UpsertProduct(gomock.Any(), gomock.Any()).Return(false, boom)
	itx.EXPECT().Rollback().Return(nil)

	_, err := product.NewService(repo).ImportBatch(context.Background(), []product.CreateParams{{Name: "Kopi"}})
	require.ErrorIs(t, err, boom)
}
