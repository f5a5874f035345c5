package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/warung/internal/importer"
	"github.com/MrJamesThe3rd/warung/internal/product"
)

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := importer.NewMockCatalog(ctrl)

	catalog.EXPECT().ImportBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params []product.CreateParams) (*product.ImportResult, error) {
			require.Len(t, params, 2)
			assert.Equal(t, "Kecap Manis", params[0].Name)

			return &product.ImportResult{
				Created: []*product.Product{{Name: "Kecap Manis"}},
				Updated: []*product.Product{{Name: "Saus Sambal"}},
			}, nil
		})

	csv := "nama;stok;harga_jual\nKecap Manis;4;9.000\nSaus Sambal;2;7.500\n;1;1\n"

	report, err := importer.NewService(catalog).Import(context.Background(), importer.FormatCSV, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Len(t, report.Skipped, 1)
}

func TestService_Import_Errors(t *testing.T) {
	type testCase struct {
		name      string
		format    importer.Format
		setupMock func(c *importer.MockCatalog)
		wantErr   error
	}

	batchErr := errors.New("connection refused")

	tests := []testCase{
		{
			name:      "unknown format",
			format:    "xlsx",
			setupMock: func(*importer.MockCatalog) {},
			wantErr:   importer.ErrUnknownFormat,
		},
		{
			name:   "catalog failure",
			format: importer.FormatCSV,
			setupMock: func(c *importer.MockCatalog) {
				c.EXPECT().ImportBatch(gomock.Any(), gomock.Any()).Return(nil, batchErr)
			},
			wantErr: batchErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			catalog := importer.NewMockCatalog(ctrl)
			tt.setupMock(catalog)

			_, err := importer.NewService(catalog).Import(context.Background(), tt.format,
				strings.NewReader("nama;stok\nGaram;3\n"))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
