package importer_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/encoding"
	"github.com/MrJamesThe3rd/warung/internal/importer"
)

func TestCSVParser_Parse(t *testing.T) {
	type testCase struct {
		name        string
		content     string
		wantRows    int
		wantSkipped []importer.Skip
		verify      func(t *testing.T, b *importer.Batch)
		wantErr     error
	}

	tests := []testCase{
		{
			name: "indonesian headers with semicolons",
			content: "nama;kategori;stok;harga_beli;harga_jual\n" +
				"Indomie Goreng;Makanan;40;2.800;3.500\n" +
				"Beras 5kg;Sembako;10;62.000;68.500,00\n",
			wantRows: 2,
			verify: func(t *testing.T, b *importer.Batch) {
				first := b.Rows[0]
				assert.Equal(t, 2, first.Line)
				assert.Equal(t, "Indomie Goreng", first.Product.Name)
				assert.Equal(t, "Makanan", first.Product.CategoryName)
				assert.Equal(t, 40, first.Product.Stock)
				assert.True(t, decimal.NewFromInt(2800).Equal(first.Product.PurchasePrice))
				assert.True(t, decimal.NewFromInt(3500).Equal(first.Product.SellingPrice))
				assert.True(t, decimal.NewFromInt(68500).Equal(b.Rows[1].Product.SellingPrice))
				assert.Equal(t, encoding.UTF8, b.Charset)
			},
		},
		{
			name: "english headers with commas and quotes",
			content: "Name,Category,Stock,Selling Price\n" +
				"\"Kopi, Sachet\",Minuman,12,1500\n",
			wantRows: 1,
			verify: func(t *testing.T, b *importer.Batch) {
				assert.Equal(t, "Kopi, Sachet", b.Rows[0].Product.Name)
				assert.True(t, b.Rows[0].Product.PurchasePrice.IsZero())
			},
		},
		{
			name: "preamble before header",
			content: "Daftar Barang Toko Makmur\n" +
				"\n" +
				"nama_barang;jumlah;harga\n" +
				"Gula 1kg;5;17.000\n",
			wantRows: 1,
			verify: func(t *testing.T, b *importer.Batch) {
				assert.Equal(t, 4, b.Rows[0].Line)
				assert.Equal(t, 5, b.Rows[0].Product.Stock)
			},
		},
		{
			name: "bad rows are skipped",
			content: "nama;stok;harga_jual\n" +
				";3;1000\n" +
				"Teh Botol;-2;4000\n" +
				"Sabun;1,5;3000\n" +
				"Roti;x;x\n" +
				";;\n" +
				"Susu;6;9.500\n",
			wantRows: 1,
			wantSkipped: []importer.Skip{
				{Line: 2, Reason: "missing product name"},
				{Line: 3, Reason: "stock must not be negative"},
				{Line: 4, Reason: `stock "1,5" is not a whole number`},
				{Line: 5, Reason: `invalid amount "x"`},
			},
		},
		{
			name:    "no header",
			content: "foo;bar\n1;2\n",
			wantErr: importer.ErrNoHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := importer.NewCSVParser().Parse(strings.NewReader(tt.content))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, b.Rows, tt.wantRows)

			if tt.wantSkipped != nil {
				assert.Equal(t, tt.wantSkipped, b.Skipped)
			}

			if tt.verify != nil {
				tt.verify(t, b)
			}
		})
	}
}

func TestCSVParser_Parse_Windows1252(t *testing.T) {
	// "nama;harga_jual\nCafé Latte;12.000\n" with é as 0xE9.
	content := append([]byte("nama;harga_jual\nCaf"), 0xE9)
	content = append(content, []byte(" Latte;12.000\n")...)

	b, err := importer.NewCSVParser().Parse(strings.NewReader(string(content)))
	require.NoError(t, err)
	require.Len(t, b.Rows, 1)
	assert.Equal(t, "Café Latte", b.Rows[0].Product.Name)
}
