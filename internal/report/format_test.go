package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/warung/internal/report"
)

func TestFormatRupiah(t *testing.T) {
	tests := map[string]string{
		"0":          "Rp 0",
		"500":        "Rp 500",
		"3500":       "Rp 3.500",
		"1250000":    "Rp 1.250.000",
		"12500.5":    "Rp 12.500,50",
		"100.05":     "Rp 100,05",
		"-75000":     "-Rp 75.000",
		"1000000000": "Rp 1.000.000.000",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, report.FormatRupiah(decimal.RequireFromString(in)))
		})
	}
}

func TestStatement_Text(t *testing.T) {
	asOf := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)

	st := &report.Statement{
		CustomerName: "Bu Sri",
		AsOf:         asOf,
		Lines: []report.StatementLine{
			{
				InvoiceCode: "INV-20260302-00004",
				Date:        time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
				Total:       decimal.NewFromInt(175000),
				Paid:        decimal.NewFromInt(75000),
				Remaining:   decimal.NewFromInt(100000),
			},
			{
				InvoiceCode: "INV-20260311-00017",
				Date:        time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
				Total:       decimal.NewFromInt(42500),
				Paid:        decimal.Zero,
				Remaining:   decimal.NewFromInt(42500),
			},
		},
	}

	want := "Warung Makmur\n" +
		"Rincian hutang Bu Sri per 20-03-2026\n\n" +
		"* INV-20260302-00004 | 02-03-2026 | Total Rp 175.000 | Dibayar Rp 75.000 | Sisa Rp 100.000\n" +
		"* INV-20260311-00017 | 11-03-2026 | Total Rp 42.500 | Dibayar Rp 0 | Sisa Rp 42.500\n" +
		"\nTotal sisa hutang: Rp 142.500\n"

	assert.Equal(t, want, st.Text("Warung Makmur"))
}

func TestStatement_Text_NothingOwed(t *testing.T) {
	st := &report.Statement{CustomerName: "Pak Budi", AsOf: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)}

	assert.Contains(t, st.Text("Warung"), "Tidak ada hutang yang belum lunas.")
}
