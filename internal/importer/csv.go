package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/warung/internal/encoding"
	"github.com/MrJamesThe3rd/warung/internal/product"
)

type field int

const (
	fieldName field = iota
	fieldCategory
	fieldStock
	fieldPurchasePrice
	fieldSellingPrice
)

// aliases maps normalised header cells to the column they stand for.
var aliases = map[string]field{
	"name":           fieldName,
	"nama":           fieldName,
	"nama_produk":    fieldName,
	"nama_barang":    fieldName,
	"product":        fieldName,
	"produk":         fieldName,
	"category":       fieldCategory,
	"kategori":       fieldCategory,
	"stock":          fieldStock,
	"stok":           fieldStock,
	"qty":            fieldStock,
	"jumlah":         fieldStock,
	"purchase_price": fieldPurchasePrice,
	"harga_beli":     fieldPurchasePrice,
	"harga_modal":    fieldPurchasePrice,
	"modal":          fieldPurchasePrice,
	"selling_price":  fieldSellingPrice,
	"harga_jual":     fieldSellingPrice,
	"harga":          fieldSellingPrice,
	"price":          fieldSellingPrice,
}

// CSVParser reads comma, semicolon or tab separated product lists in any
// charset the encoding package recognises.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(r io.Reader) (*Batch, error) {
	utf8r, charset, err := encoding.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		rows  [][]string
		lines []int
	)

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, rec)
		lines = append(lines, line)
	}

	cols, headerIdx, ok := findHeader(rows)
	if !ok {
		return nil, ErrNoHeader
	}

	batch := &Batch{Charset: charset}

	for i, row := range rows[headerIdx+1:] {
		line := lines[headerIdx+1+i]

		if blank(row) {
			continue
		}

		params, err := cols.product(row)
		if err != nil {
			batch.Skipped = append(batch.Skipped, Skip{Line: line, Reason: err.Error()})
			continue
		}

		batch.Rows = append(batch.Rows, Row{Line: line, Product: params})
	}

	return batch, nil
}

const sniffLines = 10

// sniffDelimiter picks whichever of ';', ',' or tab occurs most in the
// first few non-empty lines. Ties go to the comma.
func sniffDelimiter(data []byte) rune {
	var head []byte

	n := 0

	for line := range bytes.Lines(data) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		head = append(head, line...)

		if n++; n == sniffLines {
			break
		}
	}

	best, bestCount := ',', bytes.Count(head, []byte{','})

	for _, c := range []byte{';', '\t'} {
		if n := bytes.Count(head, []byte{c}); n > bestCount {
			best, bestCount = rune(c), n
		}
	}

	return best
}

type columns map[field]int

// findHeader returns the first row that names a product column and at
// least one other known column. Preamble rows above it are ignored.
func findHeader(rows [][]string) (columns, int, bool) {
	for rowIdx, row := range rows {
		cols := columns{}

		for i, cell := range row {
			f, ok := aliases[normalizeHeader(cell)]
			if !ok {
				continue
			}

			if _, seen := cols[f]; !seen {
				cols[f] = i
			}
		}

		if _, ok := cols[fieldName]; ok && len(cols) >= 2 {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_", ".", "").Replace(s)
}

func (c columns) cell(row []string, f field) string {
	idx, ok := c[f]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func (c columns) product(row []string) (product.CreateParams, error) {
	params := product.CreateParams{
		Name:         c.cell(row, fieldName),
		CategoryName: c.cell(row, fieldCategory),
	}

	if params.Name == "" {
		return params, errors.New("missing product name")
	}

	stock, err := parseQuantity(c.cell(row, fieldStock))
	if err != nil {
		return params, err
	}

	if stock < 0 {
		return params, errors.New("stock must not be negative")
	}

	params.Stock = stock

	if params.PurchasePrice, err = parseAmount(c.cell(row, fieldPurchasePrice)); err != nil {
		return params, fmt.Errorf("purchase price: %w", err)
	}

	if params.SellingPrice, err = parseAmount(c.cell(row, fieldSellingPrice)); err != nil {
		return params, fmt.Errorf("selling price: %w", err)
	}

	if params.PurchasePrice.IsNegative() || params.SellingPrice.IsNegative() {
		return params, errors.New("prices must not be negative")
	}

	return params, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
