// Package importer reads product lists exported from spreadsheets or other
// point-of-sale software and loads them into the catalog.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/encoding"
	"github.com/MrJamesThe3rd/warung/internal/product"
)

type Format string

const (
	FormatCSV Format = "csv"
)

type Importer interface {
	Parse(r io.Reader) (*Batch, error)
}

// Batch is the outcome of parsing one file. Line numbers are 1-based and
// count the header.
type Batch struct {
	Charset encoding.Charset
	Rows    []Row
	Skipped []Skip
}

type Row struct {
	Line    int
	Product product.CreateParams
}

// Skip is a data row that was left out and why.
type Skip struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

var (
	ErrUnknownFormat = apperr.Validation("unknown import format")
	ErrNoHeader      = apperr.Validation("no header row found: expected a name column (name or nama) and at least one of category, stock, purchase_price or selling_price")
)
