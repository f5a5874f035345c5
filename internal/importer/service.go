package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/encoding"
	"github.com/MrJamesThe3rd/warung/internal/product"
)

//go:generate mockgen -source=service.go -destination=catalog_mock.go -package=importer
type Catalog interface {
	ImportBatch(ctx context.Context, params []product.CreateParams) (*product.ImportResult, error)
}

type Service struct {
	parsers map[Format]Importer
	catalog Catalog
}

func NewService(catalog Catalog) *Service {
	return &Service{
		parsers: map[Format]Importer{
			FormatCSV: NewCSVParser(),
		},
		catalog: catalog,
	}
}

// Report summarises an import.
type Report struct {
	Charset encoding.Charset
	Created int
	Updated int
	Skipped []Skip
}

// Import parses r and upserts every usable row in one batch. Rows the
// parser could not read are reported in Skipped and do not stop the rest.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (*Report, error) {
	parser, ok := s.parsers[format]
	if !ok {
		return nil, apperr.Wrap(ErrUnknownFormat, "unknown import format %q", format)
	}

	batch, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}

	params := make([]product.CreateParams, len(batch.Rows))
	for i, row := range batch.Rows {
		params[i] = row.Product
	}

	res, err := s.catalog.ImportBatch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("import products: %w", err)
	}

	report := &Report{
		Charset: batch.Charset,
		Created: len(res.Created),
		Updated: len(res.Updated),
		Skipped: batch.Skipped,
	}

	slog.Info("products imported",
		"charset", report.Charset, "created", report.Created, "updated", report.Updated, "skipped", len(report.Skipped))

	return report, nil
}
