package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/page"
	"github.com/MrJamesThe3rd/warung/internal/payment"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=product
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, filter ListFilter) ([]*Product, int, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)

	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx upserts a batch of products atomically.
type ImportTx interface {
	// EnsureCategory returns the id of the category called name, creating it when missing.
	EnsureCategory(ctx context.Context, name string) (uuid.UUID, error)
	// UpsertProduct matches on name case-insensitively and reports whether a row was inserted.
	UpsertProduct(ctx context.Context, p *Product) (bool, error)
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name          string
	CategoryID    *uuid.UUID
	CategoryName  string // Resolved by name during import when CategoryID is nil
	Stock         int
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
}

type UpdateParams struct {
	Name          *string
	CategoryID    *uuid.UUID
	ClearCategory bool
	Stock         *int
	PurchasePrice *decimal.Decimal
	SellingPrice  *decimal.Decimal
}

type ListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	// MaxStock selects products at or below this level.
	MaxStock *int
	Page     page.Request
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	p := &Product{
		Name:          strings.TrimSpace(params.Name),
		CategoryID:    params.CategoryID,
		Stock:         params.Stock,
		PurchasePrice: params.PurchasePrice,
		SellingPrice:  params.SellingPrice,
	}

	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.checkName(ctx, p.Name, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, int, error) {
	filter.Page = filter.Page.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)

	return s.repo.ListProducts(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if !strings.EqualFold(name, p.Name) {
			if err := s.checkName(ctx, name, id); err != nil {
				return nil, err
			}
		}

		p.Name = name
	}

	switch {
	case params.ClearCategory:
		p.CategoryID = nil
	case params.CategoryID != nil:
		if err := s.checkCategory(ctx, params.CategoryID); err != nil {
			return nil, err
		}

		p.CategoryID = params.CategoryID
	}

	if params.Stock != nil {
		p.Stock = *params.Stock
	}

	if params.PurchasePrice != nil {
		p.PurchasePrice = *params.PurchasePrice
	}

	if params.SellingPrice != nil {
		p.SellingPrice = *params.SellingPrice
	}

	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, id)
}

type ImportResult struct {
	Created []*Product
	Updated []*Product
}

// ImportBatch upserts products by name inside one database transaction.
// Rows are validated up front so a bad row rejects the whole batch.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	products := make([]*Product, len(params))
	categories := make([]string, len(params))

	for i, p := range params {
		products[i] = &Product{
			Name:          strings.TrimSpace(p.Name),
			CategoryID:    p.CategoryID,
			Stock:         p.Stock,
			PurchasePrice: p.PurchasePrice,
			SellingPrice:  p.SellingPrice,
		}
		categories[i] = strings.TrimSpace(p.CategoryName)

		if verr := validate(products[i]); verr != nil {
			return nil, apperr.Wrap(verr, "row %d: %s", i+1, verr.Msg)
		}
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer apperr.Compensate("product import", itx.Rollback)

	result := &ImportResult{}

	for i, p := range products {
		if p.CategoryID == nil && categories[i] != "" {
			id, err := itx.EnsureCategory(ctx, categories[i])
			if err != nil {
				return nil, fmt.Errorf("ensure category %q: %w", categories[i], err)
			}

			p.CategoryID = &id
			p.CategoryName = categories[i]
		}

		created, err := itx.UpsertProduct(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}

		if created {
			result.Created = append(result.Created, p)
		} else {
			result.Updated = append(result.Updated, p)
		}
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return result, nil
}

func validate(p *Product) *apperr.Error {
	if p.Name == "" {
		return ErrNameRequired
	}

	if p.Stock < 0 {
		return ErrNegativeStock
	}

	if p.PurchasePrice.IsNegative() || p.SellingPrice.IsNegative() {
		return ErrNegativePrice
	}

	var aerr *apperr.Error
	if err := payment.CheckAmount("purchase price", p.PurchasePrice); errors.As(err, &aerr) {
		return aerr
	}

	if err := payment.CheckAmount("selling price", p.SellingPrice); errors.As(err, &aerr) {
		return aerr
	}

	return nil
}

func (s *Service) checkName(ctx context.Context, name string, exclude uuid.UUID) error {
	if name == "" {
		return ErrNameRequired
	}

	taken, err := s.repo.NameTaken(ctx, name, exclude)
	if err != nil {
		return fmt.Errorf("checking product name: %w", err)
	}

	if taken {
		return apperr.Wrap(ErrDuplicateName, "product %q already exists", name)
	}

	return nil
}

func (s *Service) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}

	ok, err := s.repo.CategoryExists(ctx, *id)
	if err != nil {
		return fmt.Errorf("checking category: %w", err)
	}

	if !ok {
		return ErrCategoryNotFound
	}

	return nil
}
