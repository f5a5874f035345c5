package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ttacon/libphonenumber"

	"github.com/MrJamesThe3rd/warung/internal/page"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=customer
type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	ListCustomers(ctx context.Context, filter ListFilter) ([]*Customer, int, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	HasOpenDebt(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo   Repository
	region string
}

// NewService builds a customer service that reads phone numbers written
// without a country code as belonging to region (ISO 3166 alpha-2).
func NewService(repo Repository, region string) *Service {
	return &Service{repo: repo, region: region}
}

type CreateParams struct {
	Name    string
	Phone   string
	Address string
}

type UpdateParams struct {
	Name    *string
	Phone   *string
	Address *string
}

type ListFilter struct {
	Search string
	Page   page.Request
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Customer, error) {
	c := &Customer{
		Name:    strings.TrimSpace(params.Name),
		Address: strings.TrimSpace(params.Address),
	}

	if c.Name == "" {
		return nil, ErrNameRequired
	}

	phone, err := s.NormalizePhone(params.Phone)
	if err != nil {
		return nil, err
	}

	c.Phone = phone

	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Customer, int, error) {
	filter.Page = filter.Page.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)

	return s.repo.ListCustomers(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Customer, error) {
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		c.Name = strings.TrimSpace(*params.Name)
		if c.Name == "" {
			return nil, ErrNameRequired
		}
	}

	if params.Phone != nil {
		phone, err := s.NormalizePhone(*params.Phone)
		if err != nil {
			return nil, err
		}

		c.Phone = phone
	}

	if params.Address != nil {
		c.Address = strings.TrimSpace(*params.Address)
	}

	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	open, err := s.repo.HasOpenDebt(ctx, id)
	if err != nil {
		return fmt.Errorf("checking open debt: %w", err)
	}

	if open {
		return ErrHasOpenDebt
	}

	return s.repo.DeleteCustomer(ctx, id)
}

// NormalizePhone returns raw in E.164 form. Blank input stays blank.
func (s *Service) NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	num, err := libphonenumber.Parse(raw, s.region)
	if err != nil {
		return "", ErrInvalidPhone
	}

	if !libphonenumber.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}

	return libphonenumber.Format(num, libphonenumber.E164), nil
}
