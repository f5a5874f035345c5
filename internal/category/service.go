package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// NameTaken reports whether another category already uses name,
	// compared case-insensitively. exclude is ignored when uuid.Nil.
	NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	CountProducts(ctx context.Context, id uuid.UUID) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name        string
	Description string
}

type UpdateParams struct {
	Name        *string
	Description *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Category, error) {
	name := strings.TrimSpace(params.Name)
	if err := s.checkName(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	c := &Category{Name: name, Description: strings.TrimSpace(params.Description)}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if !strings.EqualFold(name, c.Name) {
			if err := s.checkName(ctx, name, id); err != nil {
				return nil, err
			}
		}

		c.Name = name
	}

	if params.Description != nil {
		c.Description = strings.TrimSpace(*params.Description)
	}

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetCategory(ctx, id); err != nil {
		return err
	}

	n, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("counting products: %w", err)
	}

	if n > 0 {
		return apperr.Wrap(ErrInUse, "category cannot be deleted while %d product(s) still use it", n)
	}

	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) checkName(ctx context.Context, name string, exclude uuid.UUID) error {
	if name == "" {
		return ErrNameRequired
	}

	taken, err := s.repo.NameTaken(ctx, name, exclude)
	if err != nil {
		return fmt.Errorf("checking category name: %w", err)
	}

	if taken {
		return apperr.Wrap(ErrDuplicateName, "category %q already exists", name)
	}

	return nil
}
