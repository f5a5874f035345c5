package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/database"
	"github.com/MrJamesThe3rd/warung/internal/product"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, name, category_id, category_name, stock, purchase_price, selling_price, created_at, updated_at
func scanProduct(s scanner) (*product.Product, error) {
	var p product.Product

	var categoryName sql.NullString

	if err := s.Scan(
		&p.ID, &p.Name, &p.CategoryID, &categoryName, &p.Stock,
		&p.PurchasePrice, &p.SellingPrice, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.CategoryName = categoryName.String

	return &p, nil
}

const selectProductColumns = `
	p.id, p.name, p.category_id, c.name AS category_name, p.stock,
	p.purchase_price, p.selling_price, p.created_at, p.updated_at
`

func (s *Store) CreateProduct(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (name, category_id, stock, purchase_price, selling_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.Name, p.CategoryID, p.Stock, p.PurchasePrice, p.SellingPrice,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return translate(err, p.Name, "creating product")
	}

	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	query := `SELECT ` + selectProductColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return p, nil
}

func (s *Store) ListProducts(ctx context.Context, filter product.ListFilter) ([]*product.Product, int, error) {
	where := " WHERE 1 = 1"

	var args []any

	argIdx := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND p.name ILIKE $%d", argIdx)

		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIdx++
	}

	if filter.CategoryID != nil {
		where += fmt.Sprintf(" AND p.category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.MaxStock != nil {
		where += fmt.Sprintf(" AND p.stock <= $%d", argIdx)

		args = append(args, *filter.MaxStock)
		argIdx++
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := `SELECT ` + selectProductColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id` + where +
		fmt.Sprintf(" ORDER BY LOWER(p.name) ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)

	args = append(args, filter.Page.Normalize().Limit, filter.Page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var out []*product.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning product: %w", err)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating products: %w", err)
	}

	return out, total, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products
		SET name = $1, category_id = $2, stock = $3, purchase_price = $4, selling_price = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.Name, p.CategoryID, p.Stock, p.PurchasePrice, p.SellingPrice, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return product.ErrNotFound
		}

		return translate(err, p.Name, "updating product")
	}

	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return product.ErrInUse
		}

		return fmt.Errorf("deleting product: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return product.ErrNotFound
	}

	return nil
}

func (s *Store) NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE LOWER(name) = LOWER($1) AND id <> $2)`

	var taken bool
	if err := s.db.QueryRowContext(ctx, query, name, exclude).Scan(&taken); err != nil {
		return false, fmt.Errorf("checking product name: %w", err)
	}

	return taken, nil
}

func (s *Store) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("checking category: %w", err)
	}

	return ok, nil
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context) (product.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error { return itx.tx.Commit() }

func (itx *importTx) Rollback() error {
	if err := itx.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (itx *importTx) EnsureCategory(ctx context.Context, name string) (uuid.UUID, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO categories (name)
		VALUES ($1)
		ON CONFLICT (LOWER(name)) DO UPDATE SET name = categories.name
		RETURNING id
	`

	var id uuid.UUID
	if err := itx.tx.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("ensuring category: %w", err)
	}

	return id, nil
}

func (itx *importTx) UpsertProduct(ctx context.Context, p *product.Product) (bool, error) {
	query := `
		INSERT INTO products (name, category_id, stock, purchase_price, selling_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (LOWER(name)) DO UPDATE SET
			category_id = COALESCE(EXCLUDED.category_id, products.category_id),
			stock = EXCLUDED.stock,
			purchase_price = EXCLUDED.purchase_price,
			selling_price = EXCLUDED.selling_price,
			updated_at = NOW()
		RETURNING id, created_at, (xmax = 0) AS inserted
	`

	var inserted bool

	err := itx.tx.QueryRowContext(ctx, query,
		p.Name, p.CategoryID, p.Stock, p.PurchasePrice, p.SellingPrice,
	).Scan(&p.ID, &p.CreatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("upserting product: %w", err)
	}

	return inserted, nil
}

func translate(err error, name, op string) error {
	if database.IsUniqueViolation(err, "products_name_key") {
		return apperr.Wrap(product.ErrDuplicateName, "product %q already exists", name)
	}

	if database.IsForeignKeyViolation(err) {
		return product.ErrCategoryNotFound
	}

	return fmt.Errorf("%s: %w", op, err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
