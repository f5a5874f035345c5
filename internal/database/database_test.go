package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/warung/internal/database"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("creating category: %w", &pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key"})

	assert.True(t, database.IsUniqueViolation(dup, ""))
	assert.True(t, database.IsUniqueViolation(dup, "categories_name_key"))
	assert.False(t, database.IsUniqueViolation(dup, "products_name_key"))
	assert.False(t, database.IsUniqueViolation(errors.New("boom"), ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := fmt.Errorf("deleting product: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, database.IsForeignKeyViolation(fk))
	assert.False(t, database.IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}
