package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
)

// Product is a stocked item. Stock is a unit count and never negative.
type Product struct {
	ID            uuid.UUID
	Name          string
	CategoryID    *uuid.UUID
	CategoryName  string // Loaded via JOIN
	Stock         int
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

var (
	ErrNotFound         = apperr.NotFound("product not found")
	ErrNameRequired     = apperr.Validation("product name is required")
	ErrDuplicateName    = apperr.Conflict("product already exists")
	ErrNegativeStock    = apperr.Validation("stock must not be negative")
	ErrNegativePrice    = apperr.Validation("prices must not be negative")
	ErrCategoryNotFound = apperr.NotFound("category not found")
	ErrInUse            = apperr.Conflict("product cannot be deleted because it appears in transactions")
)
