package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
)

// Category groups products on the shelf and in reports.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

var (
	ErrNotFound      = apperr.NotFound("category not found")
	ErrNameRequired  = apperr.Validation("category name is required")
	ErrDuplicateName = apperr.Conflict("category already exists")
	ErrInUse         = apperr.Conflict("category cannot be deleted while products still use it")
)
