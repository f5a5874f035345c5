package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
)

// Customer is someone the shop may extend credit to. Phone is stored in
// E.164 form or empty.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

var (
	ErrNotFound     = apperr.NotFound("customer not found")
	ErrNameRequired = apperr.Validation("customer name is required")
	ErrInvalidPhone = apperr.Validation("phone number is not valid")
	ErrHasOpenDebt  = apperr.Conflict("customer still has outstanding debt")
	ErrInUse        = apperr.Conflict("customer cannot be deleted while transactions reference it")
)
