package page

const (
	DefaultLimit = 10
	MaxLimit     = 1000
)

// Request is a 1-based page window.
type Request struct {
	Page  int
	Limit int
}

// Normalize clamps out-of-range values to defaults.
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = 1
	}

	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}

	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}

	return r
}

func (r Request) Offset() int {
	n := r.Normalize()
	return (n.Page - 1) * n.Limit
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewMeta(r Request, total int) Meta {
	n := r.Normalize()

	return Meta{
		Page:       n.Page,
		Limit:      n.Limit,
		Total:      total,
		TotalPages: (total + n.Limit - 1) / n.Limit,
	}
}
