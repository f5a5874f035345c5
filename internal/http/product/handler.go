package product

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/http/respond"
	"github.com/MrJamesThe3rd/warung/internal/importer"
	"github.com/MrJamesThe3rd/warung/internal/product"
)

const maxUploadSize = 10 << 20 // 10 MB

type Handler struct {
	svc      *product.Service
	importer *importer.Service
}

func NewHandler(svc *product.Service, imp *importer.Service) *Handler {
	return &Handler{svc: svc, importer: imp}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/import", h.importCSV)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type productResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	CategoryID    *uuid.UUID      `json:"categoryId"`
	Category      *categoryRef    `json:"category,omitempty"`
	Stock         int             `json:"stock"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

type categoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func toResponse(p *product.Product) productResponse {
	resp := productResponse{
		ID:            p.ID,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		Stock:         p.Stock,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if p.CategoryID != nil && p.CategoryName != "" {
		resp.Category = &categoryRef{ID: *p.CategoryID, Name: p.CategoryName}
	}

	return resp
}

type createProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	CategoryID    *uuid.UUID      `json:"categoryId"`
	Stock         int             `json:"stock" validate:"min=0"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.Create(r.Context(), product.CreateParams{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Stock:         req.Stock,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := product.ListFilter{
		Search: r.URL.Query().Get("search"),
		Page:   respond.Page(r),
	}

	var err error
	if filter.CategoryID, err = respond.QueryUUID(r, "categoryId"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if s := r.URL.Query().Get("maxStock"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respond.Error(w, r, apperr.Validation("maxStock must be a whole number"))
			return
		}

		filter.MaxStock = &n
	}

	ps, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]productResponse, len(ps))
	for i, p := range ps {
		resp[i] = toResponse(p)
	}

	respond.JSON(w, http.StatusOK, respond.NewList(resp, filter.Page, total))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=200"`
	CategoryID    *uuid.UUID       `json:"categoryId"`
	ClearCategory bool             `json:"clearCategory"`
	Stock         *int             `json:"stock" validate:"omitempty,min=0"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	SellingPrice  *decimal.Decimal `json:"sellingPrice"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateProductRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.Update(r.Context(), id, product.UpdateParams{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		Stock:         req.Stock,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Charset string          `json:"charset"`
	Created int             `json:"created"`
	Updated int             `json:"updated"`
	Skipped []importer.Skip `json:"skipped"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, r, apperr.Validation("file is larger than 10 MB"))
			return
		}

		respond.Error(w, r, apperr.Validation("expected a multipart form with a file field"))

		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, apperr.Validation("file is required"))
		return
	}
	defer file.Close()

	report, err := h.importer.Import(r.Context(), importer.FormatCSV, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	skipped := report.Skipped
	if skipped == nil {
		skipped = []importer.Skip{}
	}

	respond.JSON(w, http.StatusOK, importResponse{
		Charset: string(report.Charset),
		Created: report.Created,
		Updated: report.Updated,
		Skipped: skipped,
	})
}
