package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/warung/internal/http/auth"
	"github.com/MrJamesThe3rd/warung/internal/http/category"
	"github.com/MrJamesThe3rd/warung/internal/http/customer"
	"github.com/MrJamesThe3rd/warung/internal/http/debt"
	"github.com/MrJamesThe3rd/warung/internal/http/product"
	"github.com/MrJamesThe3rd/warung/internal/http/stats"
	"github.com/MrJamesThe3rd/warung/internal/http/transaction"
)

type Options struct {
	AllowedOrigins []string
	JWTSecret      string
	Timeout        time.Duration
}

type Handlers struct {
	Transactions *transaction.Handler
	Debts        *debt.Handler
	Products     *product.Handler
	Categories   *category.Handler
	Customers    *customer.Handler
	Stats        *stats.Handler
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.JWTSecret))

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/debts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Debts.Routes(r)
		})

		r.Route("/debt-payments", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Debts.PaymentRoutes(r)
		})

		// Import uploads are multipart.
		r.Route("/products", h.Products.Routes)

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Categories.Routes(r)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Customers.Routes(r)
		})

		r.Route("/stats", h.Stats.Routes)
	})

	return router
}
