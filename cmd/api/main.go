package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/warung/internal/category"
	categoryStore "github.com/MrJamesThe3rd/warung/internal/category/store"
	"github.com/MrJamesThe3rd/warung/internal/config"
	"github.com/MrJamesThe3rd/warung/internal/customer"
	customerStore "github.com/MrJamesThe3rd/warung/internal/customer/store"
	"github.com/MrJamesThe3rd/warung/internal/database"
	"github.com/MrJamesThe3rd/warung/internal/debt"
	debtStore "github.com/MrJamesThe3rd/warung/internal/debt/store"
	warungHttp "github.com/MrJamesThe3rd/warung/internal/http"
	categoryHandler "github.com/MrJamesThe3rd/warung/internal/http/category"
	customerHandler "github.com/MrJamesThe3rd/warung/internal/http/customer"
	debtHandler "github.com/MrJamesThe3rd/warung/internal/http/debt"
	productHandler "github.com/MrJamesThe3rd/warung/internal/http/product"
	statsHandler "github.com/MrJamesThe3rd/warung/internal/http/stats"
	txHandler "github.com/MrJamesThe3rd/warung/internal/http/transaction"
	"github.com/MrJamesThe3rd/warung/internal/importer"
	"github.com/MrJamesThe3rd/warung/internal/product"
	productStore "github.com/MrJamesThe3rd/warung/internal/product/store"
	"github.com/MrJamesThe3rd/warung/internal/report"
	reportStore "github.com/MrJamesThe3rd/warung/internal/report/store"
	"github.com/MrJamesThe3rd/warung/internal/transaction"
	txStore "github.com/MrJamesThe3rd/warung/internal/transaction/store"
)

const shutdownGrace = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}

		slog.Info("schema applied")
	}

	var (
		transactionService = transaction.NewService(txStore.New(db), loc)
		debtService        = debt.NewService(debtStore.New(db))
		productService     = product.NewService(productStore.New(db))
		categoryService    = category.NewService(categoryStore.New(db))
		customerService    = customer.NewService(customerStore.New(db), cfg.Phone.Region)
		reportService      = report.NewService(reportStore.New(db), loc, cfg.App.Name)
		importService      = importer.NewService(productService)
	)

	router := warungHttp.New(warungHttp.Handlers{
		Transactions: txHandler.NewHandler(transactionService, loc),
		Debts:        debtHandler.NewHandler(debtService),
		Products:     productHandler.NewHandler(productService, importService),
		Categories:   categoryHandler.NewHandler(categoryService),
		Customers:    customerHandler.NewHandler(customerService, reportService),
		Stats:        statsHandler.NewHandler(reportService, loc),
	}, warungHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
		Timeout:        cfg.Server.Timeout,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Uploads and reports may take a while; the router enforces cfg.Server.Timeout.
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "name", cfg.App.Name, "timezone", loc.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
