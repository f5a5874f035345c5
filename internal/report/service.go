package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	topProductsLimit = 8
	recentSalesLimit = 10
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	// Summarize totals sales whose transaction date falls in w.
	Summarize(ctx context.Context, w Window) (Summary, error)
	// Outstanding sums the remaining balance of every debt.
	Outstanding(ctx context.Context) (decimal.Decimal, error)
	// SalesByDate groups sales in w by calendar day in tz.
	SalesByDate(ctx context.Context, w Window, tz string) ([]DailySales, error)
	TopProducts(ctx context.Context, w Window, limit int) ([]TopProduct, error)
	RecentSales(ctx context.Context, limit int) ([]RecentSale, error)

	// CustomerName returns ErrCustomerNotFound for an unknown id.
	CustomerName(ctx context.Context, id uuid.UUID) (string, error)
	OpenDebts(ctx context.Context, customerID uuid.UUID) ([]StatementLine, error)
}

type Service struct {
	repo Repository
	loc  *time.Location
	shop string
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location, shop string) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{repo: repo, loc: loc, shop: shop, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type Query struct {
	Range Range
	Start *time.Time
	End   *time.Time
}

// Dashboard gathers every figure on the home screen. The queries are
// independent and run concurrently.
func (s *Service) Dashboard(ctx context.Context, q Query) (*Dashboard, error) {
	now := s.now().In(s.loc)

	w, err := ResolveRange(q.Range, q.Start, q.End, now)
	if err != nil {
		return nil, err
	}

	today, _ := ResolveRange(RangeToday, nil, nil, now)

	d := &Dashboard{Window: w}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sum, err := s.repo.Summarize(gctx, today)
		if err != nil {
			return fmt.Errorf("today summary: %w", err)
		}

		d.TodayProfit = sum.Profit

		return nil
	})

	g.Go(func() error {
		sum, err := s.repo.Summarize(gctx, w)
		if err != nil {
			return fmt.Errorf("range summary: %w", err)
		}

		d.RangeProfit = sum.Profit
		d.TotalProductsSold = sum.ProductsSold
		d.TotalTransactions = sum.Transactions

		return nil
	})

	g.Go(func() error {
		total, err := s.repo.Outstanding(gctx)
		if err != nil {
			return fmt.Errorf("outstanding debt: %w", err)
		}

		d.TotalDebt = total

		return nil
	})

	g.Go(func() error {
		days, err := s.repo.SalesByDate(gctx, w, s.loc.String())
		if err != nil {
			return fmt.Errorf("sales by date: %w", err)
		}

		d.SalesByDate = days

		return nil
	})

	g.Go(func() error {
		top, err := s.repo.TopProducts(gctx, w, topProductsLimit)
		if err != nil {
			return fmt.Errorf("top products: %w", err)
		}

		d.TopProducts = top

		return nil
	})

	g.Go(func() error {
		recent, err := s.repo.RecentSales(gctx, recentSalesLimit)
		if err != nil {
			return fmt.Errorf("recent sales: %w", err)
		}

		d.RecentTransactions = recent

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return d, nil
}

// Statement lists a customer's open debts as of now.
func (s *Service) Statement(ctx context.Context, customerID uuid.UUID) (*Statement, error) {
	name, err := s.repo.CustomerName(ctx, customerID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.OpenDebts(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("loading open debts: %w", err)
	}

	return &Statement{CustomerName: name, AsOf: s.now().In(s.loc), Lines: lines}, nil
}

// StatementText is Statement rendered for sending through a chat app.
func (s *Service) StatementText(ctx context.Context, customerID uuid.UUID) (string, error) {
	st, err := s.Statement(ctx, customerID)
	if err != nil {
		return "", err
	}

	return st.Text(s.shop), nil
}
