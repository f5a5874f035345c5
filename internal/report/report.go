// Package report builds the dashboard figures and customer statements.
package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/apperr"
	"github.com/MrJamesThe3rd/warung/internal/payment"
)

type Range string

const (
	RangeToday       Range = "today"
	RangeThisMonth   Range = "this-month"
	RangeLastMonth   Range = "last-month"
	RangeLast3Months Range = "last-3-months"
	RangeThisYear    Range = "this-year"
)

var (
	ErrUnknownRange     = apperr.Validation("unknown range")
	ErrIncompleteWindow = apperr.Validation("startDate and endDate must be given together")
	ErrWindowOutOfOrder = apperr.Validation("startDate must not be after endDate")
	ErrCustomerNotFound = apperr.NotFound("customer not found")
)

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func month(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// ResolveRange turns a named range or explicit dates into a window in now's
// location. Explicit dates take precedence and cover whole days, both ends
// inclusive. An empty range means this month.
func ResolveRange(r Range, start, end *time.Time, now time.Time) (Window, error) {
	if start != nil || end != nil {
		if start == nil || end == nil {
			return Window{}, ErrIncompleteWindow
		}

		s := day(start.In(now.Location()))
		e := day(end.In(now.Location())).AddDate(0, 0, 1)

		if !s.Before(e) {
			return Window{}, ErrWindowOutOfOrder
		}

		return Window{Start: s, End: e}, nil
	}

	switch r {
	case RangeToday:
		s := day(now)
		return Window{Start: s, End: s.AddDate(0, 0, 1)}, nil
	case RangeThisMonth, "":
		s := month(now)
		return Window{Start: s, End: s.AddDate(0, 1, 0)}, nil
	case RangeLastMonth:
		e := month(now)
		return Window{Start: e.AddDate(0, -1, 0), End: e}, nil
	case RangeLast3Months:
		s := month(now).AddDate(0, -2, 0)
		return Window{Start: s, End: month(now).AddDate(0, 1, 0)}, nil
	case RangeThisYear:
		s := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return Window{Start: s, End: s.AddDate(1, 0, 0)}, nil
	}

	return Window{}, apperr.Wrap(ErrUnknownRange, "unknown range %q", r)
}

// Summary totals the sales inside a window.
type Summary struct {
	Profit       decimal.Decimal
	ProductsSold int
	Transactions int
}

type DailySales struct {
	Date  string // YYYY-MM-DD in the business time zone
	Total decimal.Decimal
}

type TopProduct struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	Revenue   decimal.Decimal
}

type RecentSale struct {
	ID              uuid.UUID
	InvoiceCode     string
	CustomerName    string
	TotalAmount     decimal.Decimal
	PaymentStatus   payment.Status
	TransactionDate time.Time
}

type Dashboard struct {
	Window             Window
	TodayProfit        decimal.Decimal
	RangeProfit        decimal.Decimal
	TotalProductsSold  int
	TotalTransactions  int
	TotalDebt          decimal.Decimal
	SalesByDate        []DailySales
	TopProducts        []TopProduct
	RecentTransactions []RecentSale
}

// StatementLine is one open debt on a customer statement.
type StatementLine struct {
	InvoiceCode string
	Date        time.Time
	Total       decimal.Decimal
	Paid        decimal.Decimal
	Remaining   decimal.Decimal
}

type Statement struct {
	CustomerName string
	AsOf         time.Time
	Lines        []StatementLine
}

// Outstanding is what the customer still owes across every line.
func (s *Statement) Outstanding() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range s.Lines {
		sum = sum.Add(l.Remaining)
	}

	return sum
}
