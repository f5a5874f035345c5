package transaction_test

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/debt"
	"github.com/MrJamesThe3rd/warung/internal/stock"
	"github.com/MrJamesThe3rd/warung/internal/transaction"
)

var errInjected = errors.New("injected failure")

// shop is an in-memory database. Each unit of work edits a copy that only
// replaces the shop's state on Commit.
type shop struct {
	state  *shopState
	failOn string
}

type shopState struct {
	seq       map[string]int64
	stock     map[uuid.UUID]stock.Level
	customers map[uuid.UUID]bool
	txs       map[uuid.UUID]*transaction.Transaction
	debts     map[uuid.UUID]*debt.Debt // by transaction id
	payments  []*debt.Payment
}

func newShop() *shop {
	return &shop{state: &shopState{
		seq:       map[string]int64{},
		stock:     map[uuid.UUID]stock.Level{},
		customers: map[uuid.UUID]bool{},
		txs:       map[uuid.UUID]*transaction.Transaction{},
		debts:     map[uuid.UUID]*debt.Debt{},
	}}
}

func (s *shopState) clone() *shopState {
	c := &shopState{
		seq:       maps.Clone(s.seq),
		stock:     maps.Clone(s.stock),
		customers: maps.Clone(s.customers),
		txs:       make(map[uuid.UUID]*transaction.Transaction, len(s.txs)),
		debts:     make(map[uuid.UUID]*debt.Debt, len(s.debts)),
		payments:  slices.Clone(s.payments),
	}

	for k, v := range s.txs {
		cp := *v
		cp.Items = slices.Clone(v.Items)
		c.txs[k] = &cp
	}

	for k, v := range s.debts {
		cp := *v
		c.debts[k] = &cp
	}

	return c
}

func (s *shop) addProduct(name string, qty int) uuid.UUID {
	id := uuid.New()
	s.state.stock[id] = stock.Level{ProductID: id, Name: name, Stock: qty}

	return id
}

func (s *shop) addCustomer() uuid.UUID {
	id := uuid.New()
	s.state.customers[id] = true

	return id
}

func (s *shop) stockOf(id uuid.UUID) int {
	return s.state.stock[id].Stock
}

func (s *shop) paymentsFor(debtID uuid.UUID) decimal.Decimal {
	sum := decimal.Zero

	for _, p := range s.state.payments {
		if p.DebtID == debtID {
			sum = sum.Add(p.Amount)
		}
	}

	return sum
}

func (s *shop) GetTransaction(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	t, ok := s.state.txs[id]
	if !ok {
		return nil, transaction.ErrNotFound
	}

	cp := *t
	if d, ok := s.state.debts[id]; ok {
		dc := *d
		cp.Debt = &dc
	}

	return &cp, nil
}

func (s *shop) ListTransactions(_ context.Context, _ transaction.ListFilter) ([]*transaction.Transaction, int, error) {
	out := slices.Collect(maps.Values(s.state.txs))
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceCode < out[j].InvoiceCode })

	return out, len(out), nil
}

func (s *shop) Begin(_ context.Context) (transaction.UnitOfWork, error) {
	return &shopTx{shop: s, st: s.state.clone()}, nil
}

type shopTx struct {
	shop *shop
	st   *shopState
	done bool
}

func (u *shopTx) fail(op string) error {
	if u.shop.failOn == op {
		return errInjected
	}

	return nil
}

func (u *shopTx) Commit() error {
	if err := u.fail("Commit"); err != nil {
		return err
	}

	u.shop.state = u.st
	u.done = true

	return nil
}

func (u *shopTx) Rollback() error {
	u.done = true
	return nil
}

func (u *shopTx) NextInvoiceNumber(_ context.Context, period string) (int64, error) {
	u.st.seq[period]++
	return u.st.seq[period], nil
}

func (u *shopTx) LockStock(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]stock.Level, error) {
	out := map[uuid.UUID]stock.Level{}

	for _, id := range ids {
		if l, ok := u.st.stock[id]; ok {
			out[id] = l
		}
	}

	return out, nil
}

func (u *shopTx) DecrementStock(_ context.Context, id uuid.UUID, qty int) (bool, error) {
	l := u.st.stock[id]
	if l.Stock < qty {
		return false, nil
	}

	l.Stock -= qty
	u.st.stock[id] = l

	return true, nil
}

func (u *shopTx) IncrementStock(_ context.Context, id uuid.UUID, qty int) error {
	l := u.st.stock[id]
	l.Stock += qty
	u.st.stock[id] = l

	return nil
}

func (u *shopTx) DrainStock(_ context.Context, id uuid.UUID, qty int) error {
	l := u.st.stock[id]
	l.Stock = max(l.Stock-qty, 0)
	u.st.stock[id] = l

	return nil
}

func (u *shopTx) GetDebtByTransaction(_ context.Context, txID uuid.UUID) (*debt.Debt, error) {
	d, ok := u.st.debts[txID]
	if !ok {
		return nil, debt.ErrNotFound
	}

	cp := *d

	return &cp, nil
}

func (u *shopTx) CreateDebt(_ context.Context, d *debt.Debt) error {
	if err := u.fail("CreateDebt"); err != nil {
		return err
	}

	d.ID = uuid.New()
	cp := *d
	u.st.debts[d.TransactionID] = &cp

	return nil
}

func (u *shopTx) UpdateDebt(_ context.Context, d *debt.Debt) error {
	cp := *d
	u.st.debts[d.TransactionID] = &cp

	return nil
}

func (u *shopTx) CreatePayment(_ context.Context, p *debt.Payment) error {
	p.ID = uuid.New()
	u.st.payments = append(u.st.payments, p)

	return nil
}

func (u *shopTx) CustomerExists(_ context.Context, id uuid.UUID) (bool, error) {
	return u.st.customers[id], nil
}

func (u *shopTx) CreateTransaction(_ context.Context, t *transaction.Transaction) error {
	t.ID = uuid.New()
	cp := *t
	cp.Items = nil // CreateItems stores the lines
	u.st.txs[t.ID] = &cp

	return nil
}

func (u *shopTx) CreateItems(_ context.Context, items []*transaction.Item) error {
	if err := u.fail("CreateItems"); err != nil {
		return err
	}

	for _, it := range items {
		it.ID = uuid.New()
		t := u.st.txs[it.TransactionID]
		t.Items = append(t.Items, it)
	}

	return nil
}

func (u *shopTx) LockTransaction(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	t, ok := u.st.txs[id]
	if !ok {
		return nil, transaction.ErrNotFound
	}

	cp := *t

	return &cp, nil
}

func (u *shopTx) UpdateTransaction(_ context.Context, t *transaction.Transaction) error {
	cp := *t
	u.st.txs[t.ID] = &cp

	return nil
}

func (u *shopTx) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	if d, ok := u.st.debts[id]; ok {
		u.st.payments = slices.DeleteFunc(u.st.payments, func(p *debt.Payment) bool { return p.DebtID == d.ID })
		delete(u.st.debts, id)
	}

	delete(u.st.txs, id)

	return nil
}
