package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/warung/internal/page"
	"github.com/MrJamesThe3rd/warung/internal/payment"
	"github.com/MrJamesThe3rd/warung/internal/transaction"
)

type salesState int

const (
	salesStateBrowse salesState = iota
	salesStateTimeframe
	salesStateEdit
)

const salesPageSize = 100

var (
	salesStatusFilters = []*payment.Status{nil, new(payment.StatusUnpaid), new(payment.StatusPartial), new(payment.StatusPaid)}
	salesTypeFilters   = []*transaction.Type{nil, new(transaction.TypeSale), new(transaction.TypePurchase)}
)

type SalesModel struct {
	CommonModel
	txService *transaction.Service
	loc       *time.Location

	state  salesState
	table  table.Model
	txs    []*transaction.Transaction
	total  int
	form   *huh.Form
	picker TimeframePicker

	statusFilterIdx int
	typeFilterIdx   int
	timeframeLabel  string

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string

	formPaid  string
	formNotes string
}

func NewSalesModel(txSvc *transaction.Service, loc *time.Location) SalesModel {
	columns := []table.Column{
		{Title: "Invoice", Width: 20},
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 9},
		{Title: "Customer", Width: 20},
		{Title: "Total", Width: 16},
		{Title: "Paid", Width: 16},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return SalesModel{
		txService:      txSvc,
		loc:            loc,
		table:          t,
		picker:         NewTimeframePicker(loc, true),
		timeframeLabel: timeframeAll.Label,
		filter:         transaction.ListFilter{Page: page.Request{Page: 1, Limit: salesPageSize}},
		loading:        true,
	}
}

func (m SalesModel) Title() string { return "Sales & Purchases" }

func (m SalesModel) ShortHelp() string {
	switch m.state {
	case salesStateEdit:
		return "Navigate form | Esc: cancel"
	case salesStateTimeframe:
		return "Enter: select | Esc: cancel"
	}

	return "Esc: back | e: edit | s: status | t: type | d: dates | r: refresh"
}

func (m SalesModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m SalesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSalesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.total = msg.total
		m.refreshTable()

		return m, nil

	case salesSaveMsg:
		m.status = "Saved."
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = salesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadTxsCmd()

	case TimeframeSelectedMsg:
		if err := m.applyTimeframe(msg); err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
		}

		m.state = salesStateBrowse
		m.table.Focus()
		m.loading = true

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 10)

		return m, nil
	}

	switch m.state {
	case salesStateBrowse:
		return m.updateBrowse(msg)
	case salesStateTimeframe:
		return m.updateTimeframe(msg)
	case salesStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m SalesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "e":
			return m.enterEditMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(salesStatusFilters)
			m.filter.Status = salesStatusFilters[m.statusFilterIdx]

			return m, m.loadTxsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(salesTypeFilters)
			m.filter.Type = salesTypeFilters[m.typeFilterIdx]

			return m, m.loadTxsCmd()
		case "d":
			m.state = salesStateTimeframe
			m.picker.Reset()
			m.table.Blur()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SalesModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			m.state = salesStateBrowse
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m *SalesModel) applyTimeframe(msg TimeframeSelectedMsg) error {
	if msg.All {
		m.filter.StartDate, m.filter.EndDate = nil, nil
		m.timeframeLabel = msg.Label

		return nil
	}

	w, err := msg.Window(m.loc)
	if err != nil {
		return err
	}

	m.filter.StartDate, m.filter.EndDate = &w.Start, &w.End
	m.timeframeLabel = msg.Label

	return nil
}

func (m SalesModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return m, nil
	}

	tx := m.txs[idx]
	total := tx.TotalAmount
	m.formPaid = tx.PaidAmount.String()
	m.formNotes = tx.Notes

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("paid").
				Title("Paid amount").
				Description("Total "+FormatAmount(total)).
				Value(&m.formPaid).
				Validate(func(s string) error {
					d, err := ParseAmount(s)
					if err != nil {
						return err
					}

					if d.GreaterThan(total) {
						return fmt.Errorf("paid amount exceeds %s", FormatAmount(total))
					}

					return nil
				}),

			huh.NewText().
				Key("notes").
				Title("Notes").
				Lines(3).
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = salesStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m SalesModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = salesStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m SalesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.state == salesStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	statusLabel := "All"
	if f := salesStatusFilters[m.statusFilterIdx]; f != nil {
		statusLabel = f.Label()
	}

	typeLabel := "All"
	if f := salesTypeFilters[m.typeFilterIdx]; f != nil {
		typeLabel = string(*f)
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [t] Type: %s | [d] Dates: %s   (%d shown of %d)",
		activeStyle(statusLabel),
		activeStyle(typeLabel),
		activeStyle(m.timeframeLabel),
		len(m.txs), m.total,
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == salesStateEdit && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(48).Render(
			fmt.Sprintf("Edit Transaction\n\n%s\n\n%s", m.itemsSummary(), m.form.View()),
		))
	}

	if m.status != "" {
		content = mutedStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m SalesModel) itemsSummary() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return ""
	}

	var b strings.Builder

	for _, it := range m.txs[idx].Items {
		fmt.Fprintf(&b, "%dx %s @ %s\n", it.Quantity, it.ProductName, FormatAmount(it.Price))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m *SalesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		customer := tx.CustomerName
		if customer == "" {
			customer = "-"
		}

		rows = append(rows, table.Row{
			tx.InvoiceCode,
			FormatDate(tx.TransactionDate.In(m.loc)),
			string(tx.Type),
			customer,
			FormatAmount(tx.TotalAmount),
			FormatAmount(tx.PaidAmount),
			tx.PaymentStatus.Label(),
		})
	}

	m.table.SetRows(rows)
}

type loadSalesMsg struct {
	txs   []*transaction.Transaction
	total int
	err   error
}

func (m SalesModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, total, err := m.txService.List(ctx, filter)

		return loadSalesMsg{txs: txs, total: total, err: err}
	}
}

type salesSaveMsg struct {
	err error
}

func (m SalesModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	id := m.txs[idx].ID
	notes := m.formNotes

	paid, err := ParseAmount(m.formPaid)
	if err != nil {
		return func() tea.Msg { return salesSaveMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Update(ctx, id, transaction.UpdateParams{
			PaidAmount: &paid,
			Notes:      &notes,
		})

		return salesSaveMsg{err: err}
	}
}
