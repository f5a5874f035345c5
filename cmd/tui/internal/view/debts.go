package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/warung/internal/debt"
	"github.com/MrJamesThe3rd/warung/internal/page"
)

type debtState int

const (
	debtStateBrowse debtState = iota
	debtStatePay
)

// DebtModel lists open debts and records payments against them.
type DebtModel struct {
	CommonModel
	debtService *debt.Service

	state debtState
	table table.Model
	debts []*debt.Debt
	stats *debt.Stats
	form  *huh.Form

	formAmount string
	formNotes  string

	loading   bool
	err       error
	status    string
	collected decimal.Decimal
}

func NewDebtModel(svc *debt.Service) DebtModel {
	columns := []table.Column{
		{Title: "Customer", Width: 20},
		{Title: "Invoice", Width: 20},
		{Title: "Since", Width: 12},
		{Title: "Total", Width: 16},
		{Title: "Paid", Width: 16},
		{Title: "Remaining", Width: 16},
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

	return DebtModel{
		debtService: svc,
		table:       t,
		loading:     true,
		collected:   decimal.Zero,
	}
}

func (m DebtModel) Title() string { return "Collect Debts" }

func (m DebtModel) ShortHelp() string {
	if m.state == debtStatePay {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: record payment | r: refresh"
}

func (m DebtModel) Init() tea.Cmd {
	return m.loadOpenCmd()
}

func (m DebtModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOpenMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.debts = msg.debts
		m.stats = msg.stats
		m.refreshTable()

		return m, nil

	case debtPaidMsg:
		m.state = debtStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		res := msg.result
		m.collected = m.collected.Add(res.Payment.Amount)
		m.status = fmt.Sprintf("%s: paid %s, %s left (%s)",
			res.Debt.InvoiceCode,
			FormatAmount(res.Payment.Amount),
			FormatAmount(res.Debt.RemainingDebt),
			res.Debt.Status.Label(),
		)

		return m, m.loadOpenCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 12)

		return m, nil
	}

	switch m.state {
	case debtStateBrowse:
		return m.updateBrowse(msg)
	case debtStatePay:
		return m.updatePay(msg)
	}

	return m, nil
}

func (m DebtModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadOpenCmd()
		case "p", "enter":
			return m.startPayment()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DebtModel) startPayment() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.debts) {
		return m, nil
	}

	d := m.debts[idx]
	remaining := d.RemainingDebt
	m.formAmount = remaining.String()
	m.formNotes = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Description(fmt.Sprintf("%s owes %s", d.CustomerName, FormatAmount(remaining))).
				Value(&m.formAmount).
				Validate(func(s string) error {
					a, err := ParseAmount(s)
					if err != nil {
						return err
					}

					if !a.IsPositive() {
						return fmt.Errorf("amount must be greater than zero")
					}

					if a.GreaterThan(remaining) {
						return fmt.Errorf("more than the %s still owed", FormatAmount(remaining))
					}

					return nil
				}),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Placeholder("cicilan, transfer, ...").
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = debtStatePay
	m.table.Blur()

	return m, m.form.Init()
}

func (m DebtModel) updatePay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = debtStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.payCmd()
}

func (m DebtModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading open debts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Collected this session: %s", activeStyle(FormatAmount(m.collected)))
	if m.stats != nil {
		header = fmt.Sprintf("Outstanding: %s across %d debts from %d customers | %s",
			activeStyle(FormatAmount(m.stats.TotalOutstanding)),
			m.stats.OpenCount,
			m.stats.CustomersOwing,
			header,
		)
	}

	body := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if len(m.debts) == 0 {
		body = successStyle.Render("No open debts.")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		body,
	)

	if m.state == debtStatePay && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(48).Render(
			"Record Payment\n\n"+m.form.View(),
		))
	}

	if m.status != "" {
		content = mutedStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *DebtModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.debts))

	for _, d := range m.debts {
		rows = append(rows, table.Row{
			d.CustomerName,
			d.InvoiceCode,
			FormatDate(d.CreatedAt),
			FormatAmount(d.TotalDebt),
			FormatAmount(d.PaidAmount),
			FormatAmount(d.RemainingDebt),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

type loadOpenMsg struct {
	debts []*debt.Debt
	stats *debt.Stats
	err   error
}

func (m DebtModel) loadOpenCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ds, _, err := m.debtService.List(ctx, debt.ListFilter{
			OpenOnly: true,
			Page:     page.Request{Page: 1, Limit: page.MaxLimit},
		})
		if err != nil {
			return loadOpenMsg{err: err}
		}

		st, err := m.debtService.Stats(ctx)

		return loadOpenMsg{debts: ds, stats: st, err: err}
	}
}

type debtPaidMsg struct {
	result *debt.PaymentResult
	err    error
}

func (m DebtModel) payCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.debts) {
		return nil
	}

	id := m.debts[idx].ID
	notes := m.formNotes

	amount, err := ParseAmount(m.formAmount)
	if err != nil {
		return func() tea.Msg { return debtPaidMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.debtService.RecordPayment(ctx, debt.RecordPaymentParams{
			DebtID: id,
			Amount: amount,
			Notes:  notes,
		})

		return debtPaidMsg{result: res, err: err}
	}
}
