package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/warung/internal/report"
)

type recapState int

const (
	recapStateTimeframe recapState = iota
	recapStateLoading
	recapStateResult
)

const recapTimeout = 30 * time.Second

// RecapModel shows the dashboard figures for a chosen period.
type RecapModel struct {
	CommonModel
	reportService *report.Service

	state           recapState
	err             error
	timeframePicker TimeframePicker
	label           string

	spinner   spinner.Model
	dashboard *report.Dashboard
}

func NewRecapModel(svc *report.Service, loc *time.Location) RecapModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return RecapModel{
		reportService:   svc,
		state:           recapStateTimeframe,
		timeframePicker: NewTimeframePicker(loc, false),
		spinner:         s,
	}
}

func (m RecapModel) Title() string { return "Sales Recap" }

func (m RecapModel) ShortHelp() string {
	switch m.state {
	case recapStateResult:
		return "Esc: pick another period"
	case recapStateLoading:
		return "Loading..."
	}

	return "Esc: back | Enter: confirm"
}

func (m RecapModel) Init() tea.Cmd {
	return nil
}

func (m RecapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.label = tfMsg.Label
		m.state = recapStateLoading
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.loadCmd(tfMsg))
	}

	switch m.state {
	case recapStateTimeframe:
		return m.updateTimeframe(msg)
	case recapStateLoading:
		return m.updateLoading(msg)
	case recapStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m RecapModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m RecapModel) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(recapResultMsg); ok {
		m.state = recapStateResult
		m.err = result.err
		m.dashboard = result.dashboard

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m RecapModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = recapStateTimeframe
		m.timeframePicker.Reset()

		return m, nil
	}

	return m, nil
}

func (m RecapModel) View() string {
	switch m.state {
	case recapStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	case recapStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Adding up %s...", m.spinner.View(), m.label),
		)
	case recapStateResult:
		return m.viewResult()
	}

	return ""
}

func (m RecapModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	d := m.dashboard
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Recap: " + m.label)

	figures := fmt.Sprintf(
		"Profit today:      %s\nProfit in period:  %s\nTransactions:      %d\nProducts sold:     %d\nOutstanding debt:  %s",
		FormatAmount(d.TodayProfit),
		FormatAmount(d.RangeProfit),
		d.TotalTransactions,
		d.TotalProductsSold,
		FormatAmount(d.TotalDebt),
	)

	var top strings.Builder

	top.WriteString("Top products:\n")

	for i, p := range d.TopProducts {
		fmt.Fprintf(&top, "%2d. %-24s %4d  %s\n", i+1, p.Name, p.Quantity, FormatAmount(p.Revenue))
	}

	if len(d.TopProducts) == 0 {
		top.WriteString(mutedStyle.Render("  no sales in this period") + "\n")
	}

	var days strings.Builder

	days.WriteString("Sales by day:\n")

	for _, s := range d.SalesByDate {
		fmt.Fprintf(&days, "  %s  %s\n", s.Date, FormatAmount(s.Total))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			figures,
			"",
			lipgloss.JoinHorizontal(lipgloss.Top,
				lipgloss.NewStyle().PaddingRight(4).Render(top.String()),
				days.String(),
			),
		),
	)
}

type recapResultMsg struct {
	dashboard *report.Dashboard
	err       error
}

func (m RecapModel) loadCmd(sel TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recapTimeout)
		defer cancel()

		d, err := m.reportService.Dashboard(ctx, report.Query{Range: sel.Range, Start: sel.Start, End: sel.End})

		return recapResultMsg{dashboard: d, err: err}
	}
}
