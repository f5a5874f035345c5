package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/warung/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/warung/internal/config"
	"github.com/MrJamesThe3rd/warung/internal/database"
	"github.com/MrJamesThe3rd/warung/internal/debt"
	debtStore "github.com/MrJamesThe3rd/warung/internal/debt/store"
	"github.com/MrJamesThe3rd/warung/internal/importer"
	"github.com/MrJamesThe3rd/warung/internal/product"
	productStore "github.com/MrJamesThe3rd/warung/internal/product/store"
	"github.com/MrJamesThe3rd/warung/internal/report"
	reportStore "github.com/MrJamesThe3rd/warung/internal/report/store"
	"github.com/MrJamesThe3rd/warung/internal/transaction"
	txStore "github.com/MrJamesThe3rd/warung/internal/transaction/store"
)

type screen struct {
	key   string
	title string
	open  func() view.View
}

type model struct {
	name    string
	screens []screen
	current view.View
	width   int
	height  int
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var (
		txSvc      = transaction.NewService(txStore.New(db), loc)
		debtSvc    = debt.NewService(debtStore.New(db))
		productSvc = product.NewService(productStore.New(db))
		reportSvc  = report.NewService(reportStore.New(db), loc, cfg.App.Name)
		importSvc  = importer.NewService(productSvc)
	)

	return model{
		name: cfg.App.Name,
		screens: []screen{
			{key: "1", title: "Sales & Purchases", open: func() view.View { return view.NewSalesModel(txSvc, loc) }},
			{key: "2", title: "Collect Debts", open: func() view.View { return view.NewDebtModel(debtSvc) }},
			{key: "3", title: "Low Stock", open: func() view.View { return view.NewStockModel(productSvc) }},
			{key: "4", title: "Sales Recap", open: func() view.View { return view.NewRecapModel(reportSvc, loc) }},
			{key: "5", title: "Import Products", open: func() view.View { return view.NewImportModel(importSvc) }},
		},
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.current = nil
		return m, nil
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	m.current = next.(view.View)

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}

	for _, s := range m.screens {
		if msg.String() != s.key {
			continue
		}

		m.current = s.open()
		cmds := []tea.Cmd{m.current.Init()}

		if m.width > 0 {
			size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
			cmds = append(cmds, func() tea.Msg { return size })
		}

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m model) View() string {
	if m.current != nil {
		help := lipgloss.NewStyle().Faint(true).Render(m.current.ShortHelp())
		title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(m.current.Title())

		return lipgloss.JoinVertical(lipgloss.Left, title, m.current.View(), " "+help)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", m.name)

	for _, s := range m.screens {
		fmt.Fprintf(&b, "%s. %s\n", s.key, s.title)
	}

	b.WriteString("\nq. Quit")

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
