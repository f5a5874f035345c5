package view

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/warung/internal/page"
	"github.com/MrJamesThe3rd/warung/internal/product"
)

type stockState int

const (
	stockStateList stockState = iota
	stockStateEdit
)

const defaultLowStock = 5

type productItem struct {
	p *product.Product
}

func (i productItem) Title() string {
	return fmt.Sprintf("%-32s %5d", i.p.Name, i.p.Stock)
}

func (i productItem) Description() string {
	category := i.p.CategoryName
	if category == "" {
		category = "uncategorised"
	}

	return fmt.Sprintf("%s | buy %s | sell %s", category, FormatAmount(i.p.PurchasePrice), FormatAmount(i.p.SellingPrice))
}

func (i productItem) FilterValue() string { return i.p.Name }

// StockModel lists products running low and lets the shopkeeper recount them.
type StockModel struct {
	CommonModel
	productService *product.Service

	state     stockState
	list      list.Model
	products  []*product.Product
	threshold int

	form      *huh.Form
	formStock string

	loading bool
	err     error
	status  string
}

func NewStockModel(svc *product.Service) StockModel {
	l := list.New(nil, productItemDelegate{}, 80, 20)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	m := StockModel{
		productService: svc,
		list:           l,
		threshold:      defaultLowStock,
		loading:        true,
	}
	m.setTitle()

	return m
}

func (m StockModel) Title() string { return "Low Stock" }

func (m StockModel) ShortHelp() string {
	if m.state == stockStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: recount | +/-: threshold | /: search | r: refresh"
}

func (m StockModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadStockMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.products = msg.products
		m.refreshItems()

		return m, nil

	case stockSaveMsg:
		m.status = "Stock updated."
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = stockStateList
		m.form = nil

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	switch m.state {
	case stockStateList:
		return m.updateList(msg)
	case stockStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m StockModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "+", "=":
			m.threshold++
			m.setTitle()

			return m, m.loadCmd()
		case "-":
			if m.threshold > 0 {
				m.threshold--
				m.setTitle()
			}

			return m, m.loadCmd()
		case "e":
			return m.startEditing()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m StockModel) startEditing() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(productItem)
	if !ok {
		return m, nil
	}

	m.formStock = strconv.Itoa(item.p.Stock)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("stock").
				Title("Units on the shelf").
				Description(item.p.Name).
				Value(&m.formStock).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil {
						return fmt.Errorf("enter a whole number")
					}

					if n < 0 {
						return fmt.Errorf("stock must not be negative")
					}

					return nil
				}),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = stockStateEdit

	return m, m.form.Init()
}

func (m StockModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = stockStateList
		m.form = nil

		return m, nil
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

func (m StockModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading products...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	content := m.list.View()
	if len(m.products) == 0 {
		content = mutedStyle.Render(fmt.Sprintf("Nothing at or below %d units.", m.threshold))
	}

	if m.state == stockStateEdit && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(44).Render(m.form.View()))
	}

	if m.status != "" {
		content = mutedStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *StockModel) setTitle() {
	m.list.Title = fmt.Sprintf("Products with %d or fewer units", m.threshold)
}

func (m *StockModel) refreshItems() {
	items := make([]list.Item, len(m.products))
	for i, p := range m.products {
		items[i] = productItem{p: p}
	}

	m.list.SetItems(items)
}

type loadStockMsg struct {
	products []*product.Product
	err      error
}

func (m StockModel) loadCmd() tea.Cmd {
	threshold := m.threshold

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ps, _, err := m.productService.List(ctx, product.ListFilter{
			MaxStock: &threshold,
			Page:     page.Request{Page: 1, Limit: page.MaxLimit},
		})

		return loadStockMsg{products: ps, err: err}
	}
}

type stockSaveMsg struct {
	err error
}

func (m StockModel) saveCmd() tea.Cmd {
	item, ok := m.list.SelectedItem().(productItem)
	if !ok {
		return nil
	}

	id := item.p.ID

	n, err := strconv.Atoi(m.formStock)
	if err != nil {
		return func() tea.Msg { return stockSaveMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.productService.Update(ctx, id, product.UpdateParams{Stock: &n})

		return stockSaveMsg{err: err}
	}
}

type productItemDelegate struct{}

func (d productItemDelegate) Height() int                             { return 2 }
func (d productItemDelegate) Spacing() int                            { return 0 }
func (d productItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d productItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(productItem)
	if !ok {
		return
	}

	title := i.Title()
	if i.p.Stock == 0 {
		title = errorStyle.Render(title)
	}

	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + i.Title())
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", mutedStyle.Render(i.Description()))
}
