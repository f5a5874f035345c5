package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/warung/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

// ImportModel loads a product CSV into the catalogue.
type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	skipped    list.Model
	report     *importer.Report

	status string
	err    error
}

func NewImportModel(svc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: svc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Products" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Up/Down: browse skipped rows | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.report = msg.report
		m.status = fmt.Sprintf("%d created, %d updated, %d skipped (%s)",
			msg.report.Created, msg.report.Updated, len(msg.report.Skipped), msg.report.Charset)

		items := make([]list.Item, len(msg.report.Skipped))
		for i, s := range msg.report.Skipped {
			items[i] = skipItem{skip: s}
		}

		m.skipped = list.New(items, skipDelegate{}, 80, 15)
		m.skipped.Title = "Skipped rows"
		m.skipped.SetShowStatusBar(false)
		m.skipped.SetFilteringEnabled(false)
		m.skipped.SetShowHelp(false)

		return m, nil
	}

	switch m.state {
	case importStateResult:
		if m.report == nil || len(m.report.Skipped) == 0 {
			return m, nil
		}

		var cmd tea.Cmd
		m.skipped, cmd = m.skipped.Update(msg)

		return m, cmd

	case importStateFilePick:
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.state = importStateImporting
			m.status = fmt.Sprintf("Importing from %s...", path)

			return m, m.importCmd(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == importStateResult {
		m.state = importStateFilePick
		m.err = nil
		m.report = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a product CSV (name, category, stock, purchase and selling price):\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	body := successStyle.Render(m.status)
	if len(m.report.Skipped) > 0 {
		body += "\n\n" + m.skipped.View()
	}

	return style.Render(body + "\n\n(Esc to go back)")
}

type importResultMsg struct {
	report *importer.Report
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		rep, err := m.importService.Import(ctx, importer.FormatCSV, f)

		return importResultMsg{report: rep, err: err}
	}
}

type skipItem struct {
	skip importer.Skip
}

func (i skipItem) FilterValue() string { return i.skip.Reason }

type skipDelegate struct{}

func (d skipDelegate) Height() int                             { return 1 }
func (d skipDelegate) Spacing() int                            { return 0 }
func (d skipDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d skipDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(skipItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	fmt.Fprintf(w, "%sline %-5d %s", cursor, item.skip.Line, mutedStyle.Render(item.skip.Reason))
}
