package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/warung/internal/report"
)

// Timeframe is one row of the picker.
type Timeframe struct {
	Label string
	Range report.Range
	All   bool
}

var (
	timeframeAll    = Timeframe{Label: "All Time", All: true}
	timeframeCustom = Timeframe{Label: "Custom Range"}
)

var namedTimeframes = []Timeframe{
	{Label: "Today", Range: report.RangeToday},
	{Label: "This Month", Range: report.RangeThisMonth},
	{Label: "Last Month", Range: report.RangeLastMonth},
	{Label: "Last 3 Months", Range: report.RangeLast3Months},
	{Label: "This Year", Range: report.RangeThisYear},
}

// TimeframeSelectedMsg is emitted once a range has been chosen. Start and End
// are set only for a custom range; All means no date filter at all.
type TimeframeSelectedMsg struct {
	Label string
	Range report.Range
	Start *time.Time
	End   *time.Time
	All   bool
}

// Window resolves the selection against the current time in loc.
func (msg TimeframeSelectedMsg) Window(loc *time.Location) (report.Window, error) {
	return report.ResolveRange(msg.Range, msg.Start, msg.End, time.Now().In(loc))
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker chooses the reporting period for the sales and recap screens.
type TimeframePicker struct {
	state    timeframeState
	options  []Timeframe
	selected int
	loc      *time.Location

	from  textinput.Model
	until textinput.Model
	focus int

	err error
}

// NewTimeframePicker lists the named ranges, optionally "All Time", and a
// custom range whose dates are read in loc.
func NewTimeframePicker(loc *time.Location, allowAll bool) TimeframePicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "From:  "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "Until: "

	options := append([]Timeframe{}, namedTimeframes...)
	if allowAll {
		options = append(options, timeframeAll)
	}

	options = append(options, timeframeCustom)

	return TimeframePicker{
		state:    timeframeStateSelect,
		options:  options,
		selected: 1,
		loc:      loc,
		from:     si,
		until:    ei,
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case timeframeStateSelect:
			return m.updateSelect(msg)
		case timeframeStateCustom:
			if next, cmd, handled := m.updateCustom(msg); handled {
				return next, cmd
			}
		}
	}

	if m.state == timeframeStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < len(m.options)-1 {
			m.selected++
		}
	case tea.KeyEnter:
		tf := m.options[m.selected]
		if tf == timeframeCustom {
			m.state = timeframeStateCustom
			m.focus = 0
			m.from.Focus()

			return m, textinput.Blink
		}

		return m, func() tea.Msg {
			return TimeframeSelectedMsg{Label: tf.Label, Range: tf.Range, All: tf.All}
		}
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focus = (m.focus + 1) % 2
		m.from.Blur()
		m.until.Blur()

		if m.focus == 0 {
			m.from.Focus()
		} else {
			m.until.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		start, err := time.ParseInLocation("2006-01-02", m.from.Value(), m.loc)
		if err != nil {
			m.err = errors.New("invalid start date (YYYY-MM-DD)")
			return m, nil, true
		}

		end, err := time.ParseInLocation("2006-01-02", m.until.Value(), m.loc)
		if err != nil {
			m.err = errors.New("invalid end date (YYYY-MM-DD)")
			return m, nil, true
		}

		if end.Before(start) {
			m.err = errors.New("end date is before start date")
			return m, nil, true
		}

		m.err = nil
		label := fmt.Sprintf("%s to %s", FormatDate(start), FormatDate(end))

		return m, func() tea.Msg {
			return TimeframeSelectedMsg{Label: label, Start: &start, End: &end}
		}, true

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	var (
		cmds []tea.Cmd
		c    tea.Cmd
	)

	m.from, c = m.from.Update(msg)
	cmds = append(cmds, c)
	m.until, c = m.until.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m TimeframePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == timeframeStateCustom {
		return fmt.Sprintf(
			"Custom period (inclusive):\n\n%s\n%s\n\nenter apply | tab next field | esc cancel%s",
			m.from.View(),
			m.until.View(),
			errStr,
		)
	}

	s := "Period:\n\n"

	for i, tf := range m.options {
		cursor := " "
		if m.selected == i {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, tf.Label)
	}

	s += "\nenter choose | esc back"

	return s + errStr
}

// IsSelecting reports whether the picker is on the list rather than the
// custom date inputs.
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}

func (m *TimeframePicker) Reset() {
	m.state = timeframeStateSelect
	m.selected = 1
	m.err = nil
	m.from.SetValue("")
	m.until.SetValue("")
}
