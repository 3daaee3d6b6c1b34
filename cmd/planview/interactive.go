package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/jointbuf/plan"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	padStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	segmentStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6")),
	}
)

type interactiveModel struct {
	err   error
	spans []*plan.Span
	total uint64
	input textinput.Model
	width int
}

func newInteractiveModel(spans []*plan.Span) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "size:align"
	ti.Prompt = "add request: "
	ti.Width = 24
	ti.Focus()

	m := &interactiveModel{spans: spans, input: ti, width: 80}
	m.replan()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) replan() {
	m.err = nil
	m.total = 0
	if len(m.spans) == 0 {
		return
	}
	total, err := plan.Layout(m.spans)
	if err != nil {
		m.err = err
		return
	}
	m.total = total
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			added := parsePairs(m.input.Value())
			if len(added) > 0 {
				m.spans = append(m.spans, added...)
				m.replan()
			}
			m.input.SetValue("")
			return m, nil

		case "ctrl+d":
			if n := len(m.spans); n > 0 {
				m.spans = m.spans[:n-1]
				for _, s := range m.spans {
					s.Invalidate()
				}
				m.replan()
			}
			return m, nil

		case "ctrl+r":
			m.spans = nil
			m.total = 0
			m.err = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("jointbuf planview"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case len(m.spans) > 0:
		b.WriteString(renderTable(m.spans, m.total))
		b.WriteString("\n")
		b.WriteString(renderBar(m.spans, m.total, m.width))
		b.WriteString("\n")
		b.WriteString(totalStyle.Render(fmt.Sprintf("%d bytes", m.total)))
		b.WriteString("\n")
	default:
		b.WriteString(helpStyle.Render("no requests yet"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter add • ctrl+d drop last • ctrl+r clear • esc quit"))
	return b.String()
}

// renderBar draws the packed block to scale: one colored run per request,
// dim hatching for alignment padding.
func renderBar(spans []*plan.Span, total uint64, width int) string {
	if total == 0 || width < 10 {
		return ""
	}
	bar := width - 2
	cell := func(off uint64) int {
		return int(off * uint64(bar) / total)
	}

	runes := make([]string, bar)
	for i := range runes {
		runes[i] = padStyle.Render("░")
	}
	for i, s := range spans {
		off, ok := s.Offset()
		if !ok {
			continue
		}
		style := segmentStyles[i%len(segmentStyles)]
		from, to := cell(off), cell(off+s.Size)
		if to == from && s.Size > 0 {
			to = from + 1 // tiny spans still get one cell
		}
		for c := from; c < to && c < bar; c++ {
			runes[c] = style.Render("█")
		}
	}
	return "[" + strings.Join(runes, "") + "]"
}

func runInteractive(spans []*plan.Span) error {
	p := tea.NewProgram(newInteractiveModel(spans), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
