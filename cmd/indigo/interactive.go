package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/indigo/internal/report"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// profileModel is the Bubble Tea model for browsing a profile report.
type profileModel struct {
	rpt      *report.Report
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newProfileModel(rpt *report.Report) profileModel {
	return profileModel{
		rpt:     rpt,
		help:    help.New(),
		keys:    defaultKeyMap,
		content: renderProfileContent(rpt),
	}
}

func renderProfileContent(rpt *report.Report) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf(
		"Indigo Profile: %d document(s), %d key path(s)",
		rpt.Meta.Total, len(rpt.Counts))))
	sb.WriteString("\n\n")
	sb.WriteString(statusStyle.Render("    sha1 " + rpt.Meta.SHA1))
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render("    generated " + rpt.Meta.Date))
	sb.WriteString("\n\n")

	if len(rpt.Counts) == 0 {
		sb.WriteString(statusStyle.Render("    No key paths discovered."))
		sb.WriteString("\n")
		return sb.String()
	}

	paths := make([]string, 0, len(rpt.Counts))
	for p := range rpt.Counts {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		if rpt.Counts[paths[i]] != rpt.Counts[paths[j]] {
			return rpt.Counts[paths[i]] > rpt.Counts[paths[j]]
		}
		return paths[i] < paths[j]
	})

	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		examples := ""
		for i, ex := range rpt.Examples[p] {
			if i == 3 {
				examples += ", ..."
				break
			}
			if i > 0 {
				examples += ", "
			}
			examples += ex.Display()
		}
		if len(examples) > 40 {
			examples = examples[:37] + "..."
		}
		rows = append(rows, []string{
			p,
			strconv.FormatUint(rpt.Counts[p], 10),
			strconv.Itoa(len(rpt.Unique[p])),
			examples,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tuiBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tuiHeaderStyle
			}
			if col == 1 {
				return countStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("PATH", "COUNT", "UNIQ", "EXAMPLES").
		Rows(rows...)

	sb.WriteString(t.String())
	sb.WriteString("\n")

	return sb.String()
}

func (m profileModel) Init() tea.Cmd {
	return nil
}

func (m profileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 0
		footerHeight := 2
		verticalMargin := headerHeight + footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - verticalMargin
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m profileModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveProfile launches the Bubble Tea TUI for browsing a
// profile report.
func runInteractiveProfile(rpt *report.Report) error {
	model := newProfileModel(rpt)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
