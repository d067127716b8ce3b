// Package tui provides the interactive task picker
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apimgr/trigger/src/model"
)

// Dracula colors
var (
	foreground = lipgloss.Color("#f8f8f2")
	selection  = lipgloss.Color("#44475a")
	comment    = lipgloss.Color("#6272a4")
	green      = lipgloss.Color("#50fa7b")
	pink       = lipgloss.Color("#ff79c6")
	purple     = lipgloss.Color("#bd93f9")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(comment).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(foreground)

	cursorStyle = lipgloss.NewStyle().
			Foreground(green).
			Background(selection).
			Bold(true)

	numberStyle = lipgloss.NewStyle().
			Foreground(pink)

	helpStyle = lipgloss.NewStyle().
			Foreground(comment)
)

// Item is one pickable task
type Item struct {
	ID     string
	Status string
}

type picker struct {
	title    string
	items    []Item
	filtered []int
	cursor   int
	chosen   string

	input    textinput.Model
	viewport viewport.Model
}

func newPicker(title string, items []Item) picker {
	ti := textinput.New()
	ti.Placeholder = "Filter tasks..."
	ti.Focus()
	ti.Width = 40

	p := picker{
		title:    title,
		items:    items,
		input:    ti,
		viewport: viewport.New(80, 10),
	}
	p.applyFilter()
	return p
}

func (p picker) Init() tea.Cmd {
	return textinput.Blink
}

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			p.chosen = ""
			return p, tea.Quit
		case "esc":
			if p.input.Value() == "" {
				return p, tea.Quit
			}
			p.input.SetValue("")
			p.applyFilter()
			return p, nil
		case "enter":
			if len(p.filtered) == 0 {
				return p, nil
			}
			p.chosen = p.items[p.filtered[p.cursor]].ID
			return p, tea.Quit
		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
			p.sync()
			return p, nil
		case "down", "ctrl+n":
			if p.cursor < len(p.filtered)-1 {
				p.cursor++
			}
			p.sync()
			return p, nil
		}

	case tea.WindowSizeMsg:
		// title, input box and help take 7 lines
		p.viewport.Width = msg.Width
		p.viewport.Height = max(msg.Height-7, 1)
		p.sync()
		return p, nil
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.applyFilter()
	}
	return p, cmd
}

// applyFilter keeps items whose id contains the filter text, ignoring case
func (p *picker) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(p.input.Value()))

	filtered := make([]int, 0, len(p.items))
	for i, it := range p.items {
		if query == "" || strings.Contains(strings.ToLower(it.ID), query) {
			filtered = append(filtered, i)
		}
	}
	p.filtered = filtered
	p.cursor = 0
	p.sync()
}

// sync refreshes the list and scrolls the cursor into view
func (p *picker) sync() {
	p.viewport.SetContent(p.renderItems())

	switch {
	case p.cursor < p.viewport.YOffset:
		p.viewport.SetYOffset(p.cursor)
	case p.cursor >= p.viewport.YOffset+p.viewport.Height:
		p.viewport.SetYOffset(p.cursor - p.viewport.Height + 1)
	}
}

func (p picker) renderItems() string {
	if len(p.filtered) == 0 {
		return helpStyle.Render("No matching tasks")
	}

	var sb strings.Builder
	for row, idx := range p.filtered {
		it := p.items[idx]

		// numbers stay those of the saved listing
		line := fmt.Sprintf("%s %s", numberStyle.Render(fmt.Sprintf("%d.", idx+1)), it.ID)
		if sym := model.StatusSymbol(it.Status); sym != "" {
			line += " " + sym
		}

		if row == p.cursor {
			sb.WriteString(cursorStyle.Render("> " + line))
		} else {
			sb.WriteString(itemStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (p picker) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(p.title))
	sb.WriteString("\n\n")

	sb.WriteString(inputStyle.Render(p.input.View()))
	sb.WriteString("\n\n")

	sb.WriteString(p.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("↑/↓: move • Enter: run • Esc: clear • Ctrl+C: quit"))

	return sb.String()
}

// Pick shows items and returns the chosen task id, or "" when the user
// quits without choosing
func Pick(in io.Reader, out io.Writer, title string, items []Item) (string, error) {
	p := tea.NewProgram(newPicker(title, items),
		tea.WithAltScreen(),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(picker).chosen, nil
}
