package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/apimgr/trigger/src/api"
	"github.com/apimgr/trigger/src/model"
)

// Dracula palette
var (
	comment = lipgloss.Color("#6272a4")
	cyan    = lipgloss.Color("#8be9fd")
	green   = lipgloss.Color("#50fa7b")
	purple  = lipgloss.Color("#bd93f9")
	red     = lipgloss.Color("#ff5555")
	yellow  = lipgloss.Color("#f1fa8c")
)

// renderer writes listings and results either as numbered plain lines or
// as JSON
type renderer struct {
	out    io.Writer
	format string
	color  bool

	headingStyle lipgloss.Style
	okStyle      lipgloss.Style
	failStyle    lipgloss.Style
	pendingStyle lipgloss.Style
	faintStyle   lipgloss.Style
	linkStyle    lipgloss.Style
}

func newRenderer(out io.Writer, format string, color bool) *renderer {
	lr := lipgloss.NewRenderer(out)
	if !color {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &renderer{
		out:          out,
		format:       format,
		color:        color,
		headingStyle: lr.NewStyle().Foreground(purple).Bold(true),
		okStyle:      lr.NewStyle().Foreground(green),
		failStyle:    lr.NewStyle().Foreground(red),
		pendingStyle: lr.NewStyle().Foreground(yellow),
		faintStyle:   lr.NewStyle().Foreground(comment),
		linkStyle:    lr.NewStyle().Foreground(cyan).Underline(true),
	}
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if !r.color || text == "" {
		return text
	}
	return s.Render(text)
}

func (r *renderer) symbol(status string) string {
	sym := model.StatusSymbol(status)
	switch sym {
	case model.SymbolCompleted:
		return r.style(r.okStyle, sym)
	case model.SymbolFailed:
		return r.style(r.failStyle, sym)
	default:
		return r.style(r.pendingStyle, sym)
	}
}

func (r *renderer) json(v interface{}) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *renderer) heading(text string) {
	fmt.Fprintln(r.out, r.style(r.headingStyle, text))
}

func (r *renderer) none() {
	fmt.Fprintln(r.out, "  (none found)")
}

func (r *renderer) tasks(heading string, tasks []model.Task) error {
	if r.format == "json" {
		return r.json(tasks)
	}

	r.heading(heading)
	if len(tasks) == 0 {
		r.none()
		return nil
	}
	for i, t := range tasks {
		line := fmt.Sprintf("  %d. %s", i+1, t.ID)
		if sym := r.symbol(t.Status); sym != "" {
			line += " " + sym
		}
		fmt.Fprintln(r.out, line)
	}
	return nil
}

func (r *renderer) runs(heading string, runs []api.Run) error {
	if r.format == "json" {
		return r.json(runs)
	}

	r.heading(heading)
	if len(runs) == 0 {
		r.none()
		return nil
	}
	for i, run := range runs {
		fmt.Fprintf(r.out, "  %d. %s %s %s\n", i+1, run.TaskIdentifier, r.symbol(run.Status),
			r.style(r.faintStyle, "("+run.ShortID()+")"))
	}
	return nil
}

func (r *renderer) schedules(schedules []api.Schedule) error {
	if r.format == "json" {
		return r.json(schedules)
	}

	r.heading("Scheduled tasks:")
	if len(schedules) == 0 {
		r.none()
		return nil
	}
	for i, s := range schedules {
		active := "🔴"
		if s.Active {
			active = "🟢"
		}
		fmt.Fprintf(r.out, "  %d. %s %s [%s] next: %s\n", i+1, s.Task, active, s.Generator.Expression, s.NextRunDisplay())
	}
	return nil
}

func (r *renderer) success(msg string) {
	fmt.Fprintf(r.out, "✔️ %s\n", msg)
}

func (r *renderer) link(url string) {
	fmt.Fprintf(r.out, "   %s\n", r.style(r.linkStyle, url))
}
