package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/qntx/userdb/internal/store"
)

// Modern color palette
var (
	// Status colors
	colorSuccess = lipgloss.Color("#10B981") // emerald
	colorError   = lipgloss.Color("#EF4444") // red
	colorWarning = lipgloss.Color("#F59E0B") // amber
	colorInfo    = lipgloss.Color("#3B82F6") // blue

	// Neutral colors
	colorMuted = lipgloss.Color("#6B7280") // gray-500
)

// Icons
const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "●"
)

type styles struct {
	success, err, warn, info lipgloss.Style
	dim                      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		err:     r.NewStyle().Foreground(colorError).Bold(true),
		warn:    r.NewStyle().Foreground(colorWarning).Bold(true),
		info:    r.NewStyle().Foreground(colorInfo).Bold(true),
		dim:     r.NewStyle().Foreground(colorMuted),
	}
}

// Printer writes status lines and user listings to one writer. A plain
// Printer drops icons and styling, producing the bare text of each message.
type Printer struct {
	w     io.Writer
	plain bool
	st    styles
}

// NewPrinter returns a Printer for w. Colors follow the terminal
// capabilities of w, so output to a pipe or buffer carries no escapes.
func NewPrinter(w io.Writer, plain bool) *Printer {
	return &Printer{w: w, plain: plain, st: newStyles(lipgloss.NewRenderer(w))}
}

// Plain reports whether styling is disabled.
func (p *Printer) Plain() bool { return p.plain }

func (p *Printer) status(style lipgloss.Style, icon, msg string, args []any) {
	text := fmt.Sprintf(msg, args...)
	if p.plain {
		fmt.Fprintln(p.w, text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", style.Render(icon), text)
}

// Success prints a success message.
func (p *Printer) Success(msg string, args ...any) { p.status(p.st.success, iconSuccess, msg, args) }

// Error prints an error message.
func (p *Printer) Error(msg string, args ...any) { p.status(p.st.err, iconError, msg, args) }

// Warn prints a warning message.
func (p *Printer) Warn(msg string, args ...any) { p.status(p.st.warn, iconWarning, msg, args) }

// Info prints an info message.
func (p *Printer) Info(msg string, args ...any) { p.status(p.st.info, iconInfo, msg, args) }

// Users prints one line per user in plain mode and a table otherwise.
func (p *Printer) Users(users []store.User) {
	if p.plain {
		for _, u := range users {
			fmt.Fprintf(p.w, "ID: %d, Name: %s, Age: %d, Address: %s\n", u.ID, u.Name, u.Age, u.Address)
		}
		return
	}

	if len(users) == 0 {
		fmt.Fprintf(p.w, "  %s\n", p.st.dim.Render("no users"))
		return
	}
	tbl := NewTable("ID", "NAME", "AGE", "ADDRESS")
	for _, u := range users {
		tbl.AddRow(strconv.FormatInt(u.ID, 10), u.Name, strconv.FormatInt(u.Age, 10), u.Address)
	}
	tbl.Render(p.w, p.st.dim)
	fmt.Fprintf(p.w, "  %s\n", p.st.dim.Render(fmt.Sprintf("%d user(s)", len(users))))
}

// Table renders a simple table.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with headers.
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	return &Table{headers: headers, widths: widths}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	for i, c := range cols {
		if i < len(t.widths) && lipgloss.Width(c) > t.widths[i] {
			t.widths[i] = lipgloss.Width(c)
		}
	}
	t.rows = append(t.rows, cols)
}

// Render writes the table to w, drawing the header and rule in dim.
func (t *Table) Render(w io.Writer, dim lipgloss.Style) {
	fmt.Fprintf(w, "  %s\n", dim.Render(t.line(t.headers)))

	rule := make([]string, len(t.widths))
	for i, width := range t.widths {
		rule[i] = strings.Repeat("─", width)
	}
	fmt.Fprintf(w, "  %s\n", dim.Render(strings.Join(rule, "  ")))

	for _, row := range t.rows {
		fmt.Fprintf(w, "  %s\n", t.line(row))
	}
}

func (t *Table) line(cols []string) string {
	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(col)
		if i < len(t.widths) && i < len(cols)-1 {
			b.WriteString(strings.Repeat(" ", t.widths[i]-lipgloss.Width(col)))
		}
	}
	return b.String()
}

// FormatDuration formats duration as human readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
