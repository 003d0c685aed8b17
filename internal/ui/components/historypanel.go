package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"menuedit/internal/history"
	"menuedit/internal/ui"
)

// HistoryPanel lists the recorded saves of one file
type HistoryPanel struct {
	Width  int
	Height int

	File    string
	Entries []history.Entry
	Cursor  int
	Err     error

	headerStyle lipgloss.Style
	hashStyle   lipgloss.Style
}

// NewHistoryPanel creates an empty panel
func NewHistoryPanel() *HistoryPanel {
	return &HistoryPanel{
		Width:  80,
		Height: 20,
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89b4fa")),
		hashStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7")),
	}
}

// SetEntries shows entries for file and resets the cursor
func (h *HistoryPanel) SetEntries(file string, entries []history.Entry, err error) {
	h.File = file
	h.Entries = entries
	h.Err = err
	h.Cursor = 0
}

// MoveUp moves cursor up
func (h *HistoryPanel) MoveUp() {
	if h.Cursor > 0 {
		h.Cursor--
	}
}

// MoveDown moves cursor down
func (h *HistoryPanel) MoveDown() {
	if h.Cursor < len(h.Entries)-1 {
		h.Cursor++
	}
}

// Current returns the entry under the cursor
func (h *HistoryPanel) Current() (history.Entry, bool) {
	if h.Cursor < len(h.Entries) {
		return h.Entries[h.Cursor], true
	}
	return history.Entry{}, false
}

// View renders the panel
func (h *HistoryPanel) View() string {
	var b strings.Builder

	b.WriteString(h.headerStyle.Render("History") + "  " + ui.FilePathStyle.Render(h.File))
	b.WriteString("\n\n")

	switch {
	case h.Err != nil:
		b.WriteString(ui.RenderNotification(ui.NotifyError, h.Err.Error()))
	case len(h.Entries) == 0:
		b.WriteString(ui.MutedStyle.Render("  No saves recorded yet"))
	default:
		visible := max(1, h.Height-6)
		start := 0
		if h.Cursor >= visible {
			start = h.Cursor - visible + 1
		}
		end := min(start+visible, len(h.Entries))

		for i := start; i < end; i++ {
			e := h.Entries[i]
			line := fmt.Sprintf("%s  %s  %s", h.hashStyle.Render(e.Short), ui.MutedStyle.Render(e.Date()), e.Path)
			if i == h.Cursor {
				line = ui.SelectedItemStyle.Render(line)
			} else {
				line = ui.ItemStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n")
	items := []string{
		ui.RenderHelpItem("↑/↓", "navigate"),
		ui.RenderHelpItem("enter", "restore into buffer"),
		ui.RenderHelpItem("esc", "close"),
	}
	b.WriteString(ui.HelpBarStyle.Render(strings.Join(items, "  ")))
	return b.String()
}
