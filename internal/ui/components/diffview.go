package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"menuedit/internal/diff"
	"menuedit/internal/ui"
)

// DiffView displays the unsaved changes of a document as hunks
type DiffView struct {
	Width  int
	Height int

	FilePath   string
	DiffResult *diff.Result

	// Navigation
	ScrollOffset int
	CurrentHunk  int

	highlighter     *ui.Highlighter
	enableHighlight bool

	addStyle     lipgloss.Style
	deleteStyle  lipgloss.Style
	contextStyle lipgloss.Style
	headerStyle  lipgloss.Style
}

// NewDiffView creates a new DiffView
func NewDiffView(h *ui.Highlighter) *DiffView {
	if h == nil {
		h = ui.NewHighlighter(ui.DefaultTheme)
	}
	return &DiffView{
		Width:           80,
		Height:          20,
		highlighter:     h,
		enableHighlight: true,
		addStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6e3a1")),
		deleteStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8")),
		contextStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89b4fa")),
	}
}

// SetDiff sets the diff result to display
func (d *DiffView) SetDiff(result *diff.Result, path string) {
	d.DiffResult = result
	d.FilePath = path
	d.ScrollOffset = 0
	d.CurrentHunk = 0
}

// ScrollUp scrolls the view up
func (d *DiffView) ScrollUp() {
	if d.ScrollOffset > 0 {
		d.ScrollOffset--
	}
}

// ScrollDown scrolls the view down
func (d *DiffView) ScrollDown() {
	if d.ScrollOffset < len(d.lines())-1 {
		d.ScrollOffset++
	}
}

// NextHunk moves to the next hunk and scrolls to it
func (d *DiffView) NextHunk() {
	if d.DiffResult != nil && d.CurrentHunk < len(d.DiffResult.Hunks)-1 {
		d.CurrentHunk++
		d.ScrollOffset = d.hunkOffset(d.CurrentHunk)
	}
}

// PrevHunk moves to the previous hunk and scrolls to it
func (d *DiffView) PrevHunk() {
	if d.CurrentHunk > 0 {
		d.CurrentHunk--
		d.ScrollOffset = d.hunkOffset(d.CurrentHunk)
	}
}

// hunkOffset returns the rendered line index of hunk i
func (d *DiffView) hunkOffset(i int) int {
	offset := 0
	for _, h := range d.DiffResult.Hunks[:i] {
		offset += len(h.Lines) + 2
	}
	return offset
}

// ToggleHighlight toggles syntax highlighting of context lines
func (d *DiffView) ToggleHighlight() {
	d.enableHighlight = !d.enableHighlight
}

// View renders the diff view
func (d *DiffView) View() string {
	if d.DiffResult == nil {
		return "No diff to display"
	}

	var b strings.Builder
	b.WriteString(d.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(d.renderStats())
	b.WriteString("\n\n")
	b.WriteString(d.renderDiff())
	b.WriteString("\n")
	b.WriteString(d.renderFooter())
	return b.String()
}

func (d *DiffView) renderHeader() string {
	title := d.headerStyle.Render("Unsaved changes")
	highlightStatus := ""
	if d.enableHighlight {
		highlightStatus = " [syntax on]"
	}
	return fmt.Sprintf("%s  %s  %s%s", title, ui.FilePathStyle.Render(d.FilePath),
		ui.UserScopeStyle.Render(ui.GetFileType(d.FilePath)), ui.MutedStyle.Render(highlightStatus))
}

func (d *DiffView) renderStats() string {
	if d.DiffResult.Identical {
		return ui.UserScopeStyle.Render("✓ No unsaved changes")
	}

	var parts []string
	if d.DiffResult.LinesAdded > 0 {
		parts = append(parts, d.addStyle.Render(fmt.Sprintf("+%d", d.DiffResult.LinesAdded)))
	}
	if d.DiffResult.LinesRemoved > 0 {
		parts = append(parts, d.deleteStyle.Render(fmt.Sprintf("-%d", d.DiffResult.LinesRemoved)))
	}

	hunks := fmt.Sprintf("%d hunks", len(d.DiffResult.Hunks))
	return strings.Join(parts, " ") + "  " + ui.MutedStyle.Render(hunks)
}

// lines renders every hunk, one entry per output line
func (d *DiffView) lines() []string {
	if d.DiffResult == nil || d.DiffResult.Identical {
		return nil
	}

	var lines []string
	lineWidth := d.Width - 4
	for i, hunk := range d.DiffResult.Hunks {
		header := hunk.Header()
		if i == d.CurrentHunk {
			header = ui.SelectedItemStyle.Render(header)
		} else {
			header = ui.MutedStyle.Render(header)
		}
		lines = append(lines, header)

		for _, l := range hunk.Lines {
			lines = append(lines, d.formatLine(l, lineWidth))
		}
		lines = append(lines, "")
	}
	return lines
}

func (d *DiffView) renderDiff() string {
	lines := d.lines()
	if lines == nil {
		return ui.MutedStyle.Render("No differences found")
	}

	visible := d.Height - 8
	if visible < 1 {
		visible = 10
	}

	start := d.ScrollOffset
	if start >= len(lines) {
		start = 0
	}
	end := min(start+visible, len(lines))
	return strings.Join(lines[start:end], "\n")
}

func (d *DiffView) formatLine(line diff.Line, maxWidth int) string {
	content := line.Content
	if r := []rune(content); maxWidth > 8 && len(r) > maxWidth-2 {
		content = string(r[:maxWidth-5]) + "..."
	}

	if d.enableHighlight && line.Op == diff.Equal && d.highlighter != nil {
		content = d.highlighter.HighlightLine(content, d.FilePath)
	}

	switch line.Op {
	case diff.Insert:
		return d.addStyle.Render("+ " + content)
	case diff.Delete:
		return d.deleteStyle.Render("- " + content)
	default:
		return d.contextStyle.Render("  ") + content
	}
}

func (d *DiffView) renderFooter() string {
	items := []string{
		ui.RenderHelpItem("j/k", "scroll"),
		ui.RenderHelpItem("n/N", "next/prev hunk"),
		ui.RenderHelpItem("h", "highlight"),
		ui.RenderHelpItem("ctrl+s", "save"),
		ui.RenderHelpItem("u", "revert"),
		ui.RenderHelpItem("esc", "close"),
	}
	return ui.HelpBarStyle.Render(strings.Join(items, "  "))
}

// HasChanges returns true if there are differences
func (d *DiffView) HasChanges() bool {
	return d.DiffResult != nil && !d.DiffResult.Identical
}

// HunkCount returns the number of hunks
func (d *DiffView) HunkCount() int {
	if d.DiffResult == nil {
		return 0
	}
	return len(d.DiffResult.Hunks)
}
