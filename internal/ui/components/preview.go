package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"menuedit/internal/desktop"
	"menuedit/internal/models"
	"menuedit/internal/ui"
)

// Preview displays the open document with token highlighting
type Preview struct {
	viewport    viewport.Model
	highlighter *ui.Highlighter

	Doc             *models.Document
	TotalLines      int
	ShowLineNumbers bool

	Width   int
	Height  int
	Focused bool

	lineNumStyle lipgloss.Style
	headerStyle  lipgloss.Style
	infoStyle    lipgloss.Style
}

// NewPreview creates a preview using the given highlighter
func NewPreview(h *ui.Highlighter) *Preview {
	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	if h == nil {
		h = ui.NewHighlighter(ui.DefaultTheme)
	}

	return &Preview{
		viewport:        vp,
		highlighter:     h,
		ShowLineNumbers: true,
		Width:           80,
		Height:          20,
		lineNumStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")).
			Width(4).
			Align(lipgloss.Right),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89b4fa")),
		infoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")),
	}
}

// SetSize updates the viewport dimensions
func (p *Preview) SetSize(width, height int) {
	p.Width = width
	p.Height = height

	// Header (3 lines) and border (2 lines)
	p.viewport.Height = max(5, height-5)
	p.viewport.Width = max(20, width-4)
	p.render()
}

// SetDocument shows doc from the top. A nil document clears the preview.
func (p *Preview) SetDocument(doc *models.Document) {
	p.Doc = doc
	p.render()
	p.viewport.GotoTop()
}

// Refresh re-renders the current buffer, keeping the scroll position
func (p *Preview) Refresh() {
	p.render()
}

func (p *Preview) render() {
	if p.Doc == nil {
		p.TotalLines = 0
		p.viewport.SetContent(p.infoStyle.Render("\n  Select an application to preview its entry."))
		return
	}

	var lines []string
	if ui.IsDesktopFile(p.Doc.Location.Path) {
		for _, tokens := range p.Doc.Lines() {
			lines = append(lines, p.highlighter.HighlightTokens(tokens))
		}
	} else {
		lines = p.highlighter.HighlightLines(desktop.SplitLines(p.Doc.Content), p.Doc.Location.Path)
	}

	var b strings.Builder
	for i, line := range lines {
		if p.ShowLineNumbers {
			b.WriteString(p.lineNumStyle.Render(fmt.Sprintf("%d", i+1)) + " │ ")
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	p.TotalLines = len(lines)
	p.viewport.SetContent(b.String())
}

// SetTheme switches the highlight colours
func (p *Preview) SetTheme(theme string) {
	p.highlighter.SetTheme(theme)
	p.render()
}

// Update handles messages for viewport scrolling
func (p *Preview) Update(msg tea.Msg) (*Preview, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the preview
func (p *Preview) View() string {
	var b strings.Builder

	if p.Doc == nil {
		b.WriteString(p.headerStyle.Render("Preview") + "\n\n")
	} else {
		header := p.headerStyle.Render(p.Doc.Name())
		if p.Doc.Dirty() {
			header += " " + ui.DirtyStyle.Render("[modified]")
		}
		info := fmt.Sprintf("  %s  %s  %d lines", ui.RenderScope(p.Doc.Location.Scope == models.ScopeSystem),
			p.Doc.SizeHuman(), p.TotalLines)
		b.WriteString(header + p.infoStyle.Render(info) + "\n")
		b.WriteString(ui.FilePathStyle.Render(p.Doc.Location.Path) + "\n")
	}

	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(0, p.Width-4))) + "\n")
	b.WriteString(p.viewport.View())

	if p.TotalLines > p.viewport.Height {
		b.WriteString("\n" + p.infoStyle.Render(fmt.Sprintf("─── %.0f%% ───", p.viewport.ScrollPercent()*100)))
	}

	style := ui.PanelStyle
	if p.Focused {
		style = ui.ActivePanelStyle
	}
	return style.Width(p.Width).Height(p.Height).Render(b.String())
}

// ScrollUp scrolls up one line
func (p *Preview) ScrollUp() {
	p.viewport.LineUp(1)
}

// ScrollDown scrolls down one line
func (p *Preview) ScrollDown() {
	p.viewport.LineDown(1)
}

// PageUp scrolls up by a page
func (p *Preview) PageUp() {
	p.viewport.ViewUp()
}

// PageDown scrolls down by a page
func (p *Preview) PageDown() {
	p.viewport.ViewDown()
}

// GoToTop goes to the beginning
func (p *Preview) GoToTop() {
	p.viewport.GotoTop()
}

// GoToBottom goes to the end
func (p *Preview) GoToBottom() {
	p.viewport.GotoBottom()
}
