package components

import (
	"fmt"
	"strings"

	"menuedit/internal/catalog"
	"menuedit/internal/models"
	"menuedit/internal/ui"
)

type rowKind int

const (
	rowSection rowKind = iota
	rowCategory
	rowApp
)

// row is one visible line of the list
type row struct {
	kind     rowKind
	scope    models.Scope
	category string
	count    int
	app      models.Application
}

func (r row) key() string {
	switch r.kind {
	case rowSection:
		return r.scope.String()
	case rowCategory:
		return r.scope.String() + "/" + r.category
	default:
		return r.app.Path
	}
}

// AppList shows the system and user application directories, each grouped
// by main category. Categories start collapsed.
type AppList struct {
	Listing    models.Listing
	Query      string
	ShowHidden bool
	Cursor     int
	Width      int
	Height     int
	Focused    bool
	Title      string

	categories *catalog.CategoryMap
	expanded   map[string]bool
	rows       []row
}

// NewAppList creates an empty list. cats supplies category icons and may be nil.
func NewAppList(cats *catalog.CategoryMap) *AppList {
	if cats == nil {
		cats = catalog.DefaultCategories()
	}
	return &AppList{
		Width:      30,
		Height:     15,
		Focused:    true,
		Title:      "Applications",
		categories: cats,
		expanded:   make(map[string]bool),
	}
}

// SetListing replaces the listing and keeps the cursor on the same row when
// it still exists.
func (l *AppList) SetListing(listing models.Listing) {
	l.Listing = listing
	l.rebuild()
}

// SetCategories replaces the category map used for icons
func (l *AppList) SetCategories(cats *catalog.CategoryMap) {
	if cats != nil {
		l.categories = cats
	}
}

// SetQuery filters applications by name or glob. A non-empty query expands
// every category with matches.
func (l *AppList) SetQuery(query string) {
	l.Query = strings.TrimSpace(query)
	l.rebuild()
}

// ToggleHidden shows or hides NoDisplay entries
func (l *AppList) ToggleHidden() {
	l.ShowHidden = !l.ShowHidden
	l.rebuild()
}

// Toggle expands or collapses the category under the cursor. On an
// application row it collapses the application's category.
func (l *AppList) Toggle() {
	r, ok := l.currentRow()
	if !ok {
		return
	}
	switch r.kind {
	case rowCategory:
		k := r.key()
		l.expanded[k] = !l.expanded[k]
	case rowApp:
		k := r.scope.String() + "/" + r.app.MainCategory
		l.expanded[k] = false
		l.rebuild()
		l.moveTo(row{kind: rowCategory, scope: r.scope, category: r.app.MainCategory}.key())
		return
	default:
		return
	}
	l.rebuild()
}

// Select expands the category holding the file at path and moves the cursor
// onto it. A NoDisplay entry turns on hidden entries and an entry outside the
// current query clears the query. It reports whether the file is listed.
func (l *AppList) Select(path string) bool {
	app, ok := l.Listing.Find(path)
	if !ok {
		return false
	}
	if app.NoDisplay {
		l.ShowHidden = true
	}
	if l.Query != "" && len(catalog.Filter([]models.Application{app}, l.Query)) == 0 {
		l.Query = ""
	}
	l.expanded[app.Scope.String()+"/"+app.MainCategory] = true
	l.rebuild()
	return l.moveTo(app.Path)
}

func (l *AppList) moveTo(key string) bool {
	for i, r := range l.rows {
		if r.key() == key {
			l.Cursor = i
			return true
		}
	}
	return false
}

func (l *AppList) rebuild() {
	var current string
	if r, ok := l.currentRow(); ok {
		current = r.key()
	}

	l.rows = l.rows[:0]
	l.addSection(models.ScopeSystem, l.Listing.System)
	l.addSection(models.ScopeUser, l.Listing.User)

	if current == "" || !l.moveTo(current) {
		l.clamp()
	}
}

func (l *AppList) addSection(scope models.Scope, sec models.Section) {
	apps := catalog.Filter(catalog.Visible(sec.Apps, l.ShowHidden), l.Query)
	l.rows = append(l.rows, row{kind: rowSection, scope: scope, count: len(apps)})

	for _, cat := range catalog.Group(apps) {
		r := row{kind: rowCategory, scope: scope, category: cat.Name, count: len(cat.Apps)}
		l.rows = append(l.rows, r)
		if l.Query == "" && !l.expanded[r.key()] {
			continue
		}
		for _, app := range cat.Apps {
			l.rows = append(l.rows, row{kind: rowApp, scope: scope, category: cat.Name, app: app})
		}
	}
}

func (l *AppList) clamp() {
	if l.Cursor >= len(l.rows) {
		l.Cursor = max(0, len(l.rows)-1)
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
}

func (l *AppList) currentRow() (row, bool) {
	if l.Cursor >= 0 && l.Cursor < len(l.rows) {
		return l.rows[l.Cursor], true
	}
	return row{}, false
}

// Len returns the number of visible rows
func (l *AppList) Len() int {
	return len(l.rows)
}

// MoveUp moves cursor up
func (l *AppList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// MoveDown moves cursor down
func (l *AppList) MoveDown() {
	if l.Cursor < len(l.rows)-1 {
		l.Cursor++
	}
}

func (l *AppList) pageSize() int {
	size := l.Height - 3
	if size < 1 {
		size = 10
	}
	return size
}

// PageUp moves cursor up by a page
func (l *AppList) PageUp() {
	l.Cursor -= l.pageSize()
	l.clamp()
}

// PageDown moves cursor down by a page
func (l *AppList) PageDown() {
	l.Cursor += l.pageSize()
	l.clamp()
}

// GoToFirst moves cursor to the first row
func (l *AppList) GoToFirst() {
	l.Cursor = 0
}

// GoToLast moves cursor to the last row
func (l *AppList) GoToLast() {
	l.Cursor = max(0, len(l.rows)-1)
}

// Current returns the application under the cursor. Section and category
// rows have none.
func (l *AppList) Current() (models.Application, bool) {
	r, ok := l.currentRow()
	if !ok || r.kind != rowApp {
		return models.Application{}, false
	}
	return r.app, true
}

// OnCategory reports whether the cursor is on a category header
func (l *AppList) OnCategory() bool {
	r, ok := l.currentRow()
	return ok && r.kind == rowCategory
}

// View renders the list
func (l *AppList) View() string {
	var b strings.Builder

	title := l.Title
	if n := l.Listing.Count(); n > 0 {
		title = fmt.Sprintf("%s (%d)", l.Title, n)
	}
	if l.Query != "" {
		title += " /" + l.Query
	}
	b.WriteString(ui.PanelTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(0, l.Width-2))))
	b.WriteString("\n")

	if l.Listing.Count() == 0 {
		b.WriteString(ui.ItemStyle.Render("No applications found"))
		return l.wrapInPanel(b.String())
	}

	visibleHeight := l.pageSize()
	startIdx := 0
	if l.Cursor >= visibleHeight {
		startIdx = l.Cursor - visibleHeight + 1
	}
	endIdx := min(startIdx+visibleHeight, len(l.rows))

	if startIdx > 0 {
		b.WriteString(ui.MutedStyle.Render("  ↑ more"))
		b.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(l.renderRow(l.rows[i], i == l.Cursor))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}

	if endIdx < len(l.rows) {
		b.WriteString("\n")
		b.WriteString(ui.MutedStyle.Render("  ↓ more"))
	}

	if len(l.rows) > visibleHeight {
		position := fmt.Sprintf(" %d/%d ", l.Cursor+1, len(l.rows))
		b.WriteString("\n")
		b.WriteString(ui.MutedStyle.Render(strings.Repeat(" ", max(0, (l.Width-len(position)-4)/2)) + position))
	}

	return l.wrapInPanel(b.String())
}

func (l *AppList) renderRow(r row, isCursor bool) string {
	var content string
	switch r.kind {
	case rowSection:
		name := "User Applications"
		if r.scope == models.ScopeSystem {
			name = "System Applications"
		}
		content = ui.SectionStyle.Render(name) + " " + ui.MutedStyle.Render(fmt.Sprintf("(%d)", r.count))
	case rowCategory:
		arrow := "▸"
		if l.Query != "" || l.expanded[r.key()] {
			arrow = "▾"
		}
		content = fmt.Sprintf("%s %s %s %s", arrow, l.categories.Icon(r.category),
			ui.CategoryStyle.Render(r.category), ui.MutedStyle.Render(fmt.Sprintf("(%d)", r.count)))
	default:
		content = "    " + l.appLabel(r.app)
	}

	if isCursor && l.Focused {
		return ui.SelectedItemStyle.Width(max(0, l.Width-4)).Render(content)
	}
	return ui.ItemStyle.Render(content)
}

func (l *AppList) appLabel(app models.Application) string {
	name := app.Name
	maxNameLen := l.Width - 14
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if r := []rune(name); len(r) > maxNameLen {
		name = string(r[:maxNameLen-3]) + "..."
	}

	label := name
	if app.Overridden {
		label = ui.OverriddenStyle.Render("*") + " " + name
	}
	if app.NoDisplay {
		label += " " + ui.MutedStyle.Render("(hidden)")
	}
	return label
}

// wrapInPanel wraps content in a panel border
func (l *AppList) wrapInPanel(content string) string {
	style := ui.PanelStyle
	if l.Focused {
		style = ui.ActivePanelStyle
	}
	return style.Width(l.Width).Height(l.Height).Render(content)
}
