package components

import (
	"fmt"
	"strings"
	"testing"

	"menuedit/internal/models"
	"menuedit/internal/ui"
)

func testDocument() *models.Document {
	loc := models.Location{Path: "/usr/share/applications/vim.desktop", Scope: models.ScopeSystem}
	return models.NewDocument(loc, "[Desktop Entry]\nName=Vim\nCategories=Utility;TextEditor;\n")
}

func TestNewPreview(t *testing.T) {
	p := NewPreview(nil)
	if p == nil {
		t.Fatal("NewPreview should return a Preview")
	}
	if p.Width != 80 || p.Height != 20 {
		t.Errorf("Default size should be 80x20, got %dx%d", p.Width, p.Height)
	}
	if !p.ShowLineNumbers {
		t.Error("Line numbers should be on by default")
	}
	if !strings.Contains(stripANSI(p.View()), "Select an application") {
		t.Error("Empty preview should show a hint")
	}
}

func TestPreview_SetDocument(t *testing.T) {
	p := NewPreview(ui.NewHighlighter("dracula"))
	p.SetSize(80, 30)
	p.SetDocument(testDocument())

	// Trailing newline gives an empty last line
	if p.TotalLines != 4 {
		t.Errorf("TotalLines should be 4, got %d", p.TotalLines)
	}

	view := stripANSI(p.View())
	for _, want := range []string{"Vim", "[sys]", "/usr/share/applications/vim.desktop", "1 │ [Desktop Entry]", "Categories=Utility;TextEditor;"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
	if strings.Contains(view, "[modified]") {
		t.Error("Clean document should not be marked modified")
	}
}

func TestPreview_DirtyAndRefresh(t *testing.T) {
	p := NewPreview(nil)
	p.SetSize(80, 30)
	doc := testDocument()
	p.SetDocument(doc)

	doc.Content += "Terminal=true\n"
	p.Refresh()

	if p.TotalLines != 5 {
		t.Errorf("TotalLines should be 5 after edit, got %d", p.TotalLines)
	}
	view := stripANSI(p.View())
	if !strings.Contains(view, "[modified]") {
		t.Error("Dirty document should be marked modified")
	}
	if !strings.Contains(view, "Terminal=true") {
		t.Error("Refresh should show the edited buffer")
	}
}

func TestPreview_LineNumbersOff(t *testing.T) {
	p := NewPreview(nil)
	p.ShowLineNumbers = false
	p.SetSize(80, 30)
	p.SetDocument(testDocument())

	if strings.Contains(stripANSI(p.View()), "│ [Desktop Entry]") {
		t.Error("Line numbers should be hidden")
	}
}

func TestPreview_UserScope(t *testing.T) {
	p := NewPreview(nil)
	p.SetSize(80, 30)
	p.SetDocument(models.NewDocument(models.Location{Path: "/home/u/.local/share/applications/a.desktop"}, "Name=A\n"))

	if !strings.Contains(stripANSI(p.View()), "[usr]") {
		t.Error("User document should show the user badge")
	}
}

func TestPreview_Scroll(t *testing.T) {
	p := NewPreview(nil)
	p.SetSize(80, 10)

	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "Key%d=value\n", i)
	}
	p.SetDocument(models.NewDocument(models.Location{Path: "/tmp/long.desktop"}, b.String()))

	p.ScrollDown()
	p.PageDown()
	p.GoToBottom()
	if !strings.Contains(stripANSI(p.View()), "100%") {
		t.Error("Expected scroll indicator at 100%")
	}

	p.ScrollUp()
	p.PageUp()
	p.GoToTop()
	if !strings.Contains(stripANSI(p.View()), "0%") {
		t.Error("Expected scroll indicator at 0%")
	}
}

func TestPreview_SetTheme(t *testing.T) {
	p := NewPreview(nil)
	p.SetTheme("nord")
	if p.highlighter.Theme() != "nord" {
		t.Errorf("Expected nord, got %s", p.highlighter.Theme())
	}
}
