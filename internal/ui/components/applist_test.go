package components

import (
	"strings"
	"testing"

	"menuedit/internal/models"
)

func testListing() models.Listing {
	return models.Listing{
		System: models.Section{Path: "/sys", Apps: []models.Application{
			{Name: "Firefox", FileName: "firefox.desktop", Path: "/sys/firefox.desktop", MainCategory: "Internet", Scope: models.ScopeSystem},
			{Name: "Helper", FileName: "helper.desktop", Path: "/sys/helper.desktop", MainCategory: "Utilities", Scope: models.ScopeSystem, NoDisplay: true},
			{Name: "Vim", FileName: "vim.desktop", Path: "/sys/vim.desktop", MainCategory: "Utilities", Scope: models.ScopeSystem, Overridden: true},
		}},
		User: models.Section{Path: "/usr", Apps: []models.Application{
			{Name: "My Vim", FileName: "vim.desktop", Path: "/usr/vim.desktop", MainCategory: "Development", Scope: models.ScopeUser},
		}},
	}
}

func newTestList() *AppList {
	l := NewAppList(nil)
	l.Height = 40
	l.Width = 50
	l.SetListing(testListing())
	return l
}

func TestNewAppList(t *testing.T) {
	list := NewAppList(nil)

	if list == nil {
		t.Fatal("NewAppList should return an AppList")
	}
	if list.Cursor != 0 {
		t.Errorf("Expected cursor at 0, got %d", list.Cursor)
	}
	if !list.Focused {
		t.Error("Expected Focused to be true")
	}
	if list.Title == "" {
		t.Error("Expected Title to be set")
	}
	if _, ok := list.Current(); ok {
		t.Error("Empty list should have no current application")
	}
}

func TestAppList_CollapsedByDefault(t *testing.T) {
	list := newTestList()

	// System, Internet, Utilities, User, Development
	if list.Len() != 5 {
		t.Fatalf("Expected 5 rows, got %d", list.Len())
	}
	for i := 0; i < list.Len(); i++ {
		list.Cursor = i
		if _, ok := list.Current(); ok {
			t.Errorf("row %d should not be an application while collapsed", i)
		}
	}
}

func TestAppList_Toggle(t *testing.T) {
	list := newTestList()
	list.Cursor = 1 // Internet

	if !list.OnCategory() {
		t.Fatal("Expected cursor on a category")
	}

	list.Toggle()
	if list.Len() != 6 {
		t.Fatalf("Expected 6 rows after expanding, got %d", list.Len())
	}
	if list.Cursor != 1 {
		t.Errorf("Cursor should stay on the category, got %d", list.Cursor)
	}

	list.MoveDown()
	app, ok := list.Current()
	if !ok || app.Name != "Firefox" {
		t.Fatalf("Expected Firefox, got %+v", app)
	}

	// Toggling on an application collapses its category
	list.Toggle()
	if list.Len() != 5 {
		t.Errorf("Expected 5 rows after collapsing, got %d", list.Len())
	}
	if list.Cursor != 1 || !list.OnCategory() {
		t.Errorf("Cursor should return to the category, got %d", list.Cursor)
	}
}

func TestAppList_Hidden(t *testing.T) {
	list := newTestList()
	list.Cursor = 2 // Utilities
	list.Toggle()

	// Vim only
	if list.Len() != 6 {
		t.Fatalf("Expected 6 rows, got %d", list.Len())
	}

	list.ToggleHidden()
	if list.Len() != 7 {
		t.Fatalf("Expected hidden entry to appear, got %d rows", list.Len())
	}
	if !strings.Contains(stripANSI(list.View()), "(hidden)") {
		t.Error("Hidden entry should be marked")
	}
}

func TestAppList_Select(t *testing.T) {
	list := newTestList()

	if !list.Select("/usr/vim.desktop") {
		t.Fatal("Select should find the user entry")
	}
	app, ok := list.Current()
	if !ok || app.Name != "My Vim" || app.Scope != models.ScopeUser {
		t.Errorf("Expected user Vim, got %+v", app)
	}

	if list.Select("/nowhere/x.desktop") {
		t.Error("Select should fail for an unknown path")
	}
}

func TestAppList_SelectRevealsHiddenEntry(t *testing.T) {
	list := newTestList()

	if !list.Select("/sys/helper.desktop") {
		t.Fatal("Select should find a NoDisplay entry")
	}
	if !list.ShowHidden {
		t.Error("Selecting a NoDisplay entry should show hidden entries")
	}
	app, ok := list.Current()
	if !ok || app.Path != "/sys/helper.desktop" {
		t.Errorf("Cursor should be on Helper, got %+v", app)
	}
}

func TestAppList_SelectClearsExcludingQuery(t *testing.T) {
	list := newTestList()
	list.SetQuery("vim")

	if !list.Select("/sys/firefox.desktop") {
		t.Fatal("Select should find an entry outside the query")
	}
	if list.Query != "" {
		t.Errorf("Expected query cleared, got %q", list.Query)
	}

	list.SetQuery("vim")
	if !list.Select("/usr/vim.desktop") || list.Query != "vim" {
		t.Errorf("A matching entry should keep the query, got %q", list.Query)
	}
}

func TestAppList_SetListingKeepsCursor(t *testing.T) {
	list := newTestList()
	list.Select("/sys/firefox.desktop")

	listing := testListing()
	listing.User.Apps = append(listing.User.Apps, models.Application{
		Name: "Alpha", FileName: "alpha.desktop", Path: "/usr/alpha.desktop", MainCategory: "Accessories", Scope: models.ScopeUser,
	})
	list.SetListing(listing)

	app, ok := list.Current()
	if !ok || app.Path != "/sys/firefox.desktop" {
		t.Errorf("Cursor should stay on Firefox, got %+v", app)
	}
}

func TestAppList_SetListingClampsCursor(t *testing.T) {
	list := newTestList()
	list.GoToLast()

	list.SetListing(models.Listing{})
	if list.Cursor != 1 {
		t.Errorf("Expected cursor clamped to last row, got %d", list.Cursor)
	}
}

func TestAppList_Query(t *testing.T) {
	list := newTestList()

	list.SetQuery("vim")
	// System, Utilities, Vim, User, Development, My Vim
	if list.Len() != 6 {
		t.Fatalf("Expected 6 rows, got %d", list.Len())
	}

	list.SetQuery("*.desktop")
	if list.Len() != 8 {
		t.Errorf("Glob should match every visible entry, got %d rows", list.Len())
	}

	list.SetQuery("")
	if list.Len() != 5 {
		t.Errorf("Clearing the query should collapse again, got %d rows", list.Len())
	}
}

func TestAppList_Navigation(t *testing.T) {
	list := newTestList()

	list.MoveUp()
	if list.Cursor != 0 {
		t.Errorf("Expected cursor to stay at 0, got %d", list.Cursor)
	}

	list.MoveDown()
	list.MoveDown()
	if list.Cursor != 2 {
		t.Errorf("Expected cursor at 2, got %d", list.Cursor)
	}

	list.GoToLast()
	if list.Cursor != 4 {
		t.Errorf("Expected cursor at 4, got %d", list.Cursor)
	}
	list.MoveDown()
	if list.Cursor != 4 {
		t.Errorf("Expected cursor to stay at 4, got %d", list.Cursor)
	}

	list.GoToFirst()
	if list.Cursor != 0 {
		t.Errorf("Expected cursor at 0, got %d", list.Cursor)
	}

	list.Height = 5
	list.PageDown()
	if list.Cursor != 2 {
		t.Errorf("Expected cursor at 2 after page down, got %d", list.Cursor)
	}
	list.PageDown()
	list.PageDown()
	if list.Cursor != 4 {
		t.Errorf("Expected cursor clamped at 4, got %d", list.Cursor)
	}
	list.PageUp()
	list.PageUp()
	list.PageUp()
	if list.Cursor != 0 {
		t.Errorf("Expected cursor at 0, got %d", list.Cursor)
	}
}

func TestAppList_View(t *testing.T) {
	list := newTestList()
	list.Select("/sys/vim.desktop")

	view := stripANSI(list.View())

	for _, want := range []string{"Applications (4)", "System Applications", "User Applications", "Internet", "Utilities", "* Vim", "▾", "▸"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestAppList_ViewEmpty(t *testing.T) {
	list := NewAppList(nil)

	if !strings.Contains(stripANSI(list.View()), "No applications found") {
		t.Error("Empty list should say so")
	}
}
