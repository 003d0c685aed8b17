package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuedit/internal/models"
)

func writeEntry(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestMainCategory(t *testing.T) {
	m := DefaultCategories()

	tests := []struct {
		categories string
		want       string
	}{
		{"GTK;WebBrowser;", "Internet"},
		{"Network;WebBrowser;", "Internet"},
		{"Utility;TextEditor;", "Utilities"},
		{"System;TerminalEmulator;", "System"},
		{"Game;ArcadeGame;", "Games"},
		{"Office", "Office"},
		// Earlier definitions win regardless of entry order
		{"TextEditor;Development;", "Development"},
		{"GNOME;GTK;", "GNOME"},
		{"", Uncategorized},
		{";", Uncategorized},
		{Uncategorized, Uncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.categories, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MainCategory(tt.categories))
		})
	}
}

func TestIcon(t *testing.T) {
	m := DefaultCategories()

	assert.Equal(t, "🌐", m.Icon("Internet"))
	assert.Equal(t, "📦", m.Icon("GNOME"))
}

func TestLoadCategoryMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	yaml := `categories:
  - name: Coding
    icon: "💻"
    includes: [Development, IDE, TextEditor]
  - name: Web
    includes: [WebBrowser]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	m, err := LoadCategoryMap(path)
	require.NoError(t, err)

	require.Len(t, m.Categories, 2)
	assert.Equal(t, "Coding", m.MainCategory("Utility;TextEditor;"))
	assert.Equal(t, "Web", m.MainCategory("Network;WebBrowser;"))
	assert.Equal(t, "Network", m.MainCategory("Network;Email;"))
	assert.Equal(t, "💻", m.Icon("Coding"))
}

func TestLoadCategoryMap_Defaults(t *testing.T) {
	m, err := LoadCategoryMap("")
	require.NoError(t, err)
	assert.Len(t, m.Categories, 9)

	m, err = LoadCategoryMap(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Len(t, m.Categories, 9)
}

func TestLoadCategoryMap_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("categories: [unterminated"), 0644))
	_, err := LoadCategoryMap(bad)
	assert.Error(t, err)

	unnamed := filepath.Join(dir, "unnamed.yaml")
	require.NoError(t, os.WriteFile(unnamed, []byte("categories:\n  - includes: [Game]\n"), 0644))
	_, err = LoadCategoryMap(unnamed)
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	systemDir := filepath.Join(root, "system")
	userDir := filepath.Join(root, "user")

	writeEntry(t, systemDir, "firefox.desktop", "[Desktop Entry]\nName=Firefox\nCategories=GTK;WebBrowser;\n")
	writeEntry(t, systemDir, "vim.desktop", "[Desktop Entry]\nName=Vim\nCategories=Utility;TextEditor;\n")
	writeEntry(t, systemDir, "hidden.desktop", "[Desktop Entry]\nName=Helper\nNoDisplay=true\n")
	writeEntry(t, systemDir, "noname.desktop", "[Desktop Entry]\nExec=foo\n")
	writeEntry(t, systemDir, "README", "not a desktop file")
	require.NoError(t, os.MkdirAll(filepath.Join(systemDir, "sub.desktop"), 0755))
	writeEntry(t, userDir, "vim.desktop", "[Desktop Entry]\nName=My Vim\nCategories=Development;\n")

	listing, err := Scan(systemDir, userDir)
	require.NoError(t, err)

	assert.Equal(t, systemDir, listing.System.Path)
	assert.Equal(t, userDir, listing.User.Path)
	require.Len(t, listing.System.Apps, 4)
	require.Len(t, listing.User.Apps, 1)

	// Sorted by name
	names := []string{}
	for _, app := range listing.System.Apps {
		names = append(names, app.Name)
	}
	assert.Equal(t, []string{"Firefox", "Helper", "noname.desktop", "Vim"}, names)

	firefox := listing.System.Apps[0]
	assert.Equal(t, "Internet", firefox.MainCategory)
	assert.Equal(t, models.ScopeSystem, firefox.Scope)
	assert.Equal(t, filepath.Join(systemDir, "firefox.desktop"), firefox.Path)
	assert.False(t, firefox.Overridden)

	assert.True(t, listing.System.Apps[1].NoDisplay)

	noname := listing.System.Apps[2]
	assert.Equal(t, Uncategorized, noname.Categories)
	assert.Equal(t, Uncategorized, noname.MainCategory)

	vim := listing.System.Apps[3]
	assert.True(t, vim.Overridden, "system entry shadowed by user copy")

	user := listing.User.Apps[0]
	assert.Equal(t, "My Vim", user.Name)
	assert.Equal(t, models.ScopeUser, user.Scope)
	assert.Equal(t, "Development", user.MainCategory)
}

func TestScan_MissingDirectories(t *testing.T) {
	root := t.TempDir()

	listing, err := Scan(filepath.Join(root, "nope"), filepath.Join(root, "also-nope"))

	require.NoError(t, err)
	assert.Empty(t, listing.System.Apps)
	assert.Empty(t, listing.User.Apps)
	assert.Equal(t, filepath.Join(root, "nope"), listing.System.Path)
}

func TestScan_CustomCategories(t *testing.T) {
	root := t.TempDir()
	writeEntry(t, root, "code.desktop", "Name=Code\nCategories=TextEditor;\n")

	cats := &CategoryMap{Categories: []CategoryDef{{Name: "Editors", Includes: []string{"TextEditor"}}}}
	listing, err := New(root, filepath.Join(root, "user"), cats).Scan()

	require.NoError(t, err)
	require.Len(t, listing.System.Apps, 1)
	assert.Equal(t, "Editors", listing.System.Apps[0].MainCategory)
}

func TestGroup(t *testing.T) {
	apps := []models.Application{
		{Name: "vim", MainCategory: "Utilities"},
		{Name: "Firefox", MainCategory: "Internet"},
		{Name: "calculator", MainCategory: "Utilities"},
		{Name: "Thing"},
	}

	groups := Group(apps)

	require.Len(t, groups, 3)
	assert.Equal(t, "Internet", groups[0].Name)
	assert.Equal(t, Uncategorized, groups[1].Name)
	assert.Equal(t, "Utilities", groups[2].Name)
	require.Len(t, groups[2].Apps, 2)
	assert.Equal(t, "calculator", groups[2].Apps[0].Name)
	assert.Equal(t, "vim", groups[2].Apps[1].Name)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil))
}

func TestFilter(t *testing.T) {
	apps := []models.Application{
		{Name: "Firefox", FileName: "firefox.desktop"},
		{Name: "Files", FileName: "org.gnome.Nautilus.desktop"},
		{Name: "Terminal", FileName: "org.gnome.Terminal.desktop"},
		{Name: "Vim", FileName: "vim.desktop"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Firefox", "Files", "Terminal", "Vim"}},
		{"fi", []string{"Firefox", "Files"}},
		{"FIRE", []string{"Firefox"}},
		{"org.gnome.*", []string{"Files", "Terminal"}},
		{"*.desktop", []string{"Firefox", "Files", "Terminal", "Vim"}},
		{"v?m", []string{"Vim"}},
		{"zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := []string{}
			for _, app := range Filter(apps, tt.query) {
				got = append(got, app.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_InvalidGlobFallsBackToSubstring(t *testing.T) {
	apps := []models.Application{{Name: "App [beta", FileName: "beta.desktop"}}

	got := Filter(apps, "[beta")

	require.Len(t, got, 1)
}

func TestVisible(t *testing.T) {
	apps := []models.Application{{Name: "A"}, {Name: "B", NoDisplay: true}}

	assert.Len(t, Visible(apps, false), 1)
	assert.Len(t, Visible(apps, true), 2)
}
