package catalog

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Uncategorized is used when an entry has no Categories value
const Uncategorized = "Uncategorized"

// CategoryDef is one simplified category and the freedesktop categories it
// absorbs.
type CategoryDef struct {
	Name     string   `yaml:"name"`
	Icon     string   `yaml:"icon"`
	Includes []string `yaml:"includes"`
}

// CategoryMap is the ordered list of simplified categories. The first
// matching definition wins.
type CategoryMap struct {
	Categories []CategoryDef `yaml:"categories"`
}

// DefaultCategories returns the built-in category map
func DefaultCategories() *CategoryMap {
	return &CategoryMap{Categories: []CategoryDef{
		{Name: "Office", Icon: "📄", Includes: []string{"Office", "WordProcessor", "Spreadsheet", "Presentation", "Database", "FlowChart"}},
		{Name: "Internet", Icon: "🌐", Includes: []string{"Network", "WebBrowser", "Email", "InstantMessaging", "IRCClient", "FileTransfer", "P2P"}},
		{Name: "Graphics", Icon: "🎨", Includes: []string{"Graphics", "RasterGraphics", "VectorGraphics", "2DGraphics", "Photography", "Scanning", "Viewer"}},
		{Name: "Multimedia", Icon: "🎵", Includes: []string{"AudioVideo", "Audio", "Video", "Player", "Sequencer", "Midi", "Music"}},
		{Name: "Development", Icon: "🛠️", Includes: []string{"Development", "IDE", "GUIDesigner", "Documentation", "Translation", "WebDevelopment"}},
		{Name: "Games", Icon: "🎮", Includes: []string{"Game"}},
		{Name: "Education", Icon: "🎓", Includes: []string{"Education", "Science", "Math", "Astronomy"}},
		{Name: "System", Icon: "⚙️", Includes: []string{"System", "Settings", "Monitor", "TerminalEmulator", "FileManager", "PackageManager", "Security"}},
		{Name: "Utilities", Icon: "🧰", Includes: []string{"Utility", "Accessories", "Archiving", "Compression", "Calculator", "TextEditor", "Core"}},
	}}
}

// LoadCategoryMap reads a category map from YAML. An empty path or a missing
// file yields the defaults.
func LoadCategoryMap(path string) (*CategoryMap, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCategories(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCategories(), nil
		}
		return nil, err
	}

	var m CategoryMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid category map %s: %w", path, err)
	}
	for i, def := range m.Categories {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("category %d in %s has no name", i+1, path)
		}
	}
	if len(m.Categories) == 0 {
		return DefaultCategories(), nil
	}
	return &m, nil
}

// MainCategory maps a raw Categories value ("GTK;WebBrowser;") to its
// simplified category. Without a match the first listed category is used.
func (m *CategoryMap) MainCategory(categories string) string {
	if categories == "" {
		return Uncategorized
	}
	cats := strings.Split(categories, ";")

	for _, def := range m.Categories {
		for _, cat := range cats {
			if cat == def.Name || slices.Contains(def.Includes, cat) {
				return def.Name
			}
		}
	}

	if cats[0] != "" {
		return cats[0]
	}
	return Uncategorized
}

// Icon returns the icon of a simplified category
func (m *CategoryMap) Icon(name string) string {
	for _, def := range m.Categories {
		if def.Name == name && def.Icon != "" {
			return def.Icon
		}
	}
	return "📦"
}
