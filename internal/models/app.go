package models

import (
	"path/filepath"
	"strings"
)

// Application is one row of the launcher listing
type Application struct {
	Name         string // Name= value, or the file name
	FileName     string // Base name, e.g. firefox.desktop
	Path         string // Full path on disk
	Categories   string // Raw Categories= value
	MainCategory string // Simplified category used for grouping
	Scope        Scope
	Overridden   bool // System entry shadowed by a user copy
	NoDisplay    bool
}

// ID returns the desktop file ID (file name without extension)
func (a Application) ID() string {
	return strings.TrimSuffix(a.FileName, filepath.Ext(a.FileName))
}

// Category groups applications under one simplified category
type Category struct {
	Name string
	Apps []Application
}

// Section is the listing of one application directory
type Section struct {
	Path string
	Apps []Application
}

// Listing holds both application directories
type Listing struct {
	System Section
	User   Section
}

// Count returns the number of applications in both sections
func (l Listing) Count() int {
	return len(l.System.Apps) + len(l.User.Apps)
}

// Find returns the application whose file is at path
func (l Listing) Find(path string) (Application, bool) {
	clean := filepath.Clean(path)
	for _, sec := range []Section{l.User, l.System} {
		for _, app := range sec.Apps {
			if filepath.Clean(app.Path) == clean {
				return app, true
			}
		}
	}
	return Application{}, false
}
