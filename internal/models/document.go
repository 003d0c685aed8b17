package models

import (
	"fmt"
	"path/filepath"

	"menuedit/internal/desktop"
)

// Scope records which application directory a file belongs to
type Scope int

const (
	ScopeUser   Scope = iota // Writable per-user directory or anywhere else
	ScopeSystem              // Under the system application directory
)

// String returns a lowercase name for display
func (s Scope) String() string {
	if s == ScopeSystem {
		return "system"
	}
	return "user"
}

// Location is a file path together with the scope computed when it was loaded
type Location struct {
	Path  string
	Scope Scope
}

// Base returns the file name of the location
func (l Location) Base() string {
	return filepath.Base(l.Path)
}

// Document is a loaded .desktop file and its edit buffer
type Document struct {
	Location Location
	Original string // Content as last loaded or saved
	Content  string // Current buffer
}

// NewDocument creates a clean document
func NewDocument(loc Location, content string) *Document {
	return &Document{
		Location: loc,
		Original: content,
		Content:  content,
	}
}

// Dirty reports whether the buffer differs from the last loaded or saved text
func (d *Document) Dirty() bool {
	return d.Content != d.Original
}

// Lines returns the buffer tokenized line by line
func (d *Document) Lines() [][]desktop.Token {
	return desktop.Tokenize(d.Content)
}

// Name returns the Name= value, falling back to the file name
func (d *Document) Name() string {
	if name, ok := desktop.Value(d.Content, "Name"); ok && name != "" {
		return name
	}
	return d.Location.Base()
}

// MarkSaved moves the document to where it was written and makes saved,
// the text that was written, the new baseline. Edits made after that text
// was captured stay dirty.
func (d *Document) MarkSaved(final Location, saved string) {
	d.Location = final
	d.Original = saved
}

// Revert discards unsaved edits
func (d *Document) Revert() {
	d.Content = d.Original
}

// SizeHuman returns the buffer size in human-readable form
func (d *Document) SizeHuman() string {
	return FormatSize(int64(len(d.Content)))
}

// FormatSize formats a byte count
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %s", float64(size)/float64(div), []string{"KB", "MB", "GB", "TB"}[exp])
}
