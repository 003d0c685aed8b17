// Package resolver decides where an edited .desktop file is written.
//
// Files under the system application directory are never modified. Saving
// one writes a copy with the same base name into the user application
// directory, which shadows the system entry. Every other file is written in
// place.
package resolver

import (
	"fmt"
	"path/filepath"
	"strings"

	"menuedit/internal/models"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Resolver applies the save policy for one pair of application directories
type Resolver struct {
	systemDir string
	userDir   string
	fs        FS
}

// Option configures a Resolver
type Option func(*Resolver)

// WithFS replaces the filesystem collaborator
func WithFS(fsys FS) Option {
	return func(r *Resolver) {
		r.fs = fsys
	}
}

// New creates a Resolver for the given system and user directories
func New(systemDir, userDir string, opts ...Option) *Resolver {
	r := &Resolver{
		systemDir: filepath.Clean(systemDir),
		userDir:   filepath.Clean(userDir),
		fs:        OSFS{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SystemDir returns the system application directory
func (r *Resolver) SystemDir() string { return r.systemDir }

// UserDir returns the user application directory
func (r *Resolver) UserDir() string { return r.userDir }

// Locate computes the scope of path. A path is in system scope when it is
// inside the system directory by path components, so a sibling such as
// "/usr/share/applications-extra" is not.
func (r *Resolver) Locate(path string) models.Location {
	loc := models.Location{Path: path, Scope: models.ScopeUser}
	if within(r.systemDir, path) {
		loc.Scope = models.ScopeSystem
	}
	return loc
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Load reads path and returns a clean document whose location is computed once
func (r *Resolver) Load(path string) (*models.Document, error) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return models.NewDocument(r.Locate(path), string(data)), nil
}

// Target returns where content for loc would be written
func (r *Resolver) Target(loc models.Location) models.Location {
	if loc.Scope == models.ScopeSystem {
		return models.Location{
			Path:  filepath.Join(r.userDir, filepath.Base(loc.Path)),
			Scope: models.ScopeUser,
		}
	}
	return loc
}

// Save writes content for the file at loc. System-scope files are redirected
// into the user directory, which is created if needed. A failure is reported
// in the outcome and leaves the source file untouched.
func (r *Resolver) Save(loc models.Location, content string) SaveOutcome {
	target := r.Target(loc)
	redirected := loc.Scope == models.ScopeSystem

	if redirected {
		if err := r.fs.MkdirAll(r.userDir, dirPerm); err != nil {
			return failed(&SaveError{Op: OpMkdir, Path: r.userDir, Err: err})
		}
	}

	if err := r.fs.WriteFile(target.Path, []byte(content), filePerm); err != nil {
		return failed(&SaveError{Op: OpWrite, Path: target.Path, Err: err})
	}

	return SaveOutcome{
		FinalPath:  target.Path,
		Succeeded:  true,
		Redirected: redirected,
	}
}

// ResolveSave locates targetPath and saves content for it
func (r *Resolver) ResolveSave(targetPath, content string) SaveOutcome {
	return r.Save(r.Locate(targetPath), content)
}
