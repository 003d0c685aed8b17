package resolver

import (
	"fmt"

	"menuedit/internal/models"
)

// Op names the filesystem step that failed
type Op string

const (
	OpMkdir Op = "mkdir"
	OpWrite Op = "write"
)

// SaveError is a filesystem failure during a save
type SaveError struct {
	Op   Op
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// SaveOutcome is the result of a save
type SaveOutcome struct {
	FinalPath  string // Empty unless Succeeded
	Succeeded  bool
	Redirected bool // Written to the user directory instead of the source path
	Err        error
}

func failed(err error) SaveOutcome {
	return SaveOutcome{Err: fmt.Errorf("save failed: %w", err)}
}

// ErrorMessage returns the failure text, or "" on success
func (o SaveOutcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Location returns the saved file's location. Written files are always in
// user scope.
func (o SaveOutcome) Location() models.Location {
	return models.Location{Path: o.FinalPath, Scope: models.ScopeUser}
}

// Notice returns the message shown after a redirected save
func (o SaveOutcome) Notice() string {
	if !o.Succeeded || !o.Redirected {
		return ""
	}
	return "System file saved to user directory:\n" + o.FinalPath
}
