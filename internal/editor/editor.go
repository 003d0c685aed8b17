// Package editor launches a terminal editor on a copy of the edit buffer.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Config holds editor configuration
type Config struct {
	// Editor is an explicit command line, e.g. "nvim" or "micro -readonly false"
	Editor string `json:"editor"`

	// Priority order for auto-detection after $VISUAL and $EDITOR
	Priority []string `json:"editor_priority"`
}

// DefaultConfig returns the default editor configuration
func DefaultConfig() *Config {
	return &Config{
		Priority: []string{"nano", "vim", "vi"},
	}
}

// Editor is a resolved editor command line
type Editor struct {
	Name string   // Command as shown to the user
	Path string   // Executable found on PATH
	Args []string // Arguments placed before the file name
}

// Detect finds an editor: the configured command, then $VISUAL, $EDITOR and
// the priority list.
func Detect(cfg *Config) (*Editor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.Editor != "" {
		e, err := parse(cfg.Editor)
		if err != nil {
			return nil, fmt.Errorf("editor %q: %w", cfg.Editor, err)
		}
		return e, nil
	}

	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			if e, err := parse(v); err == nil {
				return e, nil
			}
		}
	}

	priority := cfg.Priority
	if len(priority) == 0 {
		priority = DefaultConfig().Priority
	}
	for _, name := range priority {
		if e, err := parse(name); err == nil {
			return e, nil
		}
	}

	return nil, fmt.Errorf("no editor found (set $EDITOR or install %s)", strings.Join(priority, ", "))
}

func parse(command string) (*Editor, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, err
	}
	return &Editor{Name: fields[0], Path: path, Args: fields[1:]}, nil
}

// ListInstalled returns the priority editors found on PATH
func ListInstalled(cfg *Config) []string {
	if cfg == nil || len(cfg.Priority) == 0 {
		cfg = DefaultConfig()
	}
	var installed []string
	for _, name := range cfg.Priority {
		if isCommandAvailable(name) {
			installed = append(installed, name)
		}
	}
	return installed
}

// isCommandAvailable checks if a command exists in PATH
func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Command builds the process that edits path
func (e *Editor) Command(path string) *exec.Cmd {
	args := append(append([]string{}, e.Args...), path)
	return exec.Command(e.Path, args...)
}

// Session is a temporary copy of a buffer handed to an external editor.
// The target file is never touched; the edited text is read back with Result.
type Session struct {
	Path string
	dir  string
}

// NewSession writes content to a temp file named after name
func NewSession(name, content string) (*Session, error) {
	dir, err := os.MkdirTemp("", "menuedit-")
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	return &Session{Path: path, dir: dir}, nil
}

// Result reads the edited text back and removes the temp copy
func (s *Session) Result() (string, error) {
	defer s.Close()
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close removes the temp copy
func (s *Session) Close() error {
	return os.RemoveAll(s.dir)
}
