// Package history keeps every saved override in a local git repository so
// earlier versions can be inspected and restored.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

var author = object.Signature{Name: "menuedit", Email: "menuedit@localhost"}

// Repo is the history repository
type Repo struct {
	Path string
	repo *git.Repository
}

// Entry is one recorded save
type Entry struct {
	Hash    string // Full commit hash
	Short   string
	File    string // Base name of the saved file
	Path    string // Where the file was saved
	Message string
	When    time.Time
}

// Date formats the commit time for display
func (e Entry) Date() string {
	return e.When.Format("2006-01-02 15:04")
}

// Open opens the repository at dir, initialising it on first use
func Open(dir string) (*Repo, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history repository: %w", err)
	}
	return &Repo{Path: dir, repo: repo}, nil
}

// Record commits content as the latest version of the file saved at path.
// It returns the commit hash, or "" when the content is unchanged.
func (r *Repo) Record(path, content string) (string, error) {
	name := filepath.Base(path)
	if err := os.WriteFile(filepath.Join(r.Path, name), []byte(content), 0644); err != nil {
		return "", err
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", err
	}
	if _, err := worktree.Add(name); err != nil {
		return "", err
	}

	status, err := worktree.Status()
	if err != nil {
		return "", err
	}
	if status.IsClean() {
		return "", nil
	}

	sig := author
	sig.When = time.Now()
	hash, err := worktree.Commit(fmt.Sprintf("save %s\n\n%s\n", name, path), &git.CommitOptions{
		Author: &sig,
	})
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// Log returns up to count recent entries, newest first. An empty name lists
// every file.
func (r *Repo) Log(name string, count int) ([]Entry, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	opts := &git.LogOptions{From: head.Hash()}
	if name != "" {
		opts.FileName = &name
	}
	commitIter, err := r.repo.Log(opts)
	if err != nil {
		return nil, err
	}
	defer commitIter.Close()

	var entries []Entry
	err = commitIter.ForEach(func(c *object.Commit) error {
		if len(entries) >= count {
			return storer.ErrStop
		}
		entries = append(entries, newEntry(c))
		return nil
	})
	return entries, err
}

func newEntry(c *object.Commit) Entry {
	subject, body, _ := strings.Cut(c.Message, "\n")
	return Entry{
		Hash:    c.Hash.String(),
		Short:   c.Hash.String()[:7],
		File:    strings.TrimPrefix(subject, "save "),
		Path:    strings.TrimSpace(body),
		Message: subject,
		When:    c.Author.When,
	}
}

// Content returns the file as it was recorded in commit hash
func (r *Repo) Content(hash, name string) (string, error) {
	commit, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return "", err
	}
	file, err := commit.File(name)
	if err != nil {
		return "", fmt.Errorf("%s not in %s: %w", name, hash[:min(7, len(hash))], err)
	}
	return file.Contents()
}
