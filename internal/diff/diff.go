// Package diff computes line diffs between the saved and edited text of a
// document.
package diff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ContextLines is the number of unchanged lines kept around each change
const ContextLines = 3

// Op is the type of a diff line
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

// Line is a single line of the diff
type Line struct {
	Op      Op
	Content string
	OldNum  int // Line number in the old text, 0 for inserts
	NewNum  int // Line number in the new text, 0 for deletes
}

// Hunk is a group of changes with surrounding context
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Header returns the "@@ -a,b +c,d @@" line of the hunk
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// Result is the diff between two texts
type Result struct {
	Identical    bool
	Hunks        []Hunk
	LinesAdded   int
	LinesRemoved int
}

// Compute diffs oldText against newText line by line
func Compute(oldText, newText string) *Result {
	if oldText == newText {
		return &Result{Identical: true}
	}

	dmp := diffmatchpatch.New()

	// Line mode: each line becomes one rune, so cleanup keeps line boundaries
	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	lines := flatten(diffs)

	result := &Result{}
	for _, l := range lines {
		switch l.Op {
		case Insert:
			result.LinesAdded++
		case Delete:
			result.LinesRemoved++
		}
	}
	result.Identical = result.LinesAdded == 0 && result.LinesRemoved == 0
	if !result.Identical {
		result.Hunks = buildHunks(lines, ContextLines)
	}
	return result
}

// flatten numbers every line of the go-diff output
func flatten(diffs []diffmatchpatch.Diff) []Line {
	var lines []Line
	oldNum, newNum := 0, 0

	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		for _, content := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			l := Line{Content: content}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldNum++
				newNum++
				l.Op, l.OldNum, l.NewNum = Equal, oldNum, newNum
			case diffmatchpatch.DiffDelete:
				oldNum++
				l.Op, l.OldNum = Delete, oldNum
			case diffmatchpatch.DiffInsert:
				newNum++
				l.Op, l.NewNum = Insert, newNum
			}
			lines = append(lines, l)
		}
	}
	return lines
}

// buildHunks groups changes whose gap is at most 2*context equal lines
func buildHunks(lines []Line, context int) []Hunk {
	var hunks []Hunk
	n := len(lines)
	i := 0

	for i < n {
		for i < n && lines[i].Op == Equal {
			i++
		}
		if i >= n {
			break
		}

		start := max(0, i-context)
		end := i
		for {
			for end < n && lines[end].Op != Equal {
				end++
			}
			next := end
			for next < n && lines[next].Op == Equal {
				next++
			}
			if next < n && next-end <= 2*context {
				end = next
				continue
			}
			end = min(n, end+context)
			break
		}

		hunks = append(hunks, newHunk(lines, start, end))
		i = end
	}
	return hunks
}

func newHunk(lines []Line, start, end int) Hunk {
	// Lines consumed from each side before the hunk
	oldBefore, newBefore := 0, 0
	for _, l := range lines[:start] {
		if l.Op != Insert {
			oldBefore++
		}
		if l.Op != Delete {
			newBefore++
		}
	}

	h := Hunk{Lines: lines[start:end]}
	for _, l := range h.Lines {
		if l.Op != Insert {
			h.OldCount++
		}
		if l.Op != Delete {
			h.NewCount++
		}
	}

	h.OldStart = oldBefore
	if h.OldCount > 0 {
		h.OldStart++
	}
	h.NewStart = newBefore
	if h.NewCount > 0 {
		h.NewStart++
	}
	return h
}

// HasChanges returns true if there are any changes
func (r *Result) HasChanges() bool {
	return !r.Identical
}

// Summary returns a brief summary of changes
func (r *Result) Summary() string {
	if r.Identical {
		return "No changes"
	}

	var parts []string
	if r.LinesAdded > 0 {
		parts = append(parts, "+"+strconv.Itoa(r.LinesAdded))
	}
	if r.LinesRemoved > 0 {
		parts = append(parts, "-"+strconv.Itoa(r.LinesRemoved))
	}
	return strings.Join(parts, " ")
}

// Unified formats the result as a unified diff
func (r *Result) Unified(oldName, newName string) string {
	if r.Identical {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("--- " + oldName + "\n")
	sb.WriteString("+++ " + newName + "\n")

	for _, hunk := range r.Hunks {
		sb.WriteString(hunk.Header() + "\n")
		for _, line := range hunk.Lines {
			switch line.Op {
			case Equal:
				sb.WriteString(" " + line.Content + "\n")
			case Insert:
				sb.WriteString("+" + line.Content + "\n")
			case Delete:
				sb.WriteString("-" + line.Content + "\n")
			}
		}
	}
	return sb.String()
}
