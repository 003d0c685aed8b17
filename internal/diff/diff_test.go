package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("Key%d=value", i+1)
	}
	return lines
}

func TestCompute_Identical(t *testing.T) {
	text := "[Desktop Entry]\nName=Vim\n"

	result := Compute(text, text)

	assert.True(t, result.Identical)
	assert.False(t, result.HasChanges())
	assert.Empty(t, result.Hunks)
	assert.Equal(t, "No changes", result.Summary())
	assert.Empty(t, result.Unified("a", "b"))
}

func TestCompute_SingleChange(t *testing.T) {
	oldText := "[Desktop Entry]\nName=Vim\nTerminal=false\n"
	newText := "[Desktop Entry]\nName=Vim\nTerminal=true\n"

	result := Compute(oldText, newText)

	require.False(t, result.Identical)
	assert.Equal(t, 1, result.LinesAdded)
	assert.Equal(t, 1, result.LinesRemoved)
	assert.Equal(t, "+1 -1", result.Summary())
	require.Len(t, result.Hunks, 1)

	hunk := result.Hunks[0]
	assert.Equal(t, 1, hunk.OldStart)
	assert.Equal(t, 3, hunk.OldCount)
	assert.Equal(t, 1, hunk.NewStart)
	assert.Equal(t, 3, hunk.NewCount)

	var ops []Op
	for _, l := range hunk.Lines {
		ops = append(ops, l.Op)
	}
	assert.Equal(t, []Op{Equal, Equal, Delete, Insert}, ops)
	assert.Equal(t, "Terminal=false", hunk.Lines[2].Content)
	assert.Equal(t, 3, hunk.Lines[2].OldNum)
	assert.Equal(t, 3, hunk.Lines[3].NewNum)
}

func TestCompute_ContextIsLimited(t *testing.T) {
	lines := numbered(20)
	oldText := strings.Join(lines, "\n") + "\n"
	lines[9] = "Key10=changed"
	newText := strings.Join(lines, "\n") + "\n"

	result := Compute(oldText, newText)

	require.Len(t, result.Hunks, 1)
	hunk := result.Hunks[0]
	assert.Equal(t, 7, hunk.OldStart)
	assert.Equal(t, 7, hunk.OldCount)
	assert.Equal(t, "Key7=value", hunk.Lines[0].Content)
	assert.Equal(t, "Key13=value", hunk.Lines[len(hunk.Lines)-1].Content)
	assert.Equal(t, "@@ -7,7 +7,7 @@", hunk.Header())
}

func TestCompute_DistantChangesSplitHunks(t *testing.T) {
	lines := numbered(30)
	oldText := strings.Join(lines, "\n") + "\n"
	lines[2] = "Key3=changed"
	lines[25] = "Key26=changed"
	newText := strings.Join(lines, "\n") + "\n"

	result := Compute(oldText, newText)

	require.Len(t, result.Hunks, 2)
	assert.Equal(t, 1, result.Hunks[0].OldStart)
	assert.Equal(t, 23, result.Hunks[1].OldStart)
}

func TestCompute_NearbyChangesMerge(t *testing.T) {
	lines := numbered(20)
	oldText := strings.Join(lines, "\n") + "\n"
	lines[5] = "Key6=changed"
	lines[10] = "Key11=changed"
	newText := strings.Join(lines, "\n") + "\n"

	result := Compute(oldText, newText)

	require.Len(t, result.Hunks, 1)
	assert.Equal(t, 2, result.LinesAdded)
	assert.Equal(t, 2, result.LinesRemoved)
}

func TestCompute_PureInsertion(t *testing.T) {
	oldText := "[Desktop Entry]\nName=Vim\n"
	newText := "[Desktop Entry]\nName=Vim\nNoDisplay=true\n"

	result := Compute(oldText, newText)

	assert.Equal(t, 1, result.LinesAdded)
	assert.Equal(t, 0, result.LinesRemoved)
	assert.Equal(t, "+1", result.Summary())
	require.Len(t, result.Hunks, 1)
	assert.Equal(t, 3, result.Hunks[0].NewCount)
	assert.Equal(t, 2, result.Hunks[0].OldCount)
}

func TestCompute_FromEmpty(t *testing.T) {
	result := Compute("", "Name=A\nExec=a\n")

	assert.Equal(t, 2, result.LinesAdded)
	require.Len(t, result.Hunks, 1)
	assert.Equal(t, 0, result.Hunks[0].OldStart)
	assert.Equal(t, 0, result.Hunks[0].OldCount)
	assert.Equal(t, 1, result.Hunks[0].NewStart)
}

func TestUnified(t *testing.T) {
	result := Compute("Name=A\nExec=a\n", "Name=B\nExec=a\n")

	out := result.Unified("firefox.desktop (saved)", "firefox.desktop (buffer)")

	assert.Contains(t, out, "--- firefox.desktop (saved)\n")
	assert.Contains(t, out, "+++ firefox.desktop (buffer)\n")
	assert.Contains(t, out, "@@ -1,2 +1,2 @@\n")
	assert.Contains(t, out, "-Name=A\n")
	assert.Contains(t, out, "+Name=B\n")
	assert.Contains(t, out, " Exec=a\n")
}
