package ui

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"menuedit/internal/desktop"
)

// DefaultTheme is the chroma style used when none is configured
const DefaultTheme = "catppuccin-mocha"

// kindTokens maps tokenizer kinds to the chroma token types whose colours
// they take from the active style.
var kindTokens = map[desktop.Kind]chroma.TokenType{
	desktop.KindComment:      chroma.Comment,
	desktop.KindSection:      chroma.Keyword,
	desktop.KindLocalizedKey: chroma.NameBuiltin,
	desktop.KindKey:          chroma.NameAttribute,
	desktop.KindValueItem:    chroma.LiteralString,
	desktop.KindSeparator:    chroma.Punctuation,
	desktop.KindValue:        chroma.LiteralString,
}

// Highlighter provides syntax highlighting for .desktop files and other
// text found in application directories
type Highlighter struct {
	style *chroma.Style
	kinds map[desktop.Kind]lipgloss.Style
}

// NewHighlighter creates a highlighter for the named chroma style
func NewHighlighter(theme string) *Highlighter {
	h := &Highlighter{}
	h.SetTheme(theme)
	return h
}

// SetTheme switches the chroma style. Unknown names fall back to the default.
func (h *Highlighter) SetTheme(theme string) {
	if theme == "" {
		theme = DefaultTheme
	}
	h.style = styles.Get(theme)

	h.kinds = make(map[desktop.Kind]lipgloss.Style, len(kindTokens))
	for kind, tokenType := range kindTokens {
		if s, ok := h.lipglossStyle(tokenType); ok {
			h.kinds[kind] = s
		}
	}
}

// Theme returns the name of the active style
func (h *Highlighter) Theme() string {
	return h.style.Name
}

func (h *Highlighter) lipglossStyle(tokenType chroma.TokenType) (lipgloss.Style, bool) {
	entry := h.style.Get(tokenType)
	if !entry.Colour.IsSet() {
		return lipgloss.Style{}, false
	}
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Colour.String()))
	if entry.Bold == chroma.Yes {
		styled = styled.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		styled = styled.Italic(true)
	}
	return styled, true
}

// HighlightTokens renders one tokenized line
func (h *Highlighter) HighlightTokens(tokens []desktop.Token) string {
	var result strings.Builder
	for _, tok := range tokens {
		if s, ok := h.kinds[tok.Kind]; ok {
			result.WriteString(s.Render(tok.Text))
		} else {
			result.WriteString(tok.Text)
		}
	}
	return result.String()
}

// HighlightLine highlights a single line based on the file name.
// .desktop and .directory files use the desktop tokenizer; other files use a
// chroma lexer when one matches.
func (h *Highlighter) HighlightLine(line, filename string) string {
	if IsDesktopFile(filename) {
		return h.HighlightTokens(desktop.TokenizeLine(line))
	}

	lexer := getLexerForFile(filename)
	if lexer == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var result strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		if s, ok := h.lipglossStyle(token.Type); ok {
			result.WriteString(s.Render(token.Value))
		} else {
			result.WriteString(token.Value)
		}
	}
	return result.String()
}

// HighlightLines highlights multiple lines
func (h *Highlighter) HighlightLines(lines []string, filename string) []string {
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = h.HighlightLine(line, filename)
	}
	return result
}

// IsDesktopFile reports whether filename uses the desktop entry format
func IsDesktopFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".desktop", ".directory":
		return true
	}
	return false
}

// getLexerForFile returns the chroma lexer for the other files found next to
// launcher entries
func getLexerForFile(filename string) chroma.Lexer {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".list", ".cache", ".conf", ".ini":
		return lexers.Get("ini")
	case ".menu", ".xml":
		return lexers.Get("xml")
	case ".sh":
		return lexers.Get("bash")
	}
	return lexers.Match(filename)
}

// GetFileType returns a human-readable file type for display
func GetFileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".desktop":
		return "Desktop Entry"
	case ".directory":
		return "Directory Entry"
	case ".list", ".cache":
		return "MIME List"
	case ".menu", ".xml":
		return "XML"
	case ".conf", ".ini":
		return "Config"
	default:
		return "Text"
	}
}
