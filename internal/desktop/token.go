// Package desktop classifies the text of freedesktop .desktop files for
// syntax-aware display.
package desktop

// Kind is the classification of a scanned span
type Kind int

const (
	KindNone         Kind = iota // Plain text, whitespace and the key/value "="
	KindComment                  // "# ..." to end of line
	KindSection                  // "[Desktop Entry]"
	KindLocalizedKey             // "Name[de]"
	KindKey                      // "Name"
	KindValueItem                // "Foo" in "Foo;Bar;"
	KindSeparator                // ";" inside a value
	KindValue                    // Final unterminated value segment
)

// String returns the name used in token dumps
func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindSection:
		return "section"
	case KindLocalizedKey:
		return "localized-key"
	case KindKey:
		return "key"
	case KindValueItem:
		return "value-item"
	case KindSeparator:
		return "separator"
	case KindValue:
		return "value"
	default:
		return "none"
	}
}

// State is the scan state carried between tokens of a single line.
// The zero value is the state at the start of every line.
type State struct {
	InKey          bool
	InLocalizedKey bool
	InValue        bool
	InComment      bool
}

// Token is a classified span of a line
type Token struct {
	Kind  Kind
	Start int // Byte offset within the line
	End   int // Exclusive
	Text  string
}
