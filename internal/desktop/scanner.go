package desktop

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	sectionPattern = regexp.MustCompile(`^\[[^\]]*\]`)

	// Locale qualifier: lang, then _COUNTRY and @MODIFIER in either order.
	localizedKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]+\[[a-z]{2,5}(?:_[A-Z]{2})?(?:@[A-Za-z0-9]+)?(?:_[A-Z]{2})?\]`)

	keyPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]+`)
)

// Next classifies the span at the start of rest and reports how many bytes it
// covers together with the state for the remainder of the same line.
// It consumes at least one rune whenever rest is non-empty.
func Next(rest string, st State) (Kind, int, State) {
	if rest == "" {
		return KindNone, 0, st
	}

	if rest[0] == '#' {
		st.InComment = true
		return KindComment, len(rest), st
	}

	if loc := sectionPattern.FindStringIndex(rest); loc != nil {
		return KindSection, loc[1], st
	}

	if loc := localizedKeyPattern.FindStringIndex(rest); loc != nil && assignmentFollows(rest[loc[1]:]) {
		st.InLocalizedKey = true
		return KindLocalizedKey, loc[1], st
	}

	if loc := keyPattern.FindStringIndex(rest); loc != nil && assignmentFollows(rest[loc[1]:]) {
		st.InKey = true
		return KindKey, loc[1], st
	}

	if (st.InKey || st.InLocalizedKey) && rest[0] == '=' {
		st.InKey = false
		st.InLocalizedKey = false
		st.InValue = true
		return KindNone, 1, st
	}

	if st.InValue {
		if i := strings.IndexByte(rest, ';'); i > 0 {
			return KindValueItem, i, st
		}
		if rest[0] == ';' {
			return KindSeparator, 1, st
		}
		st.InValue = false
		return KindValue, len(rest), st
	}

	_, size := utf8.DecodeRuneInString(rest)
	return KindNone, size, st
}

// assignmentFollows reports whether s is optional whitespace followed by "="
func assignmentFollows(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t"), "=")
}

// TokenizeLine scans a single line from the start-of-line state
func TokenizeLine(line string) []Token {
	var tokens []Token
	var st State
	pos := 0
	for pos < len(line) {
		kind, n, next := Next(line[pos:], st)
		tokens = append(tokens, Token{
			Kind:  kind,
			Start: pos,
			End:   pos + n,
			Text:  line[pos : pos+n],
		})
		pos += n
		st = next
	}
	return tokens
}

// Tokenize scans every line of text. Each line starts from a fresh state.
func Tokenize(text string) [][]Token {
	lines := SplitLines(text)
	result := make([][]Token, len(lines))
	for i, line := range lines {
		result[i] = TokenizeLine(line)
	}
	return result
}

// SplitLines splits text on "\n" and drops a trailing "\r" from each line
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Value returns the trimmed value of the first "key=" line in content
func Value(content, key string) (string, bool) {
	prefix := key + "="
	for _, line := range SplitLines(content) {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", false
}
