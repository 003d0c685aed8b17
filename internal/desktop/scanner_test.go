package desktop

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type span struct {
	kind Kind
	text string
}

func spans(tokens []Token) []span {
	out := make([]span, len(tokens))
	for i, t := range tokens {
		out[i] = span{t.Kind, t.Text}
	}
	return out
}

func TestTokenizeLine_KeyWithListValue(t *testing.T) {
	got := spans(TokenizeLine("Key=Val1;Val2;"))

	want := []span{
		{KindKey, "Key"},
		{KindNone, "="},
		{KindValueItem, "Val1"},
		{KindSeparator, ";"},
		{KindValueItem, "Val2"},
		{KindSeparator, ";"},
	}
	assert.Equal(t, want, got)
}

func TestTokenizeLine_Comment(t *testing.T) {
	for _, line := range []string{"# comment text", "#", "#[Desktop Entry]", "# Name=Foo;"} {
		t.Run(line, func(t *testing.T) {
			got := TokenizeLine(line)
			require.Len(t, got, 1)
			assert.Equal(t, KindComment, got[0].Kind)
			assert.Equal(t, line, got[0].Text)
		})
	}
}

func TestTokenizeLine_Section(t *testing.T) {
	for _, line := range []string{"[Section Name]", "[Desktop Entry]", "[Desktop Action new-window]"} {
		t.Run(line, func(t *testing.T) {
			got := TokenizeLine(line)
			require.Len(t, got, 1)
			assert.Equal(t, KindSection, got[0].Kind)
			assert.Equal(t, line, got[0].Text)
		})
	}
}

func TestTokenizeLine_LocalizedKey(t *testing.T) {
	tests := []struct {
		line string
		key  string
	}{
		{"Keywords[sr@latin]=foo;", "Keywords[sr@latin]"},
		{"Name[de]=Datei", "Name[de]"},
		{"Comment[pt_BR]=Navegador", "Comment[pt_BR]"},
		{"GenericName[sr_RS@latin]=x", "GenericName[sr_RS@latin]"},
		{"Name[ast] = y", "Name[ast]"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := TokenizeLine(tt.line)
			require.NotEmpty(t, got)
			assert.Equal(t, KindLocalizedKey, got[0].Kind)
			assert.Equal(t, tt.key, got[0].Text)
		})
	}
}

func TestTokenizeLine_LocalizedKeyFullLine(t *testing.T) {
	got := spans(TokenizeLine("Keywords[sr@latin]=foo;"))

	want := []span{
		{KindLocalizedKey, "Keywords[sr@latin]"},
		{KindNone, "="},
		{KindValueItem, "foo"},
		{KindSeparator, ";"},
	}
	assert.Equal(t, want, got)
}

func TestTokenizeLine_PlainValue(t *testing.T) {
	got := spans(TokenizeLine("Exec=firefox %u"))

	want := []span{
		{KindKey, "Exec"},
		{KindNone, "="},
		{KindValue, "firefox %u"},
	}
	assert.Equal(t, want, got)
}

func TestTokenizeLine_TrailingUnterminatedItem(t *testing.T) {
	got := spans(TokenizeLine("Categories=GTK;Network"))

	want := []span{
		{KindKey, "Categories"},
		{KindNone, "="},
		{KindValueItem, "GTK"},
		{KindSeparator, ";"},
		{KindValue, "Network"},
	}
	assert.Equal(t, want, got)
}

func TestTokenizeLine_WhitespaceAroundEquals(t *testing.T) {
	got := spans(TokenizeLine("Name = Foo"))

	want := []span{
		{KindKey, "Name"},
		{KindNone, " "},
		{KindNone, "="},
		{KindValue, " Foo"},
	}
	assert.Equal(t, want, got)
}

func TestTokenizeLine_BracketsInValueAreNotLocalizedKey(t *testing.T) {
	got := TokenizeLine("Name[de] Datei")

	for _, tok := range got {
		assert.NotEqual(t, KindLocalizedKey, tok.Kind, "token %q", tok.Text)
		assert.NotEqual(t, KindKey, tok.Kind, "token %q", tok.Text)
	}
}

func TestTokenizeLine_FallbackIsCharacterByCharacter(t *testing.T) {
	got := TokenizeLine("abc é")

	require.Len(t, got, 5)
	for _, tok := range got {
		assert.Equal(t, KindNone, tok.Kind)
	}
	assert.Equal(t, "é", got[4].Text)
}

func TestTokenizeLine_Empty(t *testing.T) {
	assert.Empty(t, TokenizeLine(""))
}

func TestTokenizeLine_TokensCoverLine(t *testing.T) {
	lines := []string{
		"[Desktop Entry]",
		"Name[fr]=Navigateur Web",
		"Exec=env FOO=1 app --flag",
		"MimeType=text/html;text/xml;application/xhtml+xml;",
		"  indented=value",
		"garbage ] [ = ;",
		"# trailing",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			var b strings.Builder
			pos := 0
			for _, tok := range TokenizeLine(line) {
				assert.Equal(t, pos, tok.Start)
				assert.Greater(t, tok.End, tok.Start)
				b.WriteString(tok.Text)
				pos = tok.End
			}
			assert.Equal(t, line, b.String())
		})
	}
}

func TestNext_StateIsPassedByValue(t *testing.T) {
	var start State
	kind, n, st := Next("Name=Foo", start)

	assert.Equal(t, KindKey, kind)
	assert.Equal(t, 4, n)
	assert.True(t, st.InKey)
	assert.False(t, start.InKey, "input state must not change")

	kind, n, st = Next("=Foo", st)
	assert.Equal(t, KindNone, kind)
	assert.Equal(t, 1, n)
	assert.False(t, st.InKey)
	assert.True(t, st.InValue)

	kind, n, st = Next("Foo", st)
	assert.Equal(t, KindValue, kind)
	assert.Equal(t, 3, n)
	assert.False(t, st.InValue)
}

func TestNext_EqualsWithoutKeyIsPlain(t *testing.T) {
	kind, n, st := Next("=x", State{})

	assert.Equal(t, KindNone, kind)
	assert.Equal(t, 1, n)
	assert.Equal(t, State{}, st)
}

func TestNext_Empty(t *testing.T) {
	kind, n, st := Next("", State{InValue: true})

	assert.Equal(t, KindNone, kind)
	assert.Equal(t, 0, n)
	assert.True(t, st.InValue)
}

func TestTokenize_StateResetsBetweenLines(t *testing.T) {
	// The first line ends while still inside a value; the second line must
	// not be read as value text.
	lines := Tokenize("Categories=A;B;\r\n[Desktop Action new]\nTerminal=false")

	require.Len(t, lines, 3)
	require.Len(t, lines[1], 1)
	assert.Equal(t, KindSection, lines[1][0].Kind)
	assert.Equal(t, "[Desktop Action new]", lines[1][0].Text)
	assert.Equal(t, KindKey, lines[2][0].Kind)
}

func TestTokenize_SameLineSameTokens(t *testing.T) {
	a := Tokenize("Name=X\nIcon=y;z")
	b := Tokenize("# unrelated;\nIcon=y;z")

	assert.Equal(t, a[1], b[1])
}

func TestValue(t *testing.T) {
	content := "[Desktop Entry]\nName=Firefox \nName[de]=Feuerfuchs\nCategories=Network;WebBrowser;\n"

	name, ok := Value(content, "Name")
	assert.True(t, ok)
	assert.Equal(t, "Firefox", name)

	cats, ok := Value(content, "Categories")
	assert.True(t, ok)
	assert.Equal(t, "Network;WebBrowser;", cats)

	_, ok = Value(content, "Icon")
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "localized-key", KindLocalizedKey.String())
	assert.Equal(t, "value-item", KindValueItem.String())
	assert.Equal(t, "none", KindNone.String())
}
