package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == EOF {
			continue
		}
		out = append(out, tok.Text)
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []string
	}{
		{"empty", "", []string{}},
		{"interface", "interface Foo { a?: string; }", []string{"interface", "Foo", "{", "a", "?", ":", "string", ";", "}"}},
		{"array and union", "x: number[] | undefined", []string{"x", ":", "number", "[", "]", "|", "undefined"}},
		{"spread and arrow", "(...args) => void", []string{"(", "...", "args", ")", "=>", "void"}},
		{"line comment", "a // trailing\nb", []string{"a", "b"}},
		{"block comment", "a /* x */ b", []string{"a", "b"}},
		{"hashbang", "#!/usr/bin/env node\nexport", []string{"export"}},
		{"byte order mark", "\ufeffenum", []string{"enum"}},
		{"dollar identifiers", "$foo _bar", []string{"$foo", "_bar"}},
		{"unicode identifier", "café = 1", []string{"café", "=", "1"}},
		{"generic closing", "Array<Array<T>>", []string{"Array", "<", "Array", "<", "T", ">", ">"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.src)
			require.NoError(t, err)
			require.NotEmpty(t, tokens)
			assert.Equal(t, EOF, tokens[len(tokens)-1].Kind)
			assert.Equal(t, tt.expected, texts(tokens))
		})
	}
}

func TestTokenKinds(t *testing.T) {
	tokens, err := Tokenize(`Name "s" 'q' ` + "`t`" + ` 42 ;`)
	require.NoError(t, err)

	kinds := make([]Kind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{Identifier, String, String, Template, Number, Punct, EOF}, kinds)
}

func TestStringValues(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"double quoted", `"standard"`, "standard"},
		{"single quoted", `'premium'`, "premium"},
		{"escaped quote", `"say \"hi\""`, `say "hi"`},
		{"newline escape", `"a\nb"`, "a\nb"},
		{"tab escape", `'a\tb'`, "a\tb"},
		{"null escape", `"\0"`, "\x00"},
		{"hex escape", `"\x41"`, "A"},
		{"unicode escape", `"\u00e9"`, "é"},
		{"code point escape", `"\u{1F600}"`, "\U0001F600"},
		{"identity escape", `"\q"`, "q"},
		{"line continuation", "\"a\\\nb\"", "ab"},
		{"utf8 content", `"naïve"`, "naïve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.src)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, String, tokens[0].Kind)
			assert.Equal(t, tt.src, tokens[0].Text)
			assert.Equal(t, tt.expected, tokens[0].Value)
		})
	}
}

func TestTemplateLiterals(t *testing.T) {
	t.Run("no substitutions", func(t *testing.T) {
		tokens, err := Tokenize("`plain`")
		require.NoError(t, err)
		assert.Equal(t, Template, tokens[0].Kind)
		assert.Equal(t, "plain", tokens[0].Value)
		assert.False(t, tokens[0].HasSubstitutions)
	})

	t.Run("with substitution", func(t *testing.T) {
		tokens, err := Tokenize("`a${b}c` x")
		require.NoError(t, err)
		require.Len(t, tokens, 3)
		assert.True(t, tokens[0].HasSubstitutions)
		assert.Equal(t, "`a${b}c`", tokens[0].Text)
		assert.Equal(t, "x", tokens[1].Text)
	})

	t.Run("nested braces and strings", func(t *testing.T) {
		tokens, err := Tokenize("`${ {a: \"}\"} }` y")
		require.NoError(t, err)
		require.Len(t, tokens, 3)
		assert.Equal(t, "y", tokens[1].Text)
	})

	t.Run("multiline", func(t *testing.T) {
		tokens, err := Tokenize("`a\nb` c")
		require.NoError(t, err)
		assert.Equal(t, "a\nb", tokens[0].Value)
		assert.Equal(t, 2, tokens[1].Range.Start.Line)
	})
}

func TestNumbers(t *testing.T) {
	for _, src := range []string{"0", "42", "3.14", ".5", "1e10", "2.5E-3", "0xFF", "0b1010", "0o17", "1_000_000", "10n"} {
		t.Run(src, func(t *testing.T) {
			tokens, err := Tokenize(src)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, Number, tokens[0].Kind)
			assert.Equal(t, src, tokens[0].Text)
		})
	}

	t.Run("member access after integer", func(t *testing.T) {
		tokens, err := Tokenize("1.toString")
		require.NoError(t, err)
		assert.Equal(t, []string{"1.", "toString"}, texts(tokens))
	})
}

func TestNewlineBefore(t *testing.T) {
	tokens, err := Tokenize("a b\nc /* \n */ d /* x */ e")
	require.NoError(t, err)

	got := map[string]bool{}
	for _, tok := range tokens {
		if tok.Kind != EOF {
			got[tok.Text] = tok.NewlineBefore
		}
	}
	assert.Equal(t, map[string]bool{"a": false, "b": false, "c": true, "d": true, "e": false}, got)
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize("enum Foo {\n  A = 1\n}")
	require.NoError(t, err)

	a := tokens[3]
	require.Equal(t, "A", a.Text)
	assert.Equal(t, Position{Line: 2, Character: 2, Offset: 13}, a.Range.Start)
	assert.Equal(t, Position{Line: 2, Character: 3, Offset: 14}, a.Range.End)
	assert.Equal(t, "2:3", a.Range.Start.String())

	closing := tokens[len(tokens)-2]
	assert.Equal(t, "}", closing.Text)
	assert.Equal(t, 3, closing.Range.Start.Line)
	assert.Equal(t, 0, closing.Range.Start.Character)
}

func TestPositionsCountRunes(t *testing.T) {
	tokens, err := Tokenize("\"éé\" x")
	require.NoError(t, err)
	x := tokens[1]
	assert.Equal(t, 5, x.Range.Start.Character)
	assert.Equal(t, 7, x.Range.Start.Offset)
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
		line    int
	}{
		{"unterminated string", `"abc`, "unterminated string literal", 1},
		{"newline in string", "'ab\ncd'", "unterminated string literal", 1},
		{"unterminated template", "`abc", "unterminated template literal", 1},
		{"unterminated substitution", "`${a", "unterminated template substitution", 1},
		{"unterminated comment", "a\n/* never closed", "unterminated block comment", 2},
		{"bad hex escape", `"\xZZ"`, "invalid hexadecimal escape sequence", 1},
		{"bad unicode escape", `"\u{110000}"`, "invalid unicode escape sequence", 1},
		{"invalid utf-8", "\xff\xfe interface I {}", "invalid UTF-8 byte sequence", 1},
		{"invalid utf-8 after newline", "enum A {}\n\xc3", "invalid UTF-8 byte sequence", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			require.Error(t, err)

			var scanErr *Error
			require.ErrorAs(t, err, &scanErr)
			assert.Equal(t, tt.message, scanErr.Message)
			assert.Equal(t, tt.line, scanErr.Pos.Line)
		})
	}
}

func TestTokenIs(t *testing.T) {
	tok := Token{Kind: Identifier, Text: "enum"}
	assert.True(t, tok.Is("enum"))
	assert.False(t, tok.Is("interface"))

	str := Token{Kind: String, Text: "enum"}
	assert.False(t, str.Is("enum"))
}
