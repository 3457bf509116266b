package parser

import (
	"io/fs"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/ts/scanner"
)

func TestParseErrorPlainFormat(t *testing.T) {
	err := NewParseError(ErrorKindSyntax, "expected type, found ';'").
		WithFile("models.ts").
		WithRange(scanner.Range{
			Start: scanner.Position{Line: 2, Character: 5},
			End:   scanner.Position{Line: 2, Character: 6},
		})

	assert.Equal(t, "models.ts:2:6: expected type, found ';'", err.Error())

	err.WithSuggestion("add a type after ':'")
	assert.Equal(t, "models.ts:2:6: expected type, found ';'. Suggestions: add a type after ':'", err.FormatError(ErrorContextPlain))
}

func TestParseErrorWithoutFile(t *testing.T) {
	err := NewParseError(ErrorKindLexical, "unterminated string literal").
		WithRange(scanner.Range{Start: scanner.Position{Line: 1}})
	assert.Equal(t, "1:1: unterminated string literal", err.Error())
}

func TestParseErrorTerminalFormat(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	src := "interface I {\n\ta: ;\n}"
	_, err := Parse("i.ts", src)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))

	out := parseErr.FormatError(ErrorContextTerminal)
	assert.Contains(t, out, "error: expected type, found ';'")
	assert.Contains(t, out, "--> i.ts:2:5")
	assert.Contains(t, out, "2 | \ta: ;")
	assert.Contains(t, out, " | \t   ^")
}

func TestParseErrorSuggestionsInTerminal(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	_, err := Parse("e.ts", "enum E { [k] = 1 }")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))

	out := parseErr.FormatError(ErrorContextTerminal)
	assert.Contains(t, out, "help: use an identifier or a string literal as the member name")
}

func TestParseErrorUnwrap(t *testing.T) {
	plain := NewParseError(ErrorKindSyntax, "bad")
	assert.True(t, errors.Is(plain, errors.ErrParse))

	withCause := NewParseError(ErrorKindSyntax, "bad").WithUnderlying(fs.ErrInvalid)
	assert.True(t, errors.Is(withCause, fs.ErrInvalid))
}
