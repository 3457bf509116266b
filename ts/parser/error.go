package parser

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/ts/scanner"
)

// ErrorContext selects how a ParseError is rendered
type ErrorContext int

const (
	ErrorContextPlain    ErrorContext = iota // Logs and batch reports
	ErrorContextTerminal                     // Colored output with a source excerpt
)

// ErrorKind categorizes parser errors for programmatic handling
type ErrorKind string

const (
	ErrorKindLexical ErrorKind = "lexical" // Malformed token (unterminated string, bad escape)
	ErrorKindSyntax  ErrorKind = "syntax"  // Unexpected token in a declaration
)

// ParseError is a parse failure located in a source file
type ParseError struct {
	Err         error         // Underlying error; errors.ErrParse when unset
	Kind        ErrorKind     // Error category
	Message     string        // Human-readable message
	File        string        // Source file name (optional)
	Range       scanner.Range // Source range of the offending token
	Token       string        // Offending token text (optional)
	Suggestions []string      // Possible fixes

	source string
}

// Error implements error interface
func (e *ParseError) Error() string {
	return e.FormatError(ErrorContextPlain)
}

// FormatError generates context-appropriate error message
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextTerminal {
		return e.formatTerminalError()
	}
	return e.formatPlainError()
}

func (e *ParseError) location() string {
	if e.File == "" {
		return e.Range.Start.String()
	}
	return e.File + ":" + e.Range.Start.String()
}

// formatPlainError creates a single-line message: file:line:col: message
func (e *ParseError) formatPlainError() string {
	msg := e.location() + ": " + e.Message
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(". Suggestions: %s", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// formatTerminalError creates colored output with the offending source line
func (e *ParseError) formatTerminalError() string {
	var sb strings.Builder
	sb.WriteString(pterm.Red("error: "))
	sb.WriteString(e.Message)
	sb.WriteString("\n")
	sb.WriteString(pterm.LightCyan("  --> " + e.location()))

	if excerpt := e.excerpt(); excerpt != "" {
		sb.WriteString("\n")
		sb.WriteString(excerpt)
	}

	for _, suggestion := range e.Suggestions {
		sb.WriteString("\n")
		sb.WriteString(pterm.Green("  help: "))
		sb.WriteString(suggestion)
	}
	return sb.String()
}

// excerpt renders the source line of the error with a caret marker
func (e *ParseError) excerpt() string {
	if e.source == "" || e.Range.Start.Line < 1 {
		return ""
	}
	lines := strings.Split(e.source, "\n")
	if e.Range.Start.Line > len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[e.Range.Start.Line-1], "\r")
	gutter := fmt.Sprintf("%d", e.Range.Start.Line)
	pad := strings.Repeat(" ", len(gutter))

	var marker strings.Builder
	col := 0
	for _, r := range line {
		if col >= e.Range.Start.Character {
			break
		}
		if r == '\t' {
			marker.WriteRune('\t')
		} else {
			marker.WriteRune(' ')
		}
		col++
	}
	width := 1
	if e.Range.End.Line == e.Range.Start.Line && e.Range.End.Character > e.Range.Start.Character {
		width = e.Range.End.Character - e.Range.Start.Character
	}
	marker.WriteString(pterm.Red(strings.Repeat("^", width)))

	return fmt.Sprintf("%s |\n%s | %s\n%s | %s", pad, pterm.LightCyan(gutter), line, pad, marker.String())
}

// Unwrap for errors.Is/As compatibility
func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return errors.ErrParse
}

// NewParseError creates a new ParseError with the given kind and message
func NewParseError(kind ErrorKind, message string) *ParseError {
	return &ParseError{
		Kind:    kind,
		Message: message,
	}
}

// WithFile sets the source file name
func (e *ParseError) WithFile(file string) *ParseError {
	e.File = file
	return e
}

// WithRange sets the source range of the error
func (e *ParseError) WithRange(r scanner.Range) *ParseError {
	e.Range = r
	return e
}

// WithToken sets the offending token text
func (e *ParseError) WithToken(token string) *ParseError {
	e.Token = token
	return e
}

// WithSource attaches the source text used for terminal excerpts
func (e *ParseError) WithSource(src string) *ParseError {
	e.source = src
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ParseError) WithSuggestion(suggestion string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithUnderlying sets the underlying error
func (e *ParseError) WithUnderlying(err error) *ParseError {
	e.Err = err
	return e
}
