// Package scanner tokenizes TypeScript source text.
//
// The scanner covers the lexical grammar needed to read declaration files:
// identifiers, string and template literals, numeric literals, punctuation,
// and comments (which are discarded). Regular expression literals are not
// recognized; a slash is always scanned as punctuation.
package scanner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind identifies the lexical class of a token
type Kind int

const (
	EOF Kind = iota
	Identifier
	String   // '...' or "..."
	Template // `...`
	Number
	Punct
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case Identifier:
		return "identifier"
	case String:
		return "string literal"
	case Template:
		return "template literal"
	case Number:
		return "numeric literal"
	case Punct:
		return "punctuation"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit of the source
type Token struct {
	Kind Kind

	// Text is the raw source text of the token, quotes included
	Text string

	// Value is the decoded content of a string or template literal.
	// For every other kind it equals Text.
	Value string

	Range Range

	// NewlineBefore reports whether a line break separates this token from
	// the previous one. The parser uses it for automatic semicolon insertion.
	NewlineBefore bool

	// HasSubstitutions is set on template literals containing ${...}
	HasSubstitutions bool
}

// Is reports whether the token is the given punctuation or identifier text
func (t Token) Is(text string) bool {
	return (t.Kind == Punct || t.Kind == Identifier) && t.Text == text
}

// Error is a lexical error at a source position
type Error struct {
	Message string
	Pos     Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Scanner produces tokens from TypeScript source text
type Scanner struct {
	src     string
	pos     *positionTracker
	newline bool
}

// New creates a scanner positioned at the start of src
func New(src string) *Scanner {
	return &Scanner{
		src: src,
		pos: newPositionTracker(src),
	}
}

// Tokenize scans src completely. The returned slice always ends with an EOF token.
func Tokenize(src string) ([]Token, error) {
	s := New(src)
	var tokens []Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

// Next scans the next token, skipping whitespace and comments
func (s *Scanner) Next() (Token, error) {
	if err := s.skipTrivia(); err != nil {
		return Token{}, err
	}

	start := s.pos.mark()
	newline := s.newline
	s.newline = false

	if s.eof() {
		return Token{Kind: EOF, Range: Range{Start: start, End: start}, NewlineBefore: newline}, nil
	}

	var tok Token
	var err error

	ch := s.peek(0)
	switch {
	case ch == '"' || ch == '\'':
		tok, err = s.scanString(ch)
	case ch == '`':
		tok, err = s.scanTemplate()
	case isDigit(ch) || (ch == '.' && isDigit(s.peek(1))):
		tok = s.scanNumber()
	default:
		r, size := utf8.DecodeRuneInString(s.src[s.pos.offset:])
		if r == utf8.RuneError && size == 1 {
			return Token{}, &Error{Message: "invalid UTF-8 byte sequence", Pos: start}
		}
		if isIdentStart(r) {
			tok = s.scanIdentifier()
		} else {
			tok = s.scanPunct()
		}
	}
	if err != nil {
		return Token{}, err
	}

	tok.Range = Range{Start: start, End: s.pos.mark()}
	tok.Text = s.src[start.Offset:tok.Range.End.Offset]
	if tok.Kind != String && tok.Kind != Template {
		tok.Value = tok.Text
	}
	tok.NewlineBefore = newline
	return tok, nil
}

func (s *Scanner) eof() bool {
	return s.pos.offset >= len(s.src)
}

// peek returns the byte n positions ahead, or 0 past the end
func (s *Scanner) peek(n int) byte {
	if s.pos.offset+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos.offset+n]
}

// skipTrivia consumes whitespace, comments, and a leading hashbang line
func (s *Scanner) skipTrivia() error {
	if s.pos.offset == 0 && strings.HasPrefix(s.src, "#!") {
		s.skipLine()
	}

	for !s.eof() {
		ch := s.peek(0)
		switch {
		case ch == '\n':
			s.newline = true
			s.pos.advanceBytes(1)
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\v' || ch == '\f':
			s.pos.advanceBytes(1)
		case ch == '/' && s.peek(1) == '/':
			s.skipLine()
		case ch == '/' && s.peek(1) == '*':
			start := s.pos.mark()
			end := strings.Index(s.src[s.pos.offset+2:], "*/")
			if end < 0 {
				return &Error{Message: "unterminated block comment", Pos: start}
			}
			comment := s.src[s.pos.offset : s.pos.offset+2+end+2]
			if strings.ContainsAny(comment, "\n\u2028\u2029") {
				s.newline = true
			}
			s.pos.advanceBytes(len(comment))
		case ch >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(s.src[s.pos.offset:])
			if r == '\u2028' || r == '\u2029' {
				s.newline = true
			} else if r != '\ufeff' && !unicode.IsSpace(r) {
				return nil
			}
			s.pos.advanceBytes(size)
		default:
			return nil
		}
	}
	return nil
}

func (s *Scanner) skipLine() {
	end := strings.IndexByte(s.src[s.pos.offset:], '\n')
	if end < 0 {
		s.pos.advanceBytes(len(s.src) - s.pos.offset)
		return
	}
	s.pos.advanceBytes(end)
}

func (s *Scanner) scanString(quote byte) (Token, error) {
	start := s.pos.mark()
	s.pos.advanceBytes(1)

	var value strings.Builder
	for {
		if s.eof() || s.peek(0) == '\n' {
			return Token{}, &Error{Message: "unterminated string literal", Pos: start}
		}
		ch := s.peek(0)
		if ch == quote {
			s.pos.advanceBytes(1)
			break
		}
		if ch == '\\' {
			if err := s.scanEscape(&value); err != nil {
				return Token{}, err
			}
			continue
		}
		value.WriteByte(ch)
		s.pos.advanceBytes(1)
	}

	return Token{Kind: String, Value: value.String()}, nil
}

func (s *Scanner) scanTemplate() (Token, error) {
	start := s.pos.mark()
	s.pos.advanceBytes(1)

	tok := Token{Kind: Template}
	var value strings.Builder
	for {
		if s.eof() {
			return Token{}, &Error{Message: "unterminated template literal", Pos: start}
		}
		ch := s.peek(0)
		switch {
		case ch == '`':
			s.pos.advanceBytes(1)
			tok.Value = value.String()
			return tok, nil
		case ch == '\\':
			if err := s.scanEscape(&value); err != nil {
				return Token{}, err
			}
		case ch == '$' && s.peek(1) == '{':
			tok.HasSubstitutions = true
			subStart := s.pos.offset
			if err := s.skipSubstitution(); err != nil {
				return Token{}, err
			}
			value.WriteString(s.src[subStart:s.pos.offset])
		default:
			value.WriteByte(ch)
			s.pos.advanceBytes(1)
		}
	}
}

// skipSubstitution consumes a ${...} template span, including nested
// strings and templates.
func (s *Scanner) skipSubstitution() error {
	start := s.pos.mark()
	s.pos.advanceBytes(2)
	depth := 1
	for depth > 0 {
		if s.eof() {
			return &Error{Message: "unterminated template substitution", Pos: start}
		}
		switch ch := s.peek(0); ch {
		case '{':
			depth++
			s.pos.advanceBytes(1)
		case '}':
			depth--
			s.pos.advanceBytes(1)
		case '"', '\'':
			if _, err := s.scanString(ch); err != nil {
				return err
			}
		case '`':
			if _, err := s.scanTemplate(); err != nil {
				return err
			}
		default:
			s.pos.advanceBytes(1)
		}
	}
	return nil
}

// scanEscape decodes one backslash escape sequence into value
func (s *Scanner) scanEscape(value *strings.Builder) error {
	start := s.pos.mark()
	s.pos.advanceBytes(1)
	if s.eof() {
		return &Error{Message: "unterminated escape sequence", Pos: start}
	}

	ch := s.peek(0)
	switch ch {
	case 'n':
		value.WriteByte('\n')
	case 't':
		value.WriteByte('\t')
	case 'r':
		value.WriteByte('\r')
	case 'b':
		value.WriteByte('\b')
	case 'f':
		value.WriteByte('\f')
	case 'v':
		value.WriteByte('\v')
	case '0':
		if isDigit(s.peek(1)) {
			value.WriteByte(ch)
		} else {
			value.WriteByte(0)
		}
	case '\r':
		// Line continuation; \r\n counts as one break
		s.pos.advanceBytes(1)
		if s.peek(0) == '\n' {
			s.pos.advanceBytes(1)
		}
		return nil
	case '\n':
	case 'x':
		r, n, ok := parseHexRune(s.src[s.pos.offset+1:], 2)
		if !ok {
			return &Error{Message: "invalid hexadecimal escape sequence", Pos: start}
		}
		value.WriteRune(r)
		s.pos.advanceBytes(1 + n)
		return nil
	case 'u':
		rest := s.src[s.pos.offset+1:]
		if strings.HasPrefix(rest, "{") {
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return &Error{Message: "unterminated unicode escape sequence", Pos: start}
			}
			code, err := strconv.ParseUint(rest[1:end], 16, 32)
			if err != nil || code > unicode.MaxRune {
				return &Error{Message: "invalid unicode escape sequence", Pos: start}
			}
			value.WriteRune(rune(code))
			s.pos.advanceBytes(1 + end + 1)
			return nil
		}
		r, n, ok := parseHexRune(rest, 4)
		if !ok {
			return &Error{Message: "invalid unicode escape sequence", Pos: start}
		}
		value.WriteRune(r)
		s.pos.advanceBytes(1 + n)
		return nil
	default:
		_, size := utf8.DecodeRuneInString(s.src[s.pos.offset:])
		value.WriteString(s.src[s.pos.offset : s.pos.offset+size])
		s.pos.advanceBytes(size)
		return nil
	}
	s.pos.advanceBytes(1)
	return nil
}

func parseHexRune(s string, digits int) (rune, int, bool) {
	if len(s) < digits {
		return 0, 0, false
	}
	code, err := strconv.ParseUint(s[:digits], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return rune(code), digits, true
}

func (s *Scanner) scanNumber() Token {
	if s.peek(0) == '0' {
		switch s.peek(1) {
		case 'x', 'X', 'b', 'B', 'o', 'O':
			s.pos.advanceBytes(2)
			for isHexDigit(s.peek(0)) || s.peek(0) == '_' {
				s.pos.advanceBytes(1)
			}
			s.scanBigIntSuffix()
			return Token{Kind: Number}
		}
	}

	s.scanDigits()
	if s.peek(0) == '.' {
		s.pos.advanceBytes(1)
		s.scanDigits()
	}
	if ch := s.peek(0); ch == 'e' || ch == 'E' {
		next := s.peek(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.peek(2))) {
			s.pos.advanceBytes(2)
			s.scanDigits()
		}
	}
	s.scanBigIntSuffix()
	return Token{Kind: Number}
}

func (s *Scanner) scanDigits() {
	for isDigit(s.peek(0)) || s.peek(0) == '_' {
		s.pos.advanceBytes(1)
	}
}

func (s *Scanner) scanBigIntSuffix() {
	if s.peek(0) == 'n' {
		s.pos.advanceBytes(1)
	}
}

func (s *Scanner) scanIdentifier() Token {
	for !s.eof() {
		r, size := utf8.DecodeRuneInString(s.src[s.pos.offset:])
		if !isIdentPart(r) {
			break
		}
		s.pos.advanceBytes(size)
	}
	return Token{Kind: Identifier}
}

func (s *Scanner) scanPunct() Token {
	rest := s.src[s.pos.offset:]
	for _, multi := range []string{"...", "=>"} {
		if strings.HasPrefix(rest, multi) {
			s.pos.advanceBytes(len(multi))
			return Token{Kind: Punct}
		}
	}
	_, size := utf8.DecodeRuneInString(rest)
	s.pos.advanceBytes(size)
	return Token{Kind: Punct}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '\u200c' || r == '\u200d' ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}
