// Package parser builds a declaration AST from TypeScript source.
//
// Enums, interfaces, type aliases, imports and export lists are parsed in
// full. Every other top-level statement is skipped by bracket matching and
// recorded as an ast.UnsupportedStatement. Type syntax the converter has no
// use for (function, mapped, conditional and template literal types, typeof
// queries) is consumed and kept as an ast.OpaqueType.
package parser

import (
	"fmt"
	"strings"

	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/ts/ast"
	"github.com/teranos/ts2swift/ts/scanner"
)

// Parse parses src as the TypeScript file fileName
func Parse(fileName, src string) (*ast.SourceFile, error) {
	tokens, err := scanner.Tokenize(src)
	if err != nil {
		return nil, lexicalError(fileName, src, err)
	}

	p := &parser{file: fileName, src: src, tokens: tokens}
	file := &ast.SourceFile{FileName: fileName, Text: src}
	for !p.atEOF() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			file.Statements = append(file.Statements, stmt)
		}
	}
	return file, nil
}

// lexicalError locates a scanner failure in fileName
func lexicalError(fileName, src string, err error) error {
	var scanErr *scanner.Error
	if errors.As(err, &scanErr) {
		return NewParseError(ErrorKindLexical, scanErr.Message).
			WithFile(fileName).
			WithRange(scanner.Range{Start: scanErr.Pos, End: scanErr.Pos}).
			WithSource(src)
	}
	return errors.WrapParse(err, fileName)
}

type parser struct {
	file   string
	src    string
	tokens []scanner.Token
	pos    int
}

// statementStarts are keywords that begin a new statement when they open a line
var statementStarts = map[string]bool{
	"export": true, "import": true, "enum": true, "interface": true, "type": true,
	"declare": true, "const": true, "let": true, "var": true, "function": true,
	"class": true, "namespace": true, "module": true, "abstract": true, "async": true,
}

// continuations are tokens after which a line break never ends a member
var continuations = map[string]bool{
	"|": true, "&": true, ":": true, "=>": true, ",": true, "<": true, "=": true, "?": true, ".": true,
}

var keywordTypes = map[string]bool{
	"string": true, "number": true, "boolean": true, "any": true, "unknown": true,
	"undefined": true, "null": true, "void": true, "never": true, "object": true,
	"bigint": true, "symbol": true, "this": true,
}

// Token navigation

func (p *parser) peek(n int) scanner.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) cur() scanner.Token { return p.peek(0) }

func (p *parser) atEOF() bool { return p.cur().Kind == scanner.EOF }

func (p *parser) at(text string) bool { return p.cur().Is(text) }

func (p *parser) advance() scanner.Token {
	tok := p.cur()
	if tok.Kind != scanner.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) accept(text string) bool {
	if p.at(text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text string) (scanner.Token, error) {
	if !p.at(text) {
		return scanner.Token{}, p.unexpected("'" + text + "'")
	}
	return p.advance(), nil
}

func (p *parser) expectIdentifier(what string) (scanner.Token, error) {
	if p.cur().Kind != scanner.Identifier {
		return scanner.Token{}, p.unexpected(what)
	}
	return p.advance(), nil
}

func (p *parser) unexpected(expected string) *ParseError {
	tok := p.cur()
	found := "'" + tok.Text + "'"
	if tok.Kind == scanner.EOF {
		found = "end of file"
	}
	return p.errorAt(tok, "expected %s, found %s", expected, found)
}

func (p *parser) errorAt(tok scanner.Token, format string, args ...interface{}) *ParseError {
	return NewParseError(ErrorKindSyntax, fmt.Sprintf(format, args...)).
		WithFile(p.file).
		WithRange(tok.Range).
		WithToken(tok.Text).
		WithSource(p.src)
}

// lastEnd is the end position of the most recently consumed token
func (p *parser) lastEnd() scanner.Position {
	if p.pos == 0 {
		return p.tokens[0].Range.Start
	}
	return p.tokens[p.pos-1].Range.End
}

func (p *parser) spanFrom(start scanner.Token) scanner.Range {
	return scanner.Range{Start: start.Range.Start, End: p.lastEnd()}
}

// textFrom returns the source consumed since token index start, with runs of
// whitespace collapsed to a single space
func (p *parser) textFrom(start int) string {
	if p.pos <= start {
		return ""
	}
	raw := p.src[p.tokens[start].Range.Start.Offset:p.lastEnd().Offset]
	return strings.Join(strings.Fields(raw), " ")
}

func (p *parser) opaqueFrom(start int) *ast.OpaqueType {
	return &ast.OpaqueType{Text: p.textFrom(start)}
}

// endStatement accepts an explicit or inserted semicolon
func (p *parser) endStatement() error {
	if p.accept(";") {
		return nil
	}
	tok := p.cur()
	if tok.Kind == scanner.EOF || tok.Is("}") || tok.NewlineBefore {
		return nil
	}
	return p.unexpected("';'")
}

// skipBalanced consumes an open token through its matching close token
func (p *parser) skipBalanced(open, close string) error {
	start := p.cur()
	if _, err := p.expect(open); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		if p.atEOF() {
			return p.errorAt(start, "unclosed '%s'", open).WithSuggestion("add the missing '" + close + "'")
		}
		tok := p.advance()
		switch {
		case tok.Is(open):
			depth++
		case tok.Is(close):
			depth--
		}
	}
	return nil
}

func isOpen(tok scanner.Token) bool {
	return tok.Is("(") || tok.Is("[") || tok.Is("{")
}

func isClose(tok scanner.Token) bool {
	return tok.Is(")") || tok.Is("]") || tok.Is("}")
}

// Statements

func (p *parser) parseStatement() (ast.Statement, error) {
	start := p.cur()
	if p.accept(";") {
		return nil, nil
	}

	var mods ast.Modifiers
	if p.at("export") {
		next := p.peek(1)
		switch {
		case next.Is("{"), next.Is("*"):
			return p.parseExport(start)
		case next.Is("type") && (p.peek(2).Is("{") || p.peek(2).Is("*")):
			return p.parseExport(start)
		case next.Is("="), next.Is("as"), next.Is("import"):
			// export = x, export as namespace X, export import A = B
			return p.skipStatement(start, "export")
		}
		p.advance()
		mods.Export = true
		if p.accept("default") {
			mods.Default = true
		}
	}
	if p.at("declare") && p.peek(1).Kind == scanner.Identifier && !p.peek(1).NewlineBefore {
		p.advance()
		mods.Declare = true
	}

	next := p.peek(1)
	sameLineName := next.Kind == scanner.Identifier && !next.NewlineBefore
	switch tok := p.cur(); {
	case tok.Is("import") && !next.Is("(") && !next.Is("."):
		return p.parseImport(start)
	case tok.Is("enum"):
		return p.parseEnum(start, mods, false)
	case tok.Is("const") && next.Is("enum"):
		p.advance()
		return p.parseEnum(start, mods, true)
	case tok.Is("interface") && sameLineName:
		return p.parseInterface(start, mods)
	case tok.Is("type") && sameLineName && (p.peek(2).Is("=") || p.peek(2).Is("<")):
		return p.parseTypeAlias(start, mods)
	}
	return p.skipStatement(start, p.cur().Text)
}

// skipStatement consumes one statement the converter does not model. A
// statement ends at a top-level semicolon, at a closing brace followed by a
// line break or a declaration keyword, or before a line that opens with a
// declaration keyword.
func (p *parser) skipStatement(start scanner.Token, keyword string) (ast.Statement, error) {
	depth := 0
	first := true
loop:
	for !p.atEOF() {
		tok := p.cur()
		if !first && depth == 0 && tok.NewlineBefore && tok.Kind == scanner.Identifier && statementStarts[tok.Text] {
			break
		}
		first = false
		p.advance()
		switch {
		case isOpen(tok):
			depth++
		case isClose(tok):
			if depth > 0 {
				depth--
			}
			if depth == 0 && tok.Is("}") {
				next := p.cur()
				if next.Kind == scanner.EOF || next.NewlineBefore ||
					(next.Kind == scanner.Identifier && statementStarts[next.Text]) {
					break loop
				}
			}
		case tok.Is(";") && depth == 0:
			break loop
		}
	}
	return &ast.UnsupportedStatement{Keyword: keyword, Range: p.spanFrom(start)}, nil
}

func (p *parser) parseEnum(start scanner.Token, mods ast.Modifiers, isConst bool) (ast.Statement, error) {
	p.advance() // enum
	name, err := p.expectIdentifier("enum name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}

	decl := &ast.EnumDeclaration{Modifiers: mods, Const: isConst, Name: name.Text}
	for !p.at("}") {
		member, err := p.parseEnumMember()
		if err != nil {
			return nil, err
		}
		decl.Members = append(decl.Members, member)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	decl.Range = p.spanFrom(start)
	return decl, nil
}

func (p *parser) parseEnumMember() (*ast.EnumMember, error) {
	tok := p.cur()
	member := &ast.EnumMember{}
	switch {
	case tok.Kind == scanner.Identifier:
		member.Name = tok.Text
	case tok.Kind == scanner.String:
		member.Name = tok.Value
		member.QuotedName = true
	case tok.Is("["):
		return nil, p.errorAt(tok, "computed enum member names are not supported").
			WithSuggestion("use an identifier or a string literal as the member name")
	default:
		return nil, p.unexpected("enum member name")
	}
	p.advance()

	if p.accept("=") {
		init, err := p.parseInitializer()
		if err != nil {
			return nil, err
		}
		member.Initializer = init
	}
	member.Range = p.spanFrom(tok)
	return member, nil
}

// parseInitializer consumes an enum member initializer up to the next
// top-level comma or the closing brace
func (p *parser) parseInitializer() (*ast.Expression, error) {
	start := p.pos
	depth := 0
	for !p.atEOF() {
		tok := p.cur()
		if depth == 0 && (tok.Is(",") || tok.Is("}")) {
			break
		}
		switch {
		case isOpen(tok):
			depth++
		case isClose(tok) && depth > 0:
			depth--
		}
		p.advance()
	}
	if p.pos == start {
		return nil, p.unexpected("initializer")
	}

	toks := p.tokens[start:p.pos]
	expr := &ast.Expression{Kind: ast.ExpressionOther, Text: p.textFrom(start)}
	expr.Value = expr.Text
	switch {
	case len(toks) == 1 && toks[0].Kind == scanner.String,
		len(toks) == 1 && toks[0].Kind == scanner.Template && !toks[0].HasSubstitutions:
		expr.Kind = ast.ExpressionString
		expr.Text = toks[0].Text
		expr.Value = toks[0].Value
	case len(toks) == 1 && toks[0].Kind == scanner.Number:
		expr.Kind = ast.ExpressionNumber
	case len(toks) == 2 && (toks[0].Is("-") || toks[0].Is("+")) && toks[1].Kind == scanner.Number:
		expr.Kind = ast.ExpressionNumber
		expr.Text = toks[0].Text + toks[1].Text
		expr.Value = expr.Text
	}
	return expr, nil
}

func (p *parser) parseInterface(start scanner.Token, mods ast.Modifiers) (ast.Statement, error) {
	p.advance() // interface
	name, err := p.expectIdentifier("interface name")
	if err != nil {
		return nil, err
	}

	decl := &ast.InterfaceDeclaration{Modifiers: mods, Name: name.Text}
	if p.at("<") {
		if decl.TypeParameters, err = p.parseTypeParameters(); err != nil {
			return nil, err
		}
	}
	if p.accept("extends") {
		for {
			base, err := p.parseTypeReference()
			if err != nil {
				return nil, err
			}
			decl.Extends = append(decl.Extends, base)
			if !p.accept(",") {
				break
			}
		}
	}

	if decl.Members, err = p.parseObjectMembers(); err != nil {
		return nil, err
	}
	decl.Range = p.spanFrom(start)
	return decl, nil
}

func (p *parser) parseTypeAlias(start scanner.Token, mods ast.Modifiers) (ast.Statement, error) {
	p.advance() // type
	name, err := p.expectIdentifier("type name")
	if err != nil {
		return nil, err
	}

	decl := &ast.TypeAliasDeclaration{Modifiers: mods, Name: name.Text}
	if p.at("<") {
		if decl.TypeParameters, err = p.parseTypeParameters(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect("="); err != nil {
		return nil, err
	}
	if decl.Type, err = p.parseType(); err != nil {
		return nil, err
	}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	decl.Range = p.spanFrom(start)
	return decl, nil
}

// parseTypeParameters reads `<T, U extends X = Y>` and returns the names
func (p *parser) parseTypeParameters() ([]string, error) {
	if _, err := p.expect("<"); err != nil {
		return nil, err
	}
	var names []string
	for !p.at(">") {
		for (p.at("const") || p.at("in") || p.at("out")) && p.peek(1).Kind == scanner.Identifier {
			p.advance()
		}
		name, err := p.expectIdentifier("type parameter name")
		if err != nil {
			return nil, err
		}
		names = append(names, name.Text)
		if p.accept("extends") {
			if _, err := p.parseType(); err != nil {
				return nil, err
			}
		}
		if p.accept("=") {
			if _, err := p.parseType(); err != nil {
				return nil, err
			}
		}
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	return names, nil
}

// parseObjectMembers reads the `{ ... }` body of an interface or type literal.
// Only property signatures are returned; method, call, construct, index and
// accessor signatures are consumed and dropped.
func (p *parser) parseObjectMembers() ([]*ast.PropertySignature, error) {
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	var members []*ast.PropertySignature
	for !p.at("}") {
		if p.atEOF() {
			return nil, p.unexpected("'}'")
		}
		if p.accept(";") || p.accept(",") {
			continue
		}
		prop, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		if prop != nil {
			members = append(members, prop)
		}
	}
	p.advance()
	return members, nil
}

func isPropertyNameStart(tok scanner.Token) bool {
	return tok.Kind == scanner.Identifier || tok.Kind == scanner.String || tok.Kind == scanner.Number || tok.Is("[")
}

func (p *parser) parseMember() (*ast.PropertySignature, error) {
	start := p.cur()
	prop := &ast.PropertySignature{}
	for (p.at("readonly") || p.at("public") || p.at("private") || p.at("protected") || p.at("static")) &&
		isPropertyNameStart(p.peek(1)) && !p.peek(1).NewlineBefore {
		if p.advance().Text == "readonly" {
			prop.Readonly = true
		}
	}

	next := p.peek(1)
	switch tok := p.cur(); {
	case tok.Is("["), tok.Is("("), tok.Is("<"):
		p.skipMember()
		return nil, nil
	case tok.Is("new") && (next.Is("(") || next.Is("<")):
		p.skipMember()
		return nil, nil
	case (tok.Is("get") || tok.Is("set")) && isPropertyNameStart(next) && !next.NewlineBefore:
		p.skipMember()
		return nil, nil
	}

	name := p.cur()
	switch name.Kind {
	case scanner.Identifier, scanner.Number:
		prop.Name = name.Text
	case scanner.String:
		prop.Name = name.Value
		prop.QuotedName = true
	default:
		return nil, p.unexpected("property name")
	}
	p.advance()
	prop.Optional = p.accept("?")

	if p.at("(") || p.at("<") {
		p.skipMember()
		return nil, nil
	}
	if p.accept(":") {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		prop.Type = typ
	}
	prop.Range = p.spanFrom(start)

	if tok := p.cur(); !(tok.Is(";") || tok.Is(",") || tok.Is("}") || tok.NewlineBefore) {
		return nil, p.unexpected("';'")
	}
	return prop, nil
}

// skipMember consumes a member signature the converter ignores
func (p *parser) skipMember() {
	depth := 0
	first := true
	for !p.atEOF() {
		tok := p.cur()
		if depth == 0 {
			if tok.Is("}") {
				return
			}
			if !first && tok.NewlineBefore && !continuations[p.tokens[p.pos-1].Text] {
				return
			}
		}
		first = false
		p.advance()
		switch {
		case isOpen(tok):
			depth++
		case isClose(tok):
			depth--
		case depth == 0 && (tok.Is(";") || tok.Is(",")):
			return
		}
	}
}

// Imports and exports

func (p *parser) parseImport(start scanner.Token) (ast.Statement, error) {
	p.advance() // import
	decl := &ast.ImportDeclaration{}

	if p.cur().Kind == scanner.String {
		decl.ModuleSpecifier = p.advance().Value
		return p.finishImport(start, decl)
	}

	if p.at("type") && !p.peek(1).Is("from") && !p.peek(1).Is(",") && !p.peek(1).Is("=") {
		p.advance()
		decl.TypeOnly = true
	}
	if p.cur().Kind == scanner.Identifier && p.peek(1).Is("=") {
		// import x = require("y")
		return p.skipStatement(start, "import")
	}

	hasBindings := true
	if p.cur().Kind == scanner.Identifier {
		decl.Default = p.advance().Text
		hasBindings = p.accept(",")
	}
	if hasBindings {
		switch {
		case p.accept("*"):
			if _, err := p.expect("as"); err != nil {
				return nil, err
			}
			ns, err := p.expectIdentifier("namespace name")
			if err != nil {
				return nil, err
			}
			decl.Namespace = ns.Text
		case p.at("{"):
			specs, err := p.parseSpecifiers()
			if err != nil {
				return nil, err
			}
			decl.Specifiers = specs
		default:
			return nil, p.unexpected("import bindings")
		}
	}

	if _, err := p.expect("from"); err != nil {
		return nil, err
	}
	module := p.cur()
	if module.Kind != scanner.String {
		return nil, p.unexpected("module specifier")
	}
	p.advance()
	decl.ModuleSpecifier = module.Value
	return p.finishImport(start, decl)
}

func (p *parser) finishImport(start scanner.Token, decl *ast.ImportDeclaration) (ast.Statement, error) {
	if err := p.skipImportAttributes(); err != nil {
		return nil, err
	}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	decl.Range = p.spanFrom(start)
	return decl, nil
}

// skipImportAttributes consumes `with { type: "json" }` or the older `assert { ... }`
func (p *parser) skipImportAttributes() error {
	if (p.at("with") || p.at("assert")) && p.peek(1).Is("{") && !p.cur().NewlineBefore {
		p.advance()
		return p.skipBalanced("{", "}")
	}
	return nil
}

func (p *parser) parseSpecifiers() ([]ast.ImportSpecifier, error) {
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	var specs []ast.ImportSpecifier
	for !p.at("}") {
		var spec ast.ImportSpecifier
		if p.at("type") {
			if next := p.peek(1); (next.Kind == scanner.Identifier || next.Kind == scanner.String) && !next.Is("as") {
				p.advance()
				spec.TypeOnly = true
			}
		}

		name := p.cur()
		if name.Kind != scanner.Identifier && name.Kind != scanner.String {
			return nil, p.unexpected("binding name")
		}
		p.advance()
		spec.Name = name.Value
		spec.Alias = name.Value

		if p.accept("as") {
			alias := p.cur()
			if alias.Kind != scanner.Identifier && alias.Kind != scanner.String {
				return nil, p.unexpected("alias name")
			}
			p.advance()
			spec.Alias = alias.Value
		}
		specs = append(specs, spec)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return specs, nil
}

func (p *parser) parseExport(start scanner.Token) (ast.Statement, error) {
	p.advance() // export
	decl := &ast.ExportDeclaration{}
	if p.accept("type") {
		decl.TypeOnly = true
	}

	if p.accept("*") {
		decl.All = true
		if p.accept("as") {
			ns := p.cur()
			if ns.Kind != scanner.Identifier && ns.Kind != scanner.String {
				return nil, p.unexpected("namespace name")
			}
			p.advance()
			decl.Namespace = ns.Value
		}
		if _, err := p.expect("from"); err != nil {
			return nil, err
		}
	} else {
		specs, err := p.parseSpecifiers()
		if err != nil {
			return nil, err
		}
		decl.Specifiers = specs
		if !p.accept("from") {
			if err := p.endStatement(); err != nil {
				return nil, err
			}
			decl.Range = p.spanFrom(start)
			return decl, nil
		}
	}

	module := p.cur()
	if module.Kind != scanner.String {
		return nil, p.unexpected("module specifier")
	}
	p.advance()
	decl.ModuleSpecifier = module.Value

	if err := p.skipImportAttributes(); err != nil {
		return nil, err
	}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	decl.Range = p.spanFrom(start)
	return decl, nil
}
