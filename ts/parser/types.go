package parser

import (
	"github.com/teranos/ts2swift/ts/ast"
	"github.com/teranos/ts2swift/ts/scanner"
)

// parseType reads a full type expression, including function and
// conditional types
func (p *parser) parseType() (ast.TypeNode, error) {
	start := p.pos
	if p.isStartOfFunctionType() {
		if err := p.skipFunctionType(); err != nil {
			return nil, err
		}
		return p.opaqueFrom(start), nil
	}

	t, err := p.parseUnionType()
	if err != nil {
		return nil, err
	}
	if p.at("extends") && !p.cur().NewlineBefore {
		p.advance()
		if _, err := p.parseUnionType(); err != nil {
			return nil, err
		}
		if _, err := p.expect("?"); err != nil {
			return nil, err
		}
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
		return p.opaqueFrom(start), nil
	}
	return t, nil
}

func (p *parser) isStartOfFunctionType() bool {
	tok := p.cur()
	switch {
	case tok.Is("<"), tok.Is("new"):
		return true
	case tok.Is("abstract"):
		return p.peek(1).Is("new")
	case !tok.Is("("):
		return false
	}

	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		t := p.tokens[i]
		switch {
		case t.Kind == scanner.EOF:
			return false
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Is("=>")
			}
		}
	}
	return false
}

func (p *parser) skipFunctionType() error {
	p.accept("abstract")
	p.accept("new")
	if p.at("<") {
		if err := p.skipBalanced("<", ">"); err != nil {
			return err
		}
	}
	if err := p.skipBalanced("(", ")"); err != nil {
		return err
	}
	if _, err := p.expect("=>"); err != nil {
		return err
	}
	return p.skipReturnType()
}

// skipReturnType reads a return type, allowing `x is T` and `asserts x` predicates
func (p *parser) skipReturnType() error {
	asserts := false
	if p.at("asserts") && p.peek(1).Kind == scanner.Identifier && !p.peek(1).NewlineBefore {
		p.advance()
		asserts = true
	}
	if p.cur().Kind == scanner.Identifier && p.peek(1).Is("is") {
		p.advance()
		p.advance()
	} else if asserts {
		p.advance()
		return nil
	}
	_, err := p.parseType()
	return err
}

func (p *parser) parseUnionType() (ast.TypeNode, error) {
	p.accept("|")
	first, err := p.parseIntersectionType()
	if err != nil {
		return nil, err
	}
	if !p.at("|") {
		return first, nil
	}

	union := &ast.UnionType{Types: []ast.TypeNode{first}}
	for p.accept("|") {
		t, err := p.parseIntersectionType()
		if err != nil {
			return nil, err
		}
		union.Types = append(union.Types, t)
	}
	return union, nil
}

func (p *parser) parseIntersectionType() (ast.TypeNode, error) {
	p.accept("&")
	first, err := p.parseTypeOperator()
	if err != nil {
		return nil, err
	}
	if !p.at("&") {
		return first, nil
	}

	inter := &ast.IntersectionType{Types: []ast.TypeNode{first}}
	for p.accept("&") {
		t, err := p.parseTypeOperator()
		if err != nil {
			return nil, err
		}
		inter.Types = append(inter.Types, t)
	}
	return inter, nil
}

func (p *parser) parseTypeOperator() (ast.TypeNode, error) {
	switch {
	case p.at("keyof"), p.at("unique"), p.at("readonly"):
		op := p.advance().Text
		t, err := p.parseTypeOperator()
		if err != nil {
			return nil, err
		}
		return &ast.TypeOperator{Operator: op, Type: t}, nil
	case p.at("infer") && p.peek(1).Kind == scanner.Identifier:
		start := p.pos
		p.advance()
		p.advance()
		return p.opaqueFrom(start), nil
	}
	return p.parsePostfixType()
}

func (p *parser) parsePostfixType() (ast.TypeNode, error) {
	t, err := p.parsePrimaryType()
	if err != nil {
		return nil, err
	}
	for p.at("[") && !p.cur().NewlineBefore {
		p.advance()
		if p.accept("]") {
			t = &ast.ArrayType{Element: t}
			continue
		}
		index, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
		t = &ast.IndexedAccessType{Object: t, Index: index}
	}
	return t, nil
}

func (p *parser) parsePrimaryType() (ast.TypeNode, error) {
	tok := p.cur()
	start := p.pos

	switch tok.Kind {
	case scanner.String:
		p.advance()
		return &ast.LiteralType{Kind: ast.LiteralString, Text: tok.Text, Value: tok.Value}, nil
	case scanner.Template:
		p.advance()
		if tok.HasSubstitutions {
			return &ast.OpaqueType{Text: tok.Text}, nil
		}
		return &ast.LiteralType{Kind: ast.LiteralString, Text: tok.Text, Value: tok.Value}, nil
	case scanner.Number:
		p.advance()
		return &ast.LiteralType{Kind: ast.LiteralNumber, Text: tok.Text, Value: tok.Text}, nil
	case scanner.Identifier:
		switch tok.Text {
		case "true", "false":
			p.advance()
			return &ast.LiteralType{Kind: ast.LiteralBoolean, Text: tok.Text, Value: tok.Text}, nil
		case "typeof":
			return p.parseTypeQuery()
		case "import":
			if p.peek(1).Is("(") {
				return p.parseImportType()
			}
		}
		if keywordTypes[tok.Text] && !p.peek(1).Is(".") {
			p.advance()
			return &ast.KeywordType{Keyword: tok.Text}, nil
		}
		ref, err := p.parseTypeReference()
		if err != nil {
			return nil, err
		}
		return ref, nil
	}

	switch {
	case tok.Is("-") && p.peek(1).Kind == scanner.Number:
		p.advance()
		text := "-" + p.advance().Text
		return &ast.LiteralType{Kind: ast.LiteralNumber, Text: text, Value: text}, nil
	case tok.Is("("):
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return &ast.ParenthesizedType{Type: inner}, nil
	case tok.Is("{"):
		if p.isStartOfMappedType() {
			if err := p.skipBalanced("{", "}"); err != nil {
				return nil, err
			}
			return p.opaqueFrom(start), nil
		}
		members, err := p.parseObjectMembers()
		if err != nil {
			return nil, err
		}
		return &ast.TypeLiteral{Members: members}, nil
	case tok.Is("["):
		return p.parseTupleType()
	}
	return nil, p.unexpected("type")
}

// isStartOfMappedType detects `{ [K in T]: ... }` with optional readonly modifiers
func (p *parser) isStartOfMappedType() bool {
	i := 1
	if p.peek(i).Is("+") || p.peek(i).Is("-") {
		i++
	}
	if p.peek(i).Is("readonly") {
		i++
	}
	return p.peek(i).Is("[") && p.peek(i+1).Kind == scanner.Identifier && p.peek(i+2).Is("in")
}

// parseTypeReference reads a dotted name with optional type arguments
func (p *parser) parseTypeReference() (*ast.TypeReference, error) {
	name, err := p.expectIdentifier("type name")
	if err != nil {
		return nil, err
	}
	ref := &ast.TypeReference{Name: name.Text}
	for p.at(".") && p.peek(1).Kind == scanner.Identifier {
		p.advance()
		ref.Name += "." + p.advance().Text
	}
	if p.at("<") && !p.cur().NewlineBefore {
		if ref.TypeArguments, err = p.parseTypeArguments(); err != nil {
			return nil, err
		}
	}
	return ref, nil
}

func (p *parser) parseTypeArguments() ([]ast.TypeNode, error) {
	if _, err := p.expect("<"); err != nil {
		return nil, err
	}
	var args []ast.TypeNode
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseTypeQuery reads `typeof x.y<T>` as an opaque type
func (p *parser) parseTypeQuery() (ast.TypeNode, error) {
	start := p.pos
	p.advance() // typeof
	if p.at("import") && p.peek(1).Is("(") {
		if _, err := p.parseImportType(); err != nil {
			return nil, err
		}
		return p.opaqueFrom(start), nil
	}
	if _, err := p.parseTypeReference(); err != nil {
		return nil, err
	}
	return p.opaqueFrom(start), nil
}

// parseImportType reads `import("./mod").Name<T>` as an opaque type
func (p *parser) parseImportType() (ast.TypeNode, error) {
	start := p.pos
	p.advance() // import
	if err := p.skipBalanced("(", ")"); err != nil {
		return nil, err
	}
	for p.at(".") && p.peek(1).Kind == scanner.Identifier {
		p.advance()
		p.advance()
	}
	if p.at("<") && !p.cur().NewlineBefore {
		if _, err := p.parseTypeArguments(); err != nil {
			return nil, err
		}
	}
	return p.opaqueFrom(start), nil
}

// parseTupleType reads `[A, B?, ...C[]]`. Elements that are not plain
// types (named, optional or rest elements) are kept as source text.
func (p *parser) parseTupleType() (ast.TypeNode, error) {
	p.advance() // [
	tuple := &ast.TupleType{}
	for !p.at("]") {
		start := p.pos
		plain := true
		if p.accept("...") {
			plain = false
		}
		if p.cur().Kind == scanner.Identifier &&
			(p.peek(1).Is(":") || (p.peek(1).Is("?") && p.peek(2).Is(":"))) {
			p.advance()
			p.accept("?")
			p.advance() // :
			plain = false
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.accept("?") {
			plain = false
		}
		if !plain {
			elem = p.opaqueFrom(start)
		}
		tuple.Elements = append(tuple.Elements, elem)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect("]"); err != nil {
		return nil, err
	}
	return tuple, nil
}
