//go:build cgo && treesitter

package parser

import (
	"context"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/ts/ast"
	"github.com/teranos/ts2swift/ts/scanner"
)

// TreeSitterAvailable reports whether BackendTreeSitter is compiled in
const TreeSitterAvailable = true

// parseTreeSitter builds the same syntax tree as Parse from the
// tree-sitter TypeScript grammar
func parseTreeSitter(fileName, src string) (*ast.SourceFile, error) {
	// Lexical errors are reported by the scanner so both backends agree on them
	if _, err := scanner.Tokenize(src); err != nil {
		return nil, lexicalError(fileName, src, err)
	}

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(typescript.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		return nil, errors.WrapParse(err, fileName)
	}
	defer tree.Close()

	c := &cstConverter{fileName: fileName, src: src, input: []byte(src)}
	root := tree.RootNode()
	if root.HasError() {
		return nil, c.syntaxError(root)
	}

	file := &ast.SourceFile{FileName: fileName, Text: src}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt, err := c.statement(root.NamedChild(i))
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			file.Statements = append(file.Statements, stmt)
		}
	}
	return file, nil
}

// cstConverter maps tree-sitter nodes onto ast nodes
type cstConverter struct {
	fileName string
	src      string
	input    []byte
}

func (c *cstConverter) text(n *sitter.Node) string {
	return n.Content(c.input)
}

// collapsed is the node text with runs of whitespace folded to one space
func (c *cstConverter) collapsed(n *sitter.Node) string {
	return strings.Join(strings.Fields(c.text(n)), " ")
}

func (c *cstConverter) position(offset uint32, point sitter.Point) scanner.Position {
	lineStart := int(offset) - int(point.Column)
	return scanner.Position{
		Line:      int(point.Row) + 1,
		Character: utf8.RuneCountInString(c.src[lineStart:offset]),
		Offset:    int(offset),
	}
}

func (c *cstConverter) span(from, to *sitter.Node) scanner.Range {
	return scanner.Range{
		Start: c.position(from.StartByte(), from.StartPoint()),
		End:   c.position(to.EndByte(), to.EndPoint()),
	}
}

// syntaxError reports the first error or missing node below n
func (c *cstConverter) syntaxError(n *sitter.Node) error {
	bad := firstErrorNode(n)
	if bad == nil {
		bad = n
	}
	msg := "unexpected " + strings.TrimSpace(c.text(bad))
	if bad.IsMissing() {
		msg = "missing " + bad.Type()
	} else if bad.EndByte() == bad.StartByte() {
		msg = "unexpected end of input"
	}
	return NewParseError(ErrorKindSyntax, msg).
		WithFile(c.fileName).
		WithRange(c.span(bad, bad)).
		WithSource(c.src)
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			if bad := firstErrorNode(child); bad != nil {
				return bad
			}
		}
	}
	return nil
}

// hasToken reports whether n has a direct anonymous child spelled tok
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.IsNamed() && child.Type() == tok {
			return true
		}
	}
	return false
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for _, child := range namedChildren(n) {
		if child.Type() == typ {
			return child
		}
	}
	return nil
}

// Statements

func (c *cstConverter) statement(n *sitter.Node) (ast.Statement, error) {
	switch n.Type() {
	case "comment", "empty_statement", "hash_bang_line":
		return nil, nil
	case "import_statement":
		return c.importStatement(n)
	case "export_statement":
		return c.exportStatement(n)
	}
	return c.declaration(n, n, ast.Modifiers{})
}

// declaration converts n, wrapped by outer for range purposes
func (c *cstConverter) declaration(outer, n *sitter.Node, mods ast.Modifiers) (ast.Statement, error) {
	switch n.Type() {
	case "ambient_declaration":
		mods.Declare = true
		for _, child := range namedChildren(n) {
			if child.Type() != "comment" {
				return c.declaration(outer, child, mods)
			}
		}
	case "enum_declaration":
		return c.enum(outer, n, mods)
	case "interface_declaration":
		return c.interfaceDecl(outer, n, mods)
	case "type_alias_declaration":
		return c.typeAlias(outer, n, mods)
	}
	return &ast.UnsupportedStatement{Keyword: firstToken(n, c.input), Range: c.span(outer, outer)}, nil
}

func firstToken(n *sitter.Node, input []byte) string {
	for n.ChildCount() > 0 {
		n = n.Child(0)
	}
	return n.Content(input)
}

func (c *cstConverter) enum(outer, n *sitter.Node, mods ast.Modifiers) (ast.Statement, error) {
	decl := &ast.EnumDeclaration{
		Modifiers: mods,
		Const:     hasToken(n, "const"),
		Name:      c.text(n.ChildByFieldName("name")),
	}
	body := n.ChildByFieldName("body")
	for _, m := range namedChildren(body) {
		member := &ast.EnumMember{Range: c.span(m, m)}
		name := m
		if m.Type() == "enum_assignment" {
			name = m.ChildByFieldName("name")
			member.Initializer = c.initializer(m.ChildByFieldName("value"))
		}
		switch name.Type() {
		case "comment":
			continue
		case "property_identifier", "number":
			member.Name = c.text(name)
		case "string":
			member.Name = c.stringValue(name)
			member.QuotedName = true
		case "computed_property_name":
			return nil, NewParseError(ErrorKindSyntax, "computed enum member names are not supported").
				WithFile(c.fileName).
				WithRange(c.span(name, name)).
				WithSource(c.src).
				WithSuggestion("use an identifier or a string literal as the member name")
		default:
			return nil, c.syntaxError(name)
		}
		decl.Members = append(decl.Members, member)
	}
	decl.Range = c.span(outer, n)
	return decl, nil
}

func (c *cstConverter) initializer(n *sitter.Node) *ast.Expression {
	expr := &ast.Expression{Kind: ast.ExpressionOther, Text: c.collapsed(n)}
	expr.Value = expr.Text
	switch n.Type() {
	case "string":
		expr.Kind = ast.ExpressionString
		expr.Text = c.text(n)
		expr.Value = c.stringValue(n)
	case "template_string":
		if childOfType(n, "template_substitution") == nil {
			expr.Kind = ast.ExpressionString
			expr.Text = c.text(n)
			expr.Value = c.stringValue(n)
		}
	case "number":
		expr.Kind = ast.ExpressionNumber
	case "unary_expression":
		arg := n.ChildByFieldName("argument")
		op := n.ChildByFieldName("operator")
		if arg != nil && op != nil && arg.Type() == "number" && (c.text(op) == "-" || c.text(op) == "+") {
			expr.Kind = ast.ExpressionNumber
			expr.Text = c.text(op) + c.text(arg)
			expr.Value = expr.Text
		}
	}
	return expr
}

// stringValue decodes a string or template literal node with the scanner,
// so escapes follow the same rules as the native backend
func (c *cstConverter) stringValue(n *sitter.Node) string {
	toks, err := scanner.Tokenize(c.text(n))
	if err != nil || len(toks) == 0 {
		return c.text(n)
	}
	return toks[0].Value
}

func (c *cstConverter) interfaceDecl(outer, n *sitter.Node, mods ast.Modifiers) (ast.Statement, error) {
	decl := &ast.InterfaceDeclaration{
		Modifiers:      mods,
		Name:           c.text(n.ChildByFieldName("name")),
		TypeParameters: c.typeParameters(n.ChildByFieldName("type_parameters")),
	}
	if ext := childOfType(n, "extends_type_clause"); ext != nil {
		for _, base := range namedChildren(ext) {
			if base.Type() != "comment" {
				decl.Extends = append(decl.Extends, c.typeNode(base))
			}
		}
	}
	decl.Members = c.objectMembers(n.ChildByFieldName("body"))
	decl.Range = c.span(outer, n)
	return decl, nil
}

func (c *cstConverter) typeAlias(outer, n *sitter.Node, mods ast.Modifiers) (ast.Statement, error) {
	decl := &ast.TypeAliasDeclaration{
		Modifiers:      mods,
		Name:           c.text(n.ChildByFieldName("name")),
		TypeParameters: c.typeParameters(n.ChildByFieldName("type_parameters")),
		Type:           c.typeNode(n.ChildByFieldName("value")),
	}
	decl.Range = c.span(outer, n)
	return decl, nil
}

func (c *cstConverter) typeParameters(n *sitter.Node) []string {
	if n == nil {
		return nil
	}
	var names []string
	for _, param := range namedChildren(n) {
		if param.Type() == "type_parameter" {
			names = append(names, c.text(param.ChildByFieldName("name")))
		}
	}
	return names
}

// objectMembers keeps the property signatures of an interface body or
// object type. Methods, call, construct and index signatures are dropped.
func (c *cstConverter) objectMembers(body *sitter.Node) []*ast.PropertySignature {
	if body == nil {
		return nil
	}
	var members []*ast.PropertySignature
	for _, m := range namedChildren(body) {
		if m.Type() != "property_signature" {
			continue
		}
		name := m.ChildByFieldName("name")
		prop := &ast.PropertySignature{
			Readonly: hasToken(m, "readonly"),
			Optional: hasToken(m, "?"),
			Range:    c.span(m, m),
		}
		switch name.Type() {
		case "string":
			prop.Name = c.stringValue(name)
			prop.QuotedName = true
		case "computed_property_name":
			continue
		default:
			prop.Name = c.text(name)
		}
		if ann := m.ChildByFieldName("type"); ann != nil {
			for _, t := range namedChildren(ann) {
				if t.Type() != "comment" {
					prop.Type = c.typeNode(t)
					break
				}
			}
		}
		members = append(members, prop)
	}
	return members
}

// Imports and exports

func (c *cstConverter) importStatement(n *sitter.Node) (ast.Statement, error) {
	if childOfType(n, "import_require_clause") != nil {
		return &ast.UnsupportedStatement{Keyword: "import", Range: c.span(n, n)}, nil
	}
	decl := &ast.ImportDeclaration{TypeOnly: hasToken(n, "type"), Range: c.span(n, n)}
	if source := n.ChildByFieldName("source"); source != nil {
		decl.ModuleSpecifier = c.stringValue(source)
	}
	clause := childOfType(n, "import_clause")
	if clause == nil {
		return decl, nil
	}
	for _, part := range namedChildren(clause) {
		switch part.Type() {
		case "identifier":
			decl.Default = c.text(part)
		case "namespace_import":
			if id := childOfType(part, "identifier"); id != nil {
				decl.Namespace = c.text(id)
			}
		case "named_imports":
			decl.Specifiers = c.specifiers(part, "import_specifier")
		}
	}
	return decl, nil
}

func (c *cstConverter) specifiers(list *sitter.Node, typ string) []ast.ImportSpecifier {
	var specs []ast.ImportSpecifier
	for _, s := range namedChildren(list) {
		if s.Type() != typ {
			continue
		}
		spec := ast.ImportSpecifier{TypeOnly: hasToken(s, "type")}
		spec.Name = c.bindingName(s.ChildByFieldName("name"))
		spec.Alias = spec.Name
		if alias := s.ChildByFieldName("alias"); alias != nil {
			spec.Alias = c.bindingName(alias)
		}
		specs = append(specs, spec)
	}
	return specs
}

func (c *cstConverter) bindingName(n *sitter.Node) string {
	if n.Type() == "string" {
		return c.stringValue(n)
	}
	return c.text(n)
}

func (c *cstConverter) exportStatement(n *sitter.Node) (ast.Statement, error) {
	if inner := n.ChildByFieldName("declaration"); inner != nil {
		mods := ast.Modifiers{Export: true, Default: hasToken(n, "default")}
		return c.declaration(n, inner, mods)
	}

	source := n.ChildByFieldName("source")
	clause := childOfType(n, "export_clause")
	all := hasToken(n, "*")
	ns := childOfType(n, "namespace_export")
	if clause == nil && !all && ns == nil {
		// export default expr, export = x, export as namespace X
		return &ast.UnsupportedStatement{Keyword: "export", Range: c.span(n, n)}, nil
	}

	decl := &ast.ExportDeclaration{TypeOnly: hasToken(n, "type"), Range: c.span(n, n)}
	if clause != nil {
		decl.Specifiers = c.specifiers(clause, "export_specifier")
	}
	if ns != nil {
		decl.All = true
		for _, part := range namedChildren(ns) {
			decl.Namespace = c.bindingName(part)
		}
	}
	if all {
		decl.All = true
	}
	if source != nil {
		decl.ModuleSpecifier = c.stringValue(source)
	}
	return decl, nil
}

// Types

func (c *cstConverter) typeNode(n *sitter.Node) ast.TypeNode {
	switch n.Type() {
	case "predefined_type", "this_type":
		return &ast.KeywordType{Keyword: c.text(n)}
	case "type_identifier":
		if keywordTypes[c.text(n)] {
			return &ast.KeywordType{Keyword: c.text(n)}
		}
		return &ast.TypeReference{Name: c.text(n)}
	case "nested_type_identifier":
		return &ast.TypeReference{Name: strings.Join(strings.Fields(c.text(n)), "")}
	case "generic_type":
		ref := &ast.TypeReference{Name: strings.Join(strings.Fields(c.text(n.ChildByFieldName("name"))), "")}
		for _, arg := range namedChildren(n.ChildByFieldName("type_arguments")) {
			if arg.Type() != "comment" {
				ref.TypeArguments = append(ref.TypeArguments, c.typeNode(arg))
			}
		}
		return ref
	case "literal_type":
		return c.literalType(n)
	case "template_literal_type":
		if childOfType(n, "template_type") == nil {
			return &ast.LiteralType{Kind: ast.LiteralString, Text: c.text(n), Value: c.stringValue(n)}
		}
	case "array_type":
		return &ast.ArrayType{Element: c.typeNode(n.NamedChild(0))}
	case "lookup_type":
		parts := namedChildren(n)
		if len(parts) == 2 {
			return &ast.IndexedAccessType{Object: c.typeNode(parts[0]), Index: c.typeNode(parts[1])}
		}
	case "union_type":
		if types := c.flatten(n, "union_type"); len(types) > 1 {
			return &ast.UnionType{Types: types}
		} else if len(types) == 1 {
			return types[0]
		}
	case "intersection_type":
		if types := c.flatten(n, "intersection_type"); len(types) > 1 {
			return &ast.IntersectionType{Types: types}
		} else if len(types) == 1 {
			return types[0]
		}
	case "parenthesized_type":
		return &ast.ParenthesizedType{Type: c.typeNode(n.NamedChild(0))}
	case "readonly_type":
		return &ast.TypeOperator{Operator: "readonly", Type: c.typeNode(n.NamedChild(0))}
	case "index_type_query":
		return &ast.TypeOperator{Operator: "keyof", Type: c.typeNode(n.NamedChild(0))}
	case "object_type":
		if !containsType(n, "mapped_type_clause") {
			return &ast.TypeLiteral{Members: c.objectMembers(n)}
		}
	case "tuple_type":
		tuple := &ast.TupleType{}
		for _, elem := range namedChildren(n) {
			switch elem.Type() {
			case "comment":
			case "optional_type", "rest_type", "tuple_parameter", "optional_tuple_parameter":
				tuple.Elements = append(tuple.Elements, &ast.OpaqueType{Text: c.collapsed(elem)})
			default:
				tuple.Elements = append(tuple.Elements, c.typeNode(elem))
			}
		}
		return tuple
	}
	return &ast.OpaqueType{Text: c.collapsed(n)}
}

// flatten collects the operands of a left-nested union or intersection
func (c *cstConverter) flatten(n *sitter.Node, typ string) []ast.TypeNode {
	var out []ast.TypeNode
	for _, part := range namedChildren(n) {
		switch part.Type() {
		case "comment":
		case typ:
			out = append(out, c.flatten(part, typ)...)
		default:
			out = append(out, c.typeNode(part))
		}
	}
	return out
}

func (c *cstConverter) literalType(n *sitter.Node) ast.TypeNode {
	lit := n.NamedChild(0)
	if lit == nil {
		lit = n.Child(0)
	}
	text := c.text(n)
	switch lit.Type() {
	case "null", "undefined":
		return &ast.KeywordType{Keyword: lit.Type()}
	case "true", "false":
		return &ast.LiteralType{Kind: ast.LiteralBoolean, Text: text, Value: text}
	case "string":
		return &ast.LiteralType{Kind: ast.LiteralString, Text: text, Value: c.stringValue(lit)}
	case "number", "unary_expression":
		text = strings.Join(strings.Fields(text), "")
		return &ast.LiteralType{Kind: ast.LiteralNumber, Text: text, Value: text}
	}
	return &ast.OpaqueType{Text: c.collapsed(n)}
}

func containsType(n *sitter.Node, typ string) bool {
	for _, child := range namedChildren(n) {
		if child.Type() == typ || containsType(child, typ) {
			return true
		}
	}
	return false
}
