// Package checker binds the declarations of a TypeScript program and
// computes the types of type annotations.
//
// A Checker is built once per Program and passed explicitly to everything
// that inspects types. It caches as it goes and is not safe for concurrent
// use; concurrent conversions each build their own Program. It understands the
// subset of the type system needed to map declarations to other languages:
// primitives, literals, enums and their members, interfaces, type aliases
// (including generic ones), arrays, tuples, unions and intersections, and
// indexed access into interfaces. Everything else is kept as display text.
package checker

import (
	"strings"

	"github.com/teranos/ts2swift/ts/ast"
)

// Checker is the binding context of a Program
type Checker struct {
	opts    Options
	scopes  map[*ast.SourceFile]*scope
	modules map[string]*scope
	globals map[string]*Symbol

	enumTypes map[*Symbol]*Type
	resolving map[string]bool

	anyType       *Type
	unknownType   *Type
	stringType    *Type
	numberType    *Type
	booleanType   *Type
	bigintType    *Type
	symbolType    *Type
	voidType      *Type
	undefinedType *Type
	nullType      *Type
	neverType     *Type
	objectType    *Type
	trueType      *Type
	falseType     *Type
}

func newChecker(opts Options) *Checker {
	hasArray := false
	for _, name := range opts.ArrayTypes {
		if name == "Array" {
			hasArray = true
		}
	}
	if !hasArray {
		opts.ArrayTypes = append([]string{"Array"}, opts.ArrayTypes...)
	}

	c := &Checker{
		opts:      opts,
		scopes:    map[*ast.SourceFile]*scope{},
		modules:   map[string]*scope{},
		globals:   map[string]*Symbol{},
		enumTypes: map[*Symbol]*Type{},
		resolving: map[string]bool{},
	}
	c.anyType = c.newIntrinsic(TypeFlagsAny, "any")
	c.unknownType = c.newIntrinsic(TypeFlagsUnknown, "unknown")
	c.stringType = c.newIntrinsic(TypeFlagsString, "string")
	c.numberType = c.newIntrinsic(TypeFlagsNumber, "number")
	c.booleanType = c.newIntrinsic(TypeFlagsBoolean, "boolean")
	c.bigintType = c.newIntrinsic(TypeFlagsBigInt, "bigint")
	c.symbolType = c.newIntrinsic(TypeFlagsESSymbol, "symbol")
	c.voidType = c.newIntrinsic(TypeFlagsVoid, "void")
	c.undefinedType = c.newIntrinsic(TypeFlagsUndefined, "undefined")
	c.nullType = c.newIntrinsic(TypeFlagsNull, "null")
	c.neverType = c.newIntrinsic(TypeFlagsNever, "never")
	c.objectType = c.newIntrinsic(TypeFlagsNonPrimitive, "object")
	c.trueType = &Type{Flags: TypeFlagsBooleanLiteral, Value: "true", text: "true"}
	c.falseType = &Type{Flags: TypeFlagsBooleanLiteral, Value: "false", text: "false"}
	return c
}

func (c *Checker) globalSymbol(name string) *Symbol {
	if sym, ok := c.globals[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name, Kind: SymbolGlobal}
	c.globals[name] = sym
	return sym
}

func (c *Checker) scopeOf(file *ast.SourceFile) *scope {
	if s, ok := c.scopes[file]; ok {
		return s
	}
	return newScope(file)
}

// TypeAtLocation returns the type written by node in file
func (c *Checker) TypeAtLocation(file *ast.SourceFile, node ast.TypeNode) *Type {
	return c.typeFromNode(c.scopeOf(file), node, nil)
}

// TypeToString returns the display text of t: the alias it was written
// through if any, otherwise its structural form
func (c *Checker) TypeToString(t *Type) string {
	if t == nil {
		return "any"
	}
	return t.String()
}

// IsArrayType reports whether t is a reference to one of the configured
// array-like generics with exactly one type argument
func (c *Checker) IsArrayType(t *Type) bool {
	if t == nil || t.ObjectFlags&ObjectFlagsReference == 0 || t.Target == nil || len(t.TypeArguments) != 1 {
		return false
	}
	for _, name := range c.opts.ArrayTypes {
		if t.Target.Name == name {
			return true
		}
	}
	return false
}

// TypeArguments returns the type arguments of a type reference
func (c *Checker) TypeArguments(t *Type) []*Type {
	if t == nil {
		return nil
	}
	return t.TypeArguments
}

// ResolveName returns the symbol a possibly qualified name refers to in
// file, following imports and re-exports, or nil
func (c *Checker) ResolveName(file *ast.SourceFile, name string) *Symbol {
	return c.resolveEntityName(c.scopeOf(file), name)
}

type typeEnv map[string]*Type

func (c *Checker) typeFromNode(s *scope, node ast.TypeNode, env typeEnv) *Type {
	switch n := node.(type) {
	case nil:
		return c.anyType
	case *ast.KeywordType:
		return c.keywordType(n.Keyword)
	case *ast.LiteralType:
		switch n.Kind {
		case ast.LiteralString:
			return c.stringLiteral(n.Value)
		case ast.LiteralNumber:
			return c.numberLiteral(n.Text)
		default:
			if n.Value == "true" {
				return c.trueType
			}
			return c.falseType
		}
	case *ast.TypeReference:
		return c.typeFromReference(s, n, env)
	case *ast.ArrayType:
		return c.arrayType("Array", c.typeFromNode(s, n.Element, env))
	case *ast.UnionType:
		return c.unionType(c.typesFromNodes(s, n.Types, env))
	case *ast.IntersectionType:
		return c.intersectionType(c.typesFromNodes(s, n.Types, env))
	case *ast.ParenthesizedType:
		return c.typeFromNode(s, n.Type, env)
	case *ast.TypeOperator:
		return c.typeFromOperator(s, n, env)
	case *ast.TypeLiteral:
		return &Type{
			Flags:       TypeFlagsObject,
			ObjectFlags: ObjectFlagsAnonymous,
			text:        ast.TypeString(n),
			literal:     n,
			scope:       s,
		}
	case *ast.TupleType:
		elems, texts := c.tupleElements(s, n, env)
		return c.tupleType(elems, texts, false)
	case *ast.IndexedAccessType:
		return c.indexedAccess(s, n, env)
	case *ast.OpaqueType:
		return c.opaque(n.Text)
	}
	return c.anyType
}

func (c *Checker) typesFromNodes(s *scope, nodes []ast.TypeNode, env typeEnv) []*Type {
	types := make([]*Type, len(nodes))
	for i, n := range nodes {
		types[i] = c.typeFromNode(s, n, env)
	}
	return types
}

func (c *Checker) keywordType(keyword string) *Type {
	switch keyword {
	case "any":
		return c.anyType
	case "unknown":
		return c.unknownType
	case "string":
		return c.stringType
	case "number":
		return c.numberType
	case "boolean":
		return c.booleanType
	case "bigint":
		return c.bigintType
	case "symbol":
		return c.symbolType
	case "void":
		return c.voidType
	case "undefined":
		return c.undefinedType
	case "null":
		return c.nullType
	case "never":
		return c.neverType
	case "object":
		return c.objectType
	}
	return c.opaque(keyword)
}

func (c *Checker) tupleElements(s *scope, n *ast.TupleType, env typeEnv) ([]*Type, []string) {
	elems := c.typesFromNodes(s, n.Elements, env)
	texts := make([]string, len(elems))
	for i, e := range elems {
		texts[i] = e.String()
	}
	return elems, texts
}

func (c *Checker) typeFromOperator(s *scope, n *ast.TypeOperator, env typeEnv) *Type {
	if n.Operator == "readonly" {
		switch operand := n.Type.(type) {
		case *ast.ArrayType:
			return c.arrayType("ReadonlyArray", c.typeFromNode(s, operand.Element, env))
		case *ast.TupleType:
			elems, texts := c.tupleElements(s, operand, env)
			return c.tupleType(elems, texts, true)
		}
	}
	return c.opaque(n.Operator + " " + c.typeFromNode(s, n.Type, env).nested())
}

func (c *Checker) typeFromReference(s *scope, n *ast.TypeReference, env typeEnv) *Type {
	if len(n.TypeArguments) == 0 {
		if t, ok := env[n.Name]; ok {
			return t
		}
	}
	args := c.typesFromNodes(s, n.TypeArguments, env)

	sym := c.resolveEntityName(s, n.Name)
	if (n.Name == "Array" || n.Name == "ReadonlyArray") && len(args) == 1 &&
		(sym == nil || sym.Kind == SymbolInterface) {
		return c.arrayType(n.Name, args[0])
	}
	if sym != nil {
		switch sym.Kind {
		case SymbolEnum:
			return c.enumType(sym)
		case SymbolEnumMember:
			return c.enumMemberType(sym)
		case SymbolInterface:
			return c.interfaceReference(sym, args)
		case SymbolAlias:
			return c.aliasType(sym, args)
		}
	}
	return c.globalReference(n.Name, args)
}

// aliasType instantiates a type alias with args. A union, intersection or
// object type produced by the alias remembers the alias name for display.
func (c *Checker) aliasType(sym *Symbol, args []*Type) *Type {
	display := typeArgumentsString(sym.Name, args)
	key := sym.File.FileName + "#" + display
	if c.resolving[key] {
		// Recursive alias: stop at the reference
		return &Type{Flags: TypeFlagsObject, ObjectFlags: ObjectFlagsReference, Target: sym, TypeArguments: args, text: display}
	}
	c.resolving[key] = true
	defer delete(c.resolving, key)

	var env typeEnv
	if len(sym.Alias.TypeParameters) > 0 {
		env = typeEnv{}
		for i, param := range sym.Alias.TypeParameters {
			if i < len(args) {
				env[param] = args[i]
			} else {
				env[param] = c.globalReference(param, nil)
			}
		}
	}

	t := c.typeFromNode(c.scopeOf(sym.File), sym.Alias.Type, env)
	if t.AliasName == "" && (t.Flags&(TypeFlagsUnion|TypeFlagsIntersection) != 0 ||
		t.ObjectFlags&(ObjectFlagsAnonymous|ObjectFlagsTuple) != 0) {
		t.AliasName = display
	}
	return t
}

// indexedAccess resolves T["prop"] on interfaces and object literal types
// and T[number] on arrays; anything else is kept as display text
func (c *Checker) indexedAccess(s *scope, n *ast.IndexedAccessType, env typeEnv) *Type {
	obj := c.typeFromNode(s, n.Object, env)
	index := c.typeFromNode(s, n.Index, env)

	switch {
	case index.Flags&TypeFlagsStringLiteral != 0 && index.Flags&TypeFlagsEnumLiteral == 0:
		if prop := c.findProperty(obj, index.Value, map[*Symbol]bool{}); prop.Signature != nil {
			t := c.typeFromNode(c.scopeOf(prop.File), prop.Signature.Type, nil)
			if prop.Signature.Optional {
				t = c.unionType([]*Type{t, c.undefinedType})
			}
			return t
		}
	case index.Flags&TypeFlagsNumber != 0 && c.IsArrayType(obj):
		return obj.TypeArguments[0]
	}
	return c.opaque(obj.nested() + "[" + index.String() + "]")
}

// Property is a property signature together with the file declaring it
type Property struct {
	Signature *ast.PropertySignature
	File      *ast.SourceFile
}

func (c *Checker) findProperty(t *Type, name string, seen map[*Symbol]bool) Property {
	switch {
	case t.literal != nil:
		for _, m := range t.literal.Members {
			if m.Name == name {
				return Property{Signature: m, File: t.scope.file}
			}
		}
	case t.Symbol != nil && t.Symbol.Kind == SymbolInterface:
		props := c.collectProperties(t.Symbol.File, t.Symbol.Interfaces, true, seen)
		for _, p := range props {
			if p.Signature.Name == name {
				return p
			}
		}
	}
	return Property{}
}

// Properties returns the property signatures of decl in source order. With
// inherit set, properties of the interfaces it extends come first, and a
// property redeclared by a derived interface replaces the inherited one at
// the inherited position.
func (c *Checker) Properties(file *ast.SourceFile, decl *ast.InterfaceDeclaration, inherit bool) []Property {
	return c.collectProperties(file, []*ast.InterfaceDeclaration{decl}, inherit, map[*Symbol]bool{})
}

func (c *Checker) collectProperties(file *ast.SourceFile, decls []*ast.InterfaceDeclaration, inherit bool, seen map[*Symbol]bool) []Property {
	var props []Property
	index := map[string]int{}
	add := func(p Property) {
		if i, ok := index[p.Signature.Name]; ok {
			props[i] = p
			return
		}
		index[p.Signature.Name] = len(props)
		props = append(props, p)
	}

	s := c.scopeOf(file)
	for _, decl := range decls {
		if inherit {
			for _, base := range decl.Extends {
				ref, ok := base.(*ast.TypeReference)
				if !ok {
					continue
				}
				sym := c.resolveEntityName(s, ref.Name)
				if sym == nil || sym.Kind != SymbolInterface || seen[sym] {
					continue
				}
				seen[sym] = true
				for _, p := range c.collectProperties(sym.File, sym.Interfaces, true, seen) {
					add(p)
				}
			}
		}
		for _, m := range decl.Members {
			add(Property{Signature: m, File: file})
		}
	}
	return props
}

// Name resolution

func (c *Checker) resolveEntityName(s *scope, name string) *Symbol {
	parts := strings.Split(name, ".")
	var sym *Symbol
	if module, ok := s.namespaces[parts[0]]; ok && len(parts) > 1 {
		sym = c.resolveExport(module, parts[1], map[string]bool{})
		parts = parts[2:]
	} else {
		sym = c.resolveName(s, parts[0], map[string]bool{})
		parts = parts[1:]
	}

	for _, part := range parts {
		if sym == nil || sym.Kind != SymbolEnum {
			return nil
		}
		sym = sym.Members[part]
	}
	return sym
}

func (c *Checker) resolveName(s *scope, name string, seen map[string]bool) *Symbol {
	if sym, ok := s.locals[name]; ok {
		return sym
	}
	if ref, ok := s.imports[name]; ok {
		return c.resolveExport(ref.module, ref.name, seen)
	}
	return nil
}

// resolveExport finds the symbol module exports as name, through export
// lists, re-exports and export-star. A top-level declaration that is not
// exported is still found.
func (c *Checker) resolveExport(module, name string, seen map[string]bool) *Symbol {
	key := module + "#" + name
	if seen[key] {
		return nil
	}
	seen[key] = true

	s, ok := c.modules[module]
	if !ok {
		return nil
	}
	if ref, ok := s.exports[name]; ok {
		if ref.module == "" {
			return c.resolveName(s, ref.name, seen)
		}
		return c.resolveExport(ref.module, ref.name, seen)
	}
	for _, star := range s.stars {
		if sym := c.resolveExport(star, name, seen); sym != nil {
			return sym
		}
	}
	return s.locals[name]
}
