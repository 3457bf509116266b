package ast

import "strings"

// TypeNode is a type expression as written in source
type TypeNode interface {
	typeNode()
}

// KeywordType is a built-in type keyword: string, number, boolean, any,
// unknown, undefined, null, void, never, object, bigint, symbol
type KeywordType struct {
	Keyword string
}

// LiteralKind classifies a literal type
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
)

// LiteralType is a literal used as a type: "foo", 42, -1, true
type LiteralType struct {
	Kind LiteralKind
	// Text is the literal exactly as written, including quotes and sign
	Text string
	// Value is the decoded string for string literals and Text otherwise
	Value string
}

// TypeReference is a possibly qualified, possibly generic name: Foo, Enum.Member, Array<T>
type TypeReference struct {
	Name          string
	TypeArguments []TypeNode
}

// ArrayType is `T[]`
type ArrayType struct {
	Element TypeNode
}

// UnionType is `A | B | C`
type UnionType struct {
	Types []TypeNode
}

// IntersectionType is `A & B`
type IntersectionType struct {
	Types []TypeNode
}

// ParenthesizedType is `(T)`
type ParenthesizedType struct {
	Type TypeNode
}

// TypeOperator is `readonly T`, `keyof T` or `unique symbol`
type TypeOperator struct {
	Operator string
	Type     TypeNode
}

// TypeLiteral is an inline object type `{ a: string; b?: number }`
type TypeLiteral struct {
	Members []*PropertySignature
}

// TupleType is `[A, B]`
type TupleType struct {
	Elements []TypeNode
}

// IndexedAccessType is `T["key"]` or `T[number]`
type IndexedAccessType struct {
	Object TypeNode
	Index  TypeNode
}

// OpaqueType is a type the parser recognizes only by its extent: function
// and constructor types, mapped and conditional types, typeof queries,
// template literal types. Text is the source text with whitespace collapsed.
type OpaqueType struct {
	Text string
}

func (*KeywordType) typeNode()       {}
func (*LiteralType) typeNode()       {}
func (*TypeReference) typeNode()     {}
func (*ArrayType) typeNode()         {}
func (*UnionType) typeNode()         {}
func (*IntersectionType) typeNode()  {}
func (*ParenthesizedType) typeNode() {}
func (*TypeOperator) typeNode()      {}
func (*TypeLiteral) typeNode()       {}
func (*TupleType) typeNode()         {}
func (*IndexedAccessType) typeNode() {}
func (*OpaqueType) typeNode()        {}

// TypeString prints a type node in TypeScript syntax with canonical spacing
func TypeString(node TypeNode) string {
	var sb strings.Builder
	writeType(&sb, node)
	return sb.String()
}

func writeType(sb *strings.Builder, node TypeNode) {
	switch n := node.(type) {
	case nil:
		sb.WriteString("any")
	case *KeywordType:
		sb.WriteString(n.Keyword)
	case *LiteralType:
		sb.WriteString(n.Text)
	case *TypeReference:
		sb.WriteString(n.Name)
		if len(n.TypeArguments) > 0 {
			sb.WriteString("<")
			writeList(sb, n.TypeArguments, ", ")
			sb.WriteString(">")
		}
	case *ArrayType:
		writeElementType(sb, n.Element)
		sb.WriteString("[]")
	case *UnionType:
		writeList(sb, n.Types, " | ")
	case *IntersectionType:
		writeList(sb, n.Types, " & ")
	case *ParenthesizedType:
		sb.WriteString("(")
		writeType(sb, n.Type)
		sb.WriteString(")")
	case *TypeOperator:
		sb.WriteString(n.Operator)
		sb.WriteString(" ")
		writeType(sb, n.Type)
	case *TypeLiteral:
		writeTypeLiteral(sb, n)
	case *TupleType:
		sb.WriteString("[")
		writeList(sb, n.Elements, ", ")
		sb.WriteString("]")
	case *IndexedAccessType:
		writeElementType(sb, n.Object)
		sb.WriteString("[")
		writeType(sb, n.Index)
		sb.WriteString("]")
	case *OpaqueType:
		sb.WriteString(n.Text)
	}
}

// writeElementType parenthesizes types that would otherwise bind looser
// than a postfix `[]`
func writeElementType(sb *strings.Builder, node TypeNode) {
	switch n := node.(type) {
	case *UnionType, *IntersectionType, *OpaqueType, *TypeOperator:
		sb.WriteString("(")
		writeType(sb, n)
		sb.WriteString(")")
	default:
		writeType(sb, n)
	}
}

func writeList(sb *strings.Builder, nodes []TypeNode, sep string) {
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString(sep)
		}
		writeType(sb, n)
	}
}

func writeTypeLiteral(sb *strings.Builder, lit *TypeLiteral) {
	if len(lit.Members) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{ ")
	for _, m := range lit.Members {
		if m.Readonly {
			sb.WriteString("readonly ")
		}
		sb.WriteString(PropertyNameText(m))
		if m.Optional {
			sb.WriteString("?")
		}
		sb.WriteString(": ")
		writeType(sb, m.Type)
		sb.WriteString("; ")
	}
	sb.WriteString("}")
}

// PropertyNameText returns the property name as it would be written in
// source, re-quoting names that were declared as string literals
func PropertyNameText(p *PropertySignature) string {
	if p.QuotedName {
		return `"` + strings.ReplaceAll(p.Name, `"`, `\"`) + `"`
	}
	return p.Name
}
