package checker

import (
	"fmt"
	"strings"

	"github.com/teranos/ts2swift/ts/ast"
)

// TypeFlags classify a Type. Exactly one of the base flags is set;
// TypeFlagsEnumLiteral accompanies a literal flag on enum member types.
type TypeFlags uint32

const (
	TypeFlagsAny TypeFlags = 1 << iota
	TypeFlagsUnknown
	TypeFlagsString
	TypeFlagsNumber
	TypeFlagsBoolean
	TypeFlagsBigInt
	TypeFlagsESSymbol
	TypeFlagsStringLiteral
	TypeFlagsNumberLiteral
	TypeFlagsBooleanLiteral
	TypeFlagsEnumLiteral
	TypeFlagsEnum
	TypeFlagsVoid
	TypeFlagsUndefined
	TypeFlagsNull
	TypeFlagsNever
	TypeFlagsNonPrimitive
	TypeFlagsObject
	TypeFlagsUnion
	TypeFlagsIntersection
	// TypeFlagsOpaque marks type syntax the checker does not evaluate:
	// function, conditional, mapped and template literal types, keyof and
	// typeof queries. Such types only carry their display text.
	TypeFlagsOpaque

	TypeFlagsLiteral = TypeFlagsStringLiteral | TypeFlagsNumberLiteral | TypeFlagsBooleanLiteral
)

// ObjectFlags refine TypeFlagsObject
type ObjectFlags uint32

const (
	ObjectFlagsInterface ObjectFlags = 1 << iota
	ObjectFlagsReference
	ObjectFlagsAnonymous
	ObjectFlagsTuple
)

// Type is a checked type
type Type struct {
	Flags       TypeFlags
	ObjectFlags ObjectFlags

	// Value is the decoded content of a string literal or the source text of
	// a numeric literal
	Value string

	// Symbol is the declaration behind an enum, enum member or interface type
	Symbol *Symbol

	// Target is the generic declaration of a type reference
	Target        *Symbol
	TypeArguments []*Type

	// Types are the members of a union or intersection
	Types []*Type

	// AliasName is the type alias a union, intersection or object type was
	// written through, with its type arguments
	AliasName string

	text     string
	compound bool
	literal  *ast.TypeLiteral
	scope    *scope
}

func (t *Type) String() string {
	if t.AliasName != "" {
		return t.AliasName
	}
	return t.text
}

// key identifies a type for union de-duplication
func (t *Type) key() string {
	var sym *Symbol
	switch {
	case t.Symbol != nil:
		sym = t.Symbol
	case t.Target != nil:
		sym = t.Target
	}
	return fmt.Sprintf("%d|%p|%s", t.Flags, sym, t.String())
}

// nested renders t where it appears inside array or union syntax
func (t *Type) nested() string {
	if t.AliasName == "" && (t.compound || t.Flags&(TypeFlagsUnion|TypeFlagsIntersection) != 0) {
		return "(" + t.text + ")"
	}
	return t.String()
}

func quoteLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func typeListString(types []*Type, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.nested()
	}
	return strings.Join(parts, sep)
}

func typeArgumentsString(name string, args []*Type) string {
	if len(args) == 0 {
		return name
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return name + "<" + strings.Join(parts, ", ") + ">"
}

func (c *Checker) newIntrinsic(flags TypeFlags, name string) *Type {
	return &Type{Flags: flags, text: name}
}

func (c *Checker) stringLiteral(value string) *Type {
	return &Type{Flags: TypeFlagsStringLiteral, Value: value, text: quoteLiteral(value)}
}

func (c *Checker) numberLiteral(text string) *Type {
	return &Type{Flags: TypeFlagsNumberLiteral, Value: text, text: text}
}

func (c *Checker) opaque(text string) *Type {
	return &Type{Flags: TypeFlagsOpaque, text: text, compound: true}
}

func (c *Checker) arrayType(name string, elem *Type) *Type {
	text := elem.nested() + "[]"
	if name == "ReadonlyArray" {
		text = "readonly " + text
	}
	return &Type{
		Flags:         TypeFlagsObject,
		ObjectFlags:   ObjectFlagsReference,
		Target:        c.globalSymbol(name),
		TypeArguments: []*Type{elem},
		text:          text,
		compound:      name == "ReadonlyArray",
	}
}

func (c *Checker) tupleType(elems []*Type, texts []string, readonly bool) *Type {
	text := "[" + strings.Join(texts, ", ") + "]"
	if readonly {
		text = "readonly " + text
	}
	return &Type{
		Flags:         TypeFlagsObject,
		ObjectFlags:   ObjectFlagsReference | ObjectFlagsTuple,
		TypeArguments: elems,
		text:          text,
		compound:      readonly,
	}
}

func (c *Checker) enumType(sym *Symbol) *Type {
	if t, ok := c.enumTypes[sym]; ok {
		return t
	}
	t := &Type{Flags: TypeFlagsEnum, Symbol: sym, text: sym.Name}
	c.enumTypes[sym] = t
	return t
}

// enumMemberType is the literal type of a member with a constant value,
// or the enum type itself for a computed member
func (c *Checker) enumMemberType(member *Symbol) *Type {
	switch member.ValueKind {
	case ValueString:
		return &Type{
			Flags:  TypeFlagsStringLiteral | TypeFlagsEnumLiteral,
			Value:  member.Value,
			Symbol: member,
			text:   member.Parent.Name + "." + member.Name,
		}
	case ValueNumber:
		return &Type{
			Flags:  TypeFlagsNumberLiteral | TypeFlagsEnumLiteral,
			Value:  member.Value,
			Symbol: member,
			text:   member.Parent.Name + "." + member.Name,
		}
	}
	return c.enumType(member.Parent)
}

func (c *Checker) interfaceReference(sym *Symbol, args []*Type) *Type {
	t := &Type{
		Flags:         TypeFlagsObject,
		ObjectFlags:   ObjectFlagsInterface,
		Symbol:        sym,
		Target:        sym,
		TypeArguments: args,
		text:          typeArgumentsString(sym.Name, args),
	}
	if len(args) > 0 {
		t.ObjectFlags |= ObjectFlagsReference
	}
	return t
}

func (c *Checker) globalReference(name string, args []*Type) *Type {
	return &Type{
		Flags:         TypeFlagsObject,
		ObjectFlags:   ObjectFlagsReference,
		Target:        c.globalSymbol(name),
		TypeArguments: args,
		text:          typeArgumentsString(name, args),
	}
}

// unionType builds the reduced union of types: members are flattened and
// de-duplicated, any and unknown absorb the union, never disappears,
// true|false collapses to boolean, and literals are absorbed by their
// primitive (or, for enum members, by their enum). A single remaining
// member is returned as is.
func (c *Checker) unionType(types []*Type) *Type {
	var flat []*Type
	seen := map[string]bool{}
	var add func(t *Type)
	add = func(t *Type) {
		if t.Flags&TypeFlagsUnion != 0 {
			for _, m := range t.Types {
				add(m)
			}
			return
		}
		k := t.key()
		if !seen[k] {
			seen[k] = true
			flat = append(flat, t)
		}
	}
	for _, t := range types {
		add(t)
	}

	var hasString, hasNumber, hasBoolean, hasTrue, hasFalse bool
	enums := map[*Symbol]bool{}
	for _, t := range flat {
		switch {
		case t.Flags&TypeFlagsAny != 0:
			return c.anyType
		case t.Flags&TypeFlagsUnknown != 0:
			return c.unknownType
		case t.Flags&TypeFlagsString != 0:
			hasString = true
		case t.Flags&TypeFlagsNumber != 0:
			hasNumber = true
		case t.Flags&TypeFlagsBoolean != 0:
			hasBoolean = true
		case t.Flags&TypeFlagsEnum != 0:
			enums[t.Symbol] = true
		case t == c.trueType:
			hasTrue = true
		case t == c.falseType:
			hasFalse = true
		}
	}

	collapseBoolean := hasTrue && hasFalse && !hasBoolean
	placedBoolean := false
	reduced := flat[:0:0]
	for _, t := range flat {
		switch {
		case t.Flags&TypeFlagsNever != 0:
			continue
		case t.Flags&TypeFlagsEnumLiteral != 0 && enums[t.Symbol.Parent]:
			continue
		case t.Flags&TypeFlagsStringLiteral != 0 && hasString,
			t.Flags&TypeFlagsNumberLiteral != 0 && hasNumber,
			t.Flags&TypeFlagsBooleanLiteral != 0 && hasBoolean:
			continue
		case collapseBoolean && (t == c.trueType || t == c.falseType):
			if !placedBoolean {
				reduced = append(reduced, c.booleanType)
				placedBoolean = true
			}
			continue
		}
		reduced = append(reduced, t)
	}

	switch len(reduced) {
	case 0:
		return c.neverType
	case 1:
		return reduced[0]
	}
	return &Type{Flags: TypeFlagsUnion, Types: reduced, text: typeListString(reduced, " | ")}
}

func (c *Checker) intersectionType(types []*Type) *Type {
	var flat []*Type
	for _, t := range types {
		if t.Flags&TypeFlagsIntersection != 0 {
			flat = append(flat, t.Types...)
			continue
		}
		flat = append(flat, t)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Type{Flags: TypeFlagsIntersection, Types: flat, text: typeListString(flat, " & ")}
}
