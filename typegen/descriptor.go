package typegen

import "fmt"

// Kind discriminates the variants of a Descriptor
type Kind int

const (
	KindPrimitive Kind = iota
	KindLiteral
	KindNamed
	KindArray
	KindOptional
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindLiteral:
		return "literal"
	case KindNamed:
		return "named"
	case KindArray:
		return "array"
	case KindOptional:
		return "optional"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Descriptor is the language-neutral form of a resolved type. The set of
// implementations is closed: Primitive, Literal, Named, Array and Optional.
type Descriptor interface {
	Kind() Kind
	String() string
	descriptor()
}

// PrimitiveType is one of the scalar types every target language has
type PrimitiveType string

const (
	PrimitiveString  PrimitiveType = "string"
	PrimitiveNumber  PrimitiveType = "number"
	PrimitiveBoolean PrimitiveType = "boolean"
)

// Primitive is a string, number or boolean
type Primitive struct {
	Type PrimitiveType
}

// Literal is a literal type. Value holds a string literal with its double
// quotes, or a numeric literal exactly as written.
type Literal struct {
	Value string
}

// Named is a reference rendered as is
type Named struct {
	Name string
}

// Array is a homogeneous list of Elem
type Array struct {
	Elem Descriptor
}

// Optional is Elem or absent. Build it with OptionalOf so it never wraps
// another Optional.
type Optional struct {
	Elem Descriptor
}

func (Primitive) Kind() Kind { return KindPrimitive }
func (Literal) Kind() Kind   { return KindLiteral }
func (Named) Kind() Kind     { return KindNamed }
func (Array) Kind() Kind     { return KindArray }
func (Optional) Kind() Kind  { return KindOptional }

func (d Primitive) String() string { return "Primitive(" + string(d.Type) + ")" }
func (d Literal) String() string   { return "Literal(" + d.Value + ")" }
func (d Named) String() string     { return "Named(" + d.Name + ")" }
func (d Array) String() string     { return "ArrayOf(" + describe(d.Elem) + ")" }
func (d Optional) String() string  { return "Optional(" + describe(d.Elem) + ")" }

func (Primitive) descriptor() {}
func (Literal) descriptor()   {}
func (Named) descriptor()     {}
func (Array) descriptor()     {}
func (Optional) descriptor()  {}

func describe(d Descriptor) string {
	if d == nil {
		return "<nil>"
	}
	return d.String()
}

// String, Number and Boolean are the primitive descriptors
var (
	String  Descriptor = Primitive{Type: PrimitiveString}
	Number  Descriptor = Primitive{Type: PrimitiveNumber}
	Boolean Descriptor = Primitive{Type: PrimitiveBoolean}
)

// NamedType returns a Named descriptor for name
func NamedType(name string) Descriptor {
	return Named{Name: name}
}

// LiteralOf returns a Literal descriptor for already-formatted literal text
func LiteralOf(value string) Descriptor {
	return Literal{Value: value}
}

// ArrayOf returns an Array descriptor of elem
func ArrayOf(elem Descriptor) Descriptor {
	return Array{Elem: elem}
}

// OptionalOf returns elem marked optional. An elem that is already
// optional is returned unchanged.
func OptionalOf(elem Descriptor) Descriptor {
	if o, ok := elem.(Optional); ok {
		return o
	}
	return Optional{Elem: elem}
}
