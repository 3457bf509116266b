package typegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionalOfCollapses(t *testing.T) {
	once := OptionalOf(String)
	twice := OptionalOf(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, KindOptional, twice.Kind())

	inner := twice.(Optional).Elem
	assert.Equal(t, KindPrimitive, inner.Kind(), "Optional never wraps Optional")
}

func TestDescriptorString(t *testing.T) {
	tests := []struct {
		d    Descriptor
		want string
	}{
		{String, "Primitive(string)"},
		{Number, "Primitive(number)"},
		{Boolean, "Primitive(boolean)"},
		{LiteralOf(`"foo"`), `Literal("foo")`},
		{LiteralOf("42"), "Literal(42)"},
		{NamedType("User"), "Named(User)"},
		{ArrayOf(ArrayOf(String)), "ArrayOf(ArrayOf(Primitive(string)))"},
		{OptionalOf(ArrayOf(String)), "Optional(ArrayOf(Primitive(string)))"},
		{Array{}, "ArrayOf(<nil>)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.String())
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "primitive", KindPrimitive.String())
	assert.Equal(t, "optional", KindOptional.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
