package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	str := &KeywordType{Keyword: "string"}
	num := &KeywordType{Keyword: "number"}

	tests := []struct {
		name     string
		node     TypeNode
		expected string
	}{
		{"nil is any", nil, "any"},
		{"keyword", str, "string"},
		{"array", &ArrayType{Element: str}, "string[]"},
		{"array of union", &ArrayType{Element: &UnionType{Types: []TypeNode{str, num}}}, "(string | number)[]"},
		{"array of readonly", &ArrayType{Element: &TypeOperator{Operator: "readonly", Type: str}}, "(readonly string)[]"},
		{"generic", &TypeReference{Name: "Map", TypeArguments: []TypeNode{str, num}}, "Map<string, number>"},
		{"intersection", &IntersectionType{Types: []TypeNode{&TypeReference{Name: "A"}, &TypeReference{Name: "B"}}}, "A & B"},
		{"tuple", &TupleType{Elements: []TypeNode{str, num}}, "[string, number]"},
		{"indexed", &IndexedAccessType{Object: &TypeReference{Name: "T"}, Index: &LiteralType{Kind: LiteralString, Text: `"k"`}}, `T["k"]`},
		{"opaque", &OpaqueType{Text: "() => void"}, "() => void"},
		{"empty literal", &TypeLiteral{}, "{}"},
		{
			"type literal",
			&TypeLiteral{Members: []*PropertySignature{
				{Name: "a", Type: str, Readonly: true},
				{Name: "b-c", QuotedName: true, Optional: true, Type: num},
			}},
			`{ readonly a: string; "b-c"?: number; }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeString(tt.node))
		})
	}
}
