package swift

import (
	"strings"

	"github.com/teranos/ts2swift/typegen"
)

// TypeMapping maps primitive descriptors to Swift types
var TypeMapping = map[typegen.PrimitiveType]string{
	typegen.PrimitiveString:  "String",
	typegen.PrimitiveNumber:  "Double",
	typegen.PrimitiveBoolean: "Bool",
}

// RenderType renders d as Swift type syntax with no name replacements
func RenderType(d typegen.Descriptor) string {
	return renderType(d, nil)
}

// RenderType renders d as Swift type syntax, applying the configured
// named type replacements
func (g *Generator) RenderType(d typegen.Descriptor) string {
	return renderType(d, g.opts.NamedTypes)
}

func renderType(d typegen.Descriptor, names map[string]string) string {
	switch d := d.(type) {
	case typegen.Primitive:
		if t, ok := TypeMapping[d.Type]; ok {
			return t
		}
		return string(d.Type)
	case typegen.Literal:
		return d.Value
	case typegen.Named:
		if replacement, ok := names[d.Name]; ok {
			return replacement
		}
		return d.Name
	case typegen.Array:
		return "[" + renderType(d.Elem, names) + "]"
	case typegen.Optional:
		return optional(renderType(d.Elem, names))
	}
	return "Any"
}

// optional marks a rendered type optional unless it already is
func optional(t string) string {
	if strings.HasSuffix(t, "?") {
		return t
	}
	return t + "?"
}
