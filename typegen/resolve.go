package typegen

import (
	"fmt"
	"strings"

	"github.com/teranos/ts2swift/logger"
	"github.com/teranos/ts2swift/ts/checker"
)

// absent are the union members that mark a value as possibly missing
const absent = checker.TypeFlagsUndefined | checker.TypeFlagsNull

// Resolve maps a checked type to a Descriptor. Cases are tried in a fixed
// order: literals, primitives, enums, arrays, unions; every other shape
// degrades to a Named descriptor carrying the checker's display text.
func Resolve(t *checker.Type, c *checker.Checker) Descriptor {
	if t == nil {
		return NamedType(c.TypeToString(t))
	}

	switch {
	case t.Flags&checker.TypeFlagsStringLiteral != 0:
		return LiteralOf(QuoteString(t.Value))
	case t.Flags&checker.TypeFlagsNumberLiteral != 0:
		return LiteralOf(t.Value)
	case t.Flags&checker.TypeFlagsString != 0:
		return String
	case t.Flags&checker.TypeFlagsNumber != 0:
		return Number
	case t.Flags&checker.TypeFlagsBoolean != 0:
		return Boolean
	case t.Flags&checker.TypeFlagsEnum != 0:
		return NamedType(c.TypeToString(t))
	case t.Flags&checker.TypeFlagsObject != 0:
		if c.IsArrayType(t) {
			return ArrayOf(Resolve(c.TypeArguments(t)[0], c))
		}
		return NamedType(c.TypeToString(t))
	case t.Flags&checker.TypeFlagsUnion != 0:
		return resolveUnion(t, c)
	}
	return fallback(t, c)
}

// resolveUnion makes T | undefined | null optional. Any other union is kept
// by name; Swift has no untagged unions.
func resolveUnion(t *checker.Type, c *checker.Checker) Descriptor {
	var concrete []*checker.Type
	missing := 0
	for _, member := range t.Types {
		if member.Flags&absent != 0 {
			missing++
			continue
		}
		concrete = append(concrete, member)
	}

	if len(concrete) == 1 && missing > 0 {
		return OptionalOf(Resolve(concrete[0], c))
	}
	return fallback(t, c)
}

func fallback(t *checker.Type, c *checker.Checker) Descriptor {
	name := c.TypeToString(t)
	logger.Logger.Debugw("No direct mapping for type, keeping its name",
		"type", name,
		"flags", fmt.Sprintf("%#x", uint32(t.Flags)))
	return NamedType(name)
}

// QuoteString renders s as a double-quoted Swift string literal
func QuoteString(s string) string {
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
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u{%x}`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
