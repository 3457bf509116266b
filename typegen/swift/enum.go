package swift

import (
	"fmt"
	"strings"

	"github.com/teranos/ts2swift/logger"
	"github.com/teranos/ts2swift/ts/ast"
	"github.com/teranos/ts2swift/typegen"
	"github.com/teranos/ts2swift/typegen/util"
)

// GenerateEnum converts a TypeScript enum to a Swift enum with a raw type
// (implements typegen.Generator). Members keep their order; labels are
// lowercased and string values are normalized to double quotes. A String
// enum with numeric members gets those values quoted.
func (g *Generator) GenerateEnum(decl *ast.EnumDeclaration) string {
	var sb strings.Builder

	rawType := RawType(decl)
	if rawType == "String" && hasNumericMember(decl) {
		logger.Logger.Warnw("Enum mixes string and numeric values, quoting the numbers",
			logger.FieldType, decl.Name)
	}

	inherits := append([]string{rawType}, g.opts.Capabilities...)
	sb.WriteString(fmt.Sprintf("enum %s: %s {\n", decl.Name, strings.Join(inherits, ", ")))

	for _, m := range decl.Members {
		label := util.Lower(m.Name)
		if value := memberValue(m, rawType); value != "" {
			sb.WriteString(fmt.Sprintf("    case %s = %s\n", label, value))
		} else {
			sb.WriteString(fmt.Sprintf("    case %s\n", label))
		}
	}

	sb.WriteString("}")
	return sb.String()
}

// RawType infers the Swift raw type of an enum: String when any member is
// initialized with a string (or there are no members), Double when a
// numeric initializer is not an integer, Int otherwise.
func RawType(decl *ast.EnumDeclaration) string {
	if len(decl.Members) == 0 {
		return "String"
	}
	fractional := false
	for _, m := range decl.Members {
		if m.Initializer == nil {
			continue
		}
		switch m.Initializer.Kind {
		case ast.ExpressionString:
			return "String"
		case ast.ExpressionNumber:
			if !isInteger(m.Initializer.Text) {
				fractional = true
			}
		}
	}
	if fractional {
		return "Double"
	}
	return "Int"
}

// memberValue renders a member's raw value. Numeric values of a String
// enum are quoted so every raw value has the enum's raw type.
func memberValue(m *ast.EnumMember, rawType string) string {
	if m.Initializer == nil {
		return ""
	}
	switch {
	case m.Initializer.Kind == ast.ExpressionString:
		return typegen.QuoteString(m.Initializer.Value)
	case m.Initializer.Kind == ast.ExpressionNumber && rawType == "String":
		return typegen.QuoteString(m.Initializer.Text)
	}
	return m.Initializer.Text
}

func hasNumericMember(decl *ast.EnumDeclaration) bool {
	for _, m := range decl.Members {
		if m.Initializer != nil && m.Initializer.Kind == ast.ExpressionNumber {
			return true
		}
	}
	return false
}

func isInteger(text string) bool {
	lower := strings.ToLower(strings.TrimLeft(text, "+-"))
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		return true
	}
	return !strings.ContainsAny(lower, ".e")
}
