package swift

import (
	"fmt"
	"strings"

	"github.com/teranos/ts2swift/ts/ast"
	"github.com/teranos/ts2swift/ts/checker"
	"github.com/teranos/ts2swift/typegen"
	"github.com/teranos/ts2swift/typegen/util"
)

type field struct {
	keyword string
	name    string
	source  string
	typ     string
}

// GenerateStruct converts a TypeScript interface to a Swift struct
// (implements typegen.Generator). Only property signatures are converted;
// methods and index signatures are left out.
func (g *Generator) GenerateStruct(decl *ast.InterfaceDeclaration, file *ast.SourceFile, c *checker.Checker) string {
	var fields []field
	renamed := false
	for _, p := range c.Properties(file, decl, g.opts.InheritProperties) {
		f := field{
			keyword: "var",
			name:    p.Signature.Name,
			source:  p.Signature.Name,
			typ:     g.propertyType(p, c),
		}
		if g.opts.ReadonlyAsLet && p.Signature.Readonly {
			f.keyword = "let"
		}
		if g.opts.PropertyCase == PropertyCaseCamel {
			f.name = util.ToCamelCase(f.source)
			if f.name != f.source {
				renamed = true
			}
		}
		fields = append(fields, f)
	}

	var sb strings.Builder
	if len(g.opts.Capabilities) > 0 {
		sb.WriteString(fmt.Sprintf("struct %s: %s {\n", decl.Name, strings.Join(g.opts.Capabilities, ", ")))
	} else {
		sb.WriteString(fmt.Sprintf("struct %s {\n", decl.Name))
	}

	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("    %s %s: %s\n", f.keyword, f.name, f.typ))
	}

	if renamed {
		sb.WriteString("\n    enum CodingKeys: String, CodingKey {\n")
		for _, f := range fields {
			if f.name == f.source {
				sb.WriteString(fmt.Sprintf("        case %s\n", f.name))
			} else {
				sb.WriteString(fmt.Sprintf("        case %s = %s\n", f.name, typegen.QuoteString(f.source)))
			}
		}
		sb.WriteString("    }\n")
	}

	sb.WriteString("}")
	return sb.String()
}

// propertyType renders the Swift type of a property. A property marked
// optional gets exactly one trailing "?".
func (g *Generator) propertyType(p checker.Property, c *checker.Checker) string {
	sig := p.Signature
	typ := g.opts.AnyType
	if sig.Type != nil {
		typ = g.RenderType(typegen.Resolve(c.TypeAtLocation(p.File, sig.Type), c))
	}
	if sig.Optional {
		typ = optional(typ)
	}
	return typ
}
