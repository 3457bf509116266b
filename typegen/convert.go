package typegen

import (
	"strings"

	"github.com/teranos/ts2swift/ts/ast"
	"github.com/teranos/ts2swift/ts/checker"
)

// ConvertFile converts the enums and interfaces declared at the top level
// of file, in source order. Blocks are separated by one blank line and the
// text ends with a single newline. A file with nothing to convert yields
// the empty string.
func ConvertFile(file *ast.SourceFile, c *checker.Checker, g Generator) string {
	return Convert(file, c, g).Content
}

// Convert is ConvertFile that also reports what was converted
func Convert(file *ast.SourceFile, c *checker.Checker, g Generator) *Result {
	result := &Result{Source: file.FileName}

	var blocks []string
	for _, stmt := range file.Statements {
		switch decl := stmt.(type) {
		case *ast.EnumDeclaration:
			blocks = append(blocks, g.GenerateEnum(decl))
			result.Declarations = append(result.Declarations, Declaration{
				Name:     decl.Name,
				Kind:     DeclarationEnum,
				Position: positionOf(file.FileName, decl.Range),
			})
		case *ast.InterfaceDeclaration:
			blocks = append(blocks, g.GenerateStruct(decl, file, c))
			result.Declarations = append(result.Declarations, Declaration{
				Name:     decl.Name,
				Kind:     DeclarationStruct,
				Position: positionOf(file.FileName, decl.Range),
			})
		}
	}

	if len(blocks) > 0 {
		result.Content = strings.Join(blocks, "\n\n") + "\n"
	}
	return result
}

// ConvertProgram converts the root file of prog
func ConvertProgram(prog *checker.Program, g Generator) *Result {
	return Convert(prog.Root(), prog.Checker(), g)
}
