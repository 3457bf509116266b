// Package typegen converts TypeScript declarations into declarations of
// another language.
//
// # Architecture
//
// Conversion has two layers:
//  1. Language-neutral resolution (resolve.go) maps each checked type to a
//     Descriptor
//  2. Language-specific generators (swift/) render descriptors and whole
//     declarations
//
// ConvertFile walks a parsed file and hands every enum and interface to a
// Generator, so a new target language only needs a new Generator.
//
// # Design Decisions
//
//   - Output order is source order. Nothing is sorted.
//   - Type shapes without a direct mapping keep their TypeScript display
//     name instead of failing the conversion.
//   - The checker is passed explicitly; there is no package-level type state.
package typegen

import (
	"github.com/teranos/ts2swift/ts/ast"
	"github.com/teranos/ts2swift/ts/checker"
)

// Generator renders declarations in a target language
type Generator interface {
	// Language returns the language name (e.g., "swift")
	Language() string

	// FileExtension returns the output file extension without the dot
	FileExtension() string

	// GenerateEnum converts an enum declaration
	GenerateEnum(decl *ast.EnumDeclaration) string

	// GenerateStruct converts an interface declaration. file is the source
	// file declaring it; c resolves its property types.
	GenerateStruct(decl *ast.InterfaceDeclaration, file *ast.SourceFile, c *checker.Checker) string
}
