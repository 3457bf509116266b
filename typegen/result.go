package typegen

import "github.com/teranos/ts2swift/ts/scanner"

// DeclarationKind is the kind of a converted declaration
type DeclarationKind string

const (
	DeclarationEnum   DeclarationKind = "enum"
	DeclarationStruct DeclarationKind = "struct"
)

// Result holds the conversion of one source file
type Result struct {
	// Source is the path of the converted file
	Source string

	// Content is the generated text, empty when the file declares nothing
	// convertible
	Content string

	// Declarations lists the converted declarations in source order
	Declarations []Declaration
}

// Declaration describes one converted declaration
type Declaration struct {
	Name     string
	Kind     DeclarationKind
	Position Position
}

// Position is a source location
type Position struct {
	File string
	// Line is 1-based
	Line int
}

// Count returns how many declarations of kind were converted
func (r *Result) Count(kind DeclarationKind) int {
	n := 0
	for _, d := range r.Declarations {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func positionOf(file string, r scanner.Range) Position {
	return Position{File: file, Line: r.Start.Line}
}
