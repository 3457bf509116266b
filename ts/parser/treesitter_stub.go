//go:build !cgo || !treesitter

package parser

import "github.com/teranos/ts2swift/ts/ast"

// TreeSitterAvailable reports whether BackendTreeSitter is compiled in.
// This is false without cgo or the treesitter build tag.
const TreeSitterAvailable = false

func parseTreeSitter(fileName, src string) (*ast.SourceFile, error) {
	return nil, errTreeSitterUnavailable()
}
