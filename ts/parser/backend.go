package parser

import (
	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/ts/ast"
)

// Backend selects the parser implementation
type Backend string

const (
	// BackendNative is the built-in recursive descent parser
	BackendNative Backend = "native"

	// BackendTreeSitter parses with the tree-sitter TypeScript grammar.
	// It needs a cgo build with the treesitter tag.
	BackendTreeSitter Backend = "tree-sitter"
)

// Backends lists the accepted backend names
var Backends = []string{string(BackendNative), string(BackendTreeSitter)}

// ParseWith parses src with backend. The empty backend is BackendNative.
func ParseWith(backend Backend, fileName, src string) (*ast.SourceFile, error) {
	switch backend {
	case "", BackendNative:
		return Parse(fileName, src)
	case BackendTreeSitter:
		return parseTreeSitter(fileName, src)
	}
	return nil, errors.WithHintf(
		errors.Wrapf(errors.ErrInvalidRequest, "unknown parser backend %q", string(backend)),
		"use %q or %q", BackendNative, BackendTreeSitter)
}

// ValidateBackend reports whether backend can be used by this binary
func ValidateBackend(backend Backend) error {
	switch backend {
	case "", BackendNative:
		return nil
	case BackendTreeSitter:
		if !TreeSitterAvailable {
			return errTreeSitterUnavailable()
		}
		return nil
	}
	return errors.WithHintf(
		errors.Wrapf(errors.ErrInvalidRequest, "unknown parser backend %q", string(backend)),
		"use %q or %q", BackendNative, BackendTreeSitter)
}

func errTreeSitterUnavailable() error {
	return errors.WithHint(
		errors.Wrap(errors.ErrUnsupported, "tree-sitter parser not built in"),
		"rebuild with CGO_ENABLED=1 and -tags treesitter")
}
