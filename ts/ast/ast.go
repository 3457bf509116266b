// Package ast defines the syntax tree for the declaration subset of
// TypeScript that ts2swift reads.
//
// Only the statements that matter for type translation are modeled in
// detail: enums, interfaces, type aliases, imports and re-exports. Every
// other top-level statement is kept as an UnsupportedStatement so callers
// can see it was present and skip it.
package ast

import "github.com/teranos/ts2swift/ts/scanner"

// SourceFile is a parsed TypeScript file
type SourceFile struct {
	FileName   string
	Text       string
	Statements []Statement
}

// Statement is a top-level statement of a source file
type Statement interface {
	Span() scanner.Range
	statementNode()
}

// Modifiers are the declaration keywords preceding a statement
type Modifiers struct {
	Export  bool
	Default bool
	Declare bool
}

// EnumDeclaration is `enum Name { ... }`, optionally `const` or `declare`
type EnumDeclaration struct {
	Modifiers
	Const   bool
	Name    string
	Members []*EnumMember
	Range   scanner.Range
}

// EnumMember is one `Name = value` entry of an enum
type EnumMember struct {
	// Name is the member name without quotes
	Name string
	// QuotedName is set when the member name was written as a string literal
	QuotedName bool
	// Initializer is nil when the member has no `= value`
	Initializer *Expression
	Range       scanner.Range
}

// ExpressionKind classifies an enum member initializer
type ExpressionKind int

const (
	// ExpressionString is a string literal or a template literal without substitutions
	ExpressionString ExpressionKind = iota
	// ExpressionNumber is a numeric literal, optionally negated
	ExpressionNumber
	// ExpressionOther is any other expression, kept as source text
	ExpressionOther
)

// Expression is an enum member initializer
type Expression struct {
	Kind ExpressionKind
	// Text is the source text of the expression
	Text string
	// Value is the decoded string for ExpressionString and Text otherwise
	Value string
}

// InterfaceDeclaration is `interface Name<T> extends Base { ... }`
type InterfaceDeclaration struct {
	Modifiers
	Name           string
	TypeParameters []string
	Extends        []TypeNode
	Members        []*PropertySignature
	Range          scanner.Range
}

// PropertySignature is a `name?: Type` member of an interface or type literal
type PropertySignature struct {
	// Name is the property name without quotes
	Name       string
	QuotedName bool
	Optional   bool
	Readonly   bool
	// Type is nil when the property has no type annotation
	Type  TypeNode
	Range scanner.Range
}

// TypeAliasDeclaration is `type Name<T> = Type`
type TypeAliasDeclaration struct {
	Modifiers
	Name           string
	TypeParameters []string
	Type           TypeNode
	Range          scanner.Range
}

// ImportSpecifier is one `Name as Alias` entry of an import or export list.
// For imports Name is the name exported by the other module and Alias the
// local binding; for exports Name is the binding being exported and Alias
// the name it is exported as. Alias equals Name when there is no `as`.
type ImportSpecifier struct {
	Name     string
	Alias    string
	TypeOnly bool
}

// ImportDeclaration is an ES module import
type ImportDeclaration struct {
	TypeOnly        bool
	Default         string
	Namespace       string
	Specifiers      []ImportSpecifier
	ModuleSpecifier string
	Range           scanner.Range
}

// ExportDeclaration is `export { A as B }`, optionally re-exported
// `from` another module, or `export * from "./mod"`
type ExportDeclaration struct {
	TypeOnly bool
	// All is set for `export *`; with Namespace set (`export * as ns`) the
	// names are not re-exported individually
	All        bool
	Namespace  string
	Specifiers []ImportSpecifier
	// ModuleSpecifier is empty for a local export list
	ModuleSpecifier string
	Range           scanner.Range
}

// UnsupportedStatement is any statement the converter skips: functions,
// classes, variables, namespaces, expression statements
type UnsupportedStatement struct {
	// Keyword is the first token of the statement
	Keyword string
	Range   scanner.Range
}

func (d *EnumDeclaration) Span() scanner.Range      { return d.Range }
func (d *InterfaceDeclaration) Span() scanner.Range { return d.Range }
func (d *TypeAliasDeclaration) Span() scanner.Range { return d.Range }
func (d *ImportDeclaration) Span() scanner.Range    { return d.Range }
func (d *ExportDeclaration) Span() scanner.Range    { return d.Range }
func (d *UnsupportedStatement) Span() scanner.Range { return d.Range }

func (*EnumDeclaration) statementNode()      {}
func (*InterfaceDeclaration) statementNode() {}
func (*TypeAliasDeclaration) statementNode() {}
func (*ImportDeclaration) statementNode()    {}
func (*ExportDeclaration) statementNode()    {}
func (*UnsupportedStatement) statementNode() {}
