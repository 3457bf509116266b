package checker

import (
	"strconv"
	"strings"

	"github.com/teranos/ts2swift/ts/ast"
)

// SymbolKind identifies what a Symbol declares
type SymbolKind int

const (
	SymbolEnum SymbolKind = iota
	SymbolEnumMember
	SymbolInterface
	SymbolAlias
	// SymbolGlobal is a name with no declaration in the program, such as
	// Array, Promise or Date
	SymbolGlobal
)

// ValueKind is the kind of constant an enum member evaluates to
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueString
	ValueNumber
)

// Symbol is a named declaration
type Symbol struct {
	Name string
	Kind SymbolKind
	File *ast.SourceFile

	Enums      []*ast.EnumDeclaration
	Interfaces []*ast.InterfaceDeclaration
	Alias      *ast.TypeAliasDeclaration

	// Members and MemberOrder list the members of an enum
	Members     map[string]*Symbol
	MemberOrder []*Symbol

	// Enum member fields
	Parent *Symbol
	Member *ast.EnumMember
	// Value is the decoded string or the numeric text of a constant member
	Value     string
	ValueKind ValueKind
}

type importRef struct {
	module string
	name   string
}

type exportRef struct {
	// module is empty for a binding of the exporting file itself
	module string
	name   string
}

// scope holds the top-level bindings of one source file
type scope struct {
	file       *ast.SourceFile
	locals     map[string]*Symbol
	imports    map[string]importRef
	namespaces map[string]string
	exports    map[string]exportRef
	stars      []string
}

func newScope(file *ast.SourceFile) *scope {
	return &scope{
		file:       file,
		locals:     map[string]*Symbol{},
		imports:    map[string]importRef{},
		namespaces: map[string]string{},
		exports:    map[string]exportRef{},
	}
}

// bind declares the top-level names of file. modules maps the file's
// module specifiers to loaded file paths; unresolved specifiers are absent.
func (c *Checker) bind(file *ast.SourceFile, modules map[string]string) {
	s := newScope(file)
	c.scopes[file] = s
	c.modules[file.FileName] = s

	for _, stmt := range file.Statements {
		switch d := stmt.(type) {
		case *ast.EnumDeclaration:
			c.bindEnum(s, d)
			s.export(d.Modifiers, d.Name)
		case *ast.InterfaceDeclaration:
			sym := s.declare(d.Name, SymbolInterface)
			if sym.Kind == SymbolInterface {
				sym.Interfaces = append(sym.Interfaces, d)
			}
			s.export(d.Modifiers, d.Name)
		case *ast.TypeAliasDeclaration:
			sym := s.declare(d.Name, SymbolAlias)
			if sym.Kind == SymbolAlias && sym.Alias == nil {
				sym.Alias = d
			}
			s.export(d.Modifiers, d.Name)
		case *ast.ImportDeclaration:
			module := modules[d.ModuleSpecifier]
			if d.Default != "" {
				s.imports[d.Default] = importRef{module: module, name: "default"}
			}
			if d.Namespace != "" {
				s.namespaces[d.Namespace] = module
			}
			for _, spec := range d.Specifiers {
				s.imports[spec.Alias] = importRef{module: module, name: spec.Name}
			}
		case *ast.ExportDeclaration:
			module := ""
			if d.ModuleSpecifier != "" {
				module = modules[d.ModuleSpecifier]
				if module == "" {
					continue
				}
			}
			if d.All {
				if d.Namespace == "" {
					s.stars = append(s.stars, module)
				}
				continue
			}
			for _, spec := range d.Specifiers {
				s.exports[spec.Alias] = exportRef{module: module, name: spec.Name}
			}
		}
	}
}

// declare returns the symbol for name, creating it with kind if absent.
// A name declared twice with different kinds keeps its first kind.
func (s *scope) declare(name string, kind SymbolKind) *Symbol {
	if sym, ok := s.locals[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name, Kind: kind, File: s.file}
	s.locals[name] = sym
	return sym
}

func (s *scope) export(mods ast.Modifiers, name string) {
	switch {
	case mods.Default:
		s.exports["default"] = exportRef{name: name}
	case mods.Export:
		s.exports[name] = exportRef{name: name}
	}
}

// bindEnum declares an enum and evaluates its members: auto-numbered
// members continue from the previous numeric value, starting at 0.
func (c *Checker) bindEnum(s *scope, decl *ast.EnumDeclaration) {
	sym := s.declare(decl.Name, SymbolEnum)
	if sym.Kind != SymbolEnum {
		return
	}
	if sym.Members == nil {
		sym.Members = map[string]*Symbol{}
	}
	sym.Enums = append(sym.Enums, decl)

	next, known := 0.0, true
	for _, m := range decl.Members {
		member := &Symbol{Name: m.Name, Kind: SymbolEnumMember, File: s.file, Parent: sym, Member: m}
		switch {
		case m.Initializer == nil:
			if known {
				member.Value = strconv.FormatFloat(next, 'f', -1, 64)
				member.ValueKind = ValueNumber
				next++
			}
		case m.Initializer.Kind == ast.ExpressionString:
			member.Value = m.Initializer.Value
			member.ValueKind = ValueString
			known = false
		case m.Initializer.Kind == ast.ExpressionNumber:
			member.Value = m.Initializer.Text
			member.ValueKind = ValueNumber
			if v, ok := parseNumber(m.Initializer.Text); ok {
				next, known = v+1, true
			} else {
				known = false
			}
		default:
			known = false
		}
		if _, dup := sym.Members[m.Name]; !dup {
			sym.Members[m.Name] = member
			sym.MemberOrder = append(sym.MemberOrder, member)
		}
	}
}

// parseNumber evaluates a numeric literal with optional sign, base prefix
// and digit separators
func parseNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(text, "_", "")
	sign := 1.0
	switch {
	case strings.HasPrefix(text, "-"):
		sign, text = -1, text[1:]
	case strings.HasPrefix(text, "+"):
		text = text[1:]
	}
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		v, err := strconv.ParseInt(lower, 0, 64)
		if err != nil {
			return 0, false
		}
		return sign * float64(v), true
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return sign * v, true
}
