package checker

import (
	"path/filepath"
	"strings"

	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/ts/ast"
	"github.com/teranos/ts2swift/ts/parser"
)

// Options configure type checking
type Options struct {
	// ArrayTypes are generic type names treated as arrays when given exactly
	// one type argument. "Array" is always included.
	ArrayTypes []string

	// Parser selects the parser backend. Empty means parser.BackendNative.
	Parser parser.Backend
}

// Program is a root source file together with every file it reaches
// through relative imports and re-exports, bound into one Checker
type Program struct {
	root    *ast.SourceFile
	files   []*ast.SourceFile
	checker *Checker

	// Diagnostics are non-fatal problems with dependency files: imports
	// that do not resolve, files that fail to read or parse. Names from
	// such modules are left unresolved.
	Diagnostics []error
}

// NewProgram parses root and its relative dependencies and binds their
// declarations. Only a failure to read or parse root itself is an error.
func NewProgram(root string, host Host, opts Options) (*Program, error) {
	root = filepath.Clean(root)
	src, err := host.ReadFile(root)
	if err != nil {
		return nil, err
	}
	rootFile, err := parser.ParseWith(opts.Parser, root, src)
	if err != nil {
		return nil, err
	}

	p := &Program{root: rootFile, checker: newChecker(opts)}
	loaded := map[string]*ast.SourceFile{root: rootFile}
	queue := []string{root}
	modules := map[string]map[string]string{}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		file := loaded[path]
		p.files = append(p.files, file)

		resolved := map[string]string{}
		for _, spec := range moduleSpecifiers(file) {
			if _, done := resolved[spec]; done {
				continue
			}
			target, ok := resolveModule(host, path, spec)
			if !ok {
				if isRelative(spec) {
					p.Diagnostics = append(p.Diagnostics,
						errors.NewNotFoundError("module %q imported from %s", spec, path))
				}
				continue
			}
			resolved[spec] = target
			if _, seen := loaded[target]; seen {
				continue
			}

			dep, err := loadFile(host, target, opts.Parser)
			if err != nil {
				p.Diagnostics = append(p.Diagnostics, errors.Wrapf(err, "load dependency of %s", path))
				delete(resolved, spec)
				continue
			}
			loaded[target] = dep
			queue = append(queue, target)
		}
		modules[path] = resolved
	}

	for _, file := range p.files {
		p.checker.bind(file, modules[file.FileName])
	}
	return p, nil
}

func loadFile(host Host, path string, backend parser.Backend) (*ast.SourceFile, error) {
	src, err := host.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parser.ParseWith(backend, path, src)
}

// Root returns the parsed root file
func (p *Program) Root() *ast.SourceFile { return p.root }

// Files returns every file in the program, root first
func (p *Program) Files() []*ast.SourceFile { return p.files }

// Checker returns the binding context shared by all files of the program
func (p *Program) Checker() *Checker { return p.checker }

func moduleSpecifiers(file *ast.SourceFile) []string {
	var specs []string
	for _, stmt := range file.Statements {
		switch s := stmt.(type) {
		case *ast.ImportDeclaration:
			specs = append(specs, s.ModuleSpecifier)
		case *ast.ExportDeclaration:
			if s.ModuleSpecifier != "" {
				specs = append(specs, s.ModuleSpecifier)
			}
		}
	}
	return specs
}

func isRelative(spec string) bool {
	return spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// resolveModule maps a relative module specifier to a source file the way
// TypeScript's classic resolution does for .ts sources
func resolveModule(host Host, from, spec string) (string, bool) {
	if !isRelative(spec) {
		return "", false
	}
	base := filepath.Join(filepath.Dir(from), filepath.FromSlash(spec))

	var candidates []string
	switch ext := filepath.Ext(base); ext {
	case ".ts", ".tsx":
		candidates = append(candidates, base)
	case ".js", ".jsx":
		stem := strings.TrimSuffix(base, ext)
		candidates = append(candidates, stem+".ts", stem+".tsx", stem+".d.ts")
	}
	for _, suffix := range []string{".ts", ".tsx", ".d.ts"} {
		candidates = append(candidates, base+suffix)
	}
	for _, index := range []string{"index.ts", "index.tsx", "index.d.ts"} {
		candidates = append(candidates, filepath.Join(base, index))
	}

	for _, candidate := range candidates {
		if host.FileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
