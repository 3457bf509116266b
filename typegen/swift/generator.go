// Package swift renders TypeScript declarations as Swift enums and structs.
package swift

// Property naming modes
const (
	PropertyCasePreserve = "preserve"
	PropertyCaseCamel    = "camel"
)

// Options configure the generated Swift
type Options struct {
	// Capabilities are protocols every generated enum and struct adopts,
	// such as Codable or Sendable
	Capabilities []string

	// AnyType is the type of a property declared without a type
	AnyType string

	// PropertyCase is PropertyCasePreserve or PropertyCaseCamel. Camel case
	// names get a CodingKeys enum mapping them back to the source names.
	PropertyCase string

	// ReadonlyAsLet declares readonly properties with let
	ReadonlyAsLet bool

	// InheritProperties copies the properties of extended interfaces into
	// each struct
	InheritProperties bool

	// NamedTypes replaces type names in the output, e.g. Date -> String
	NamedTypes map[string]string
}

// DefaultOptions returns the options that reproduce declarations one to
// one, with no added protocols
func DefaultOptions() Options {
	return Options{
		AnyType:      "Any",
		PropertyCase: PropertyCasePreserve,
	}
}

// Generator implements typegen.Generator for Swift
type Generator struct {
	opts Options
}

// NewGenerator creates a Swift generator
func NewGenerator(opts Options) *Generator {
	if opts.AnyType == "" {
		opts.AnyType = "Any"
	}
	if opts.PropertyCase == "" {
		opts.PropertyCase = PropertyCasePreserve
	}
	return &Generator{opts: opts}
}

// Language returns "swift"
func (g *Generator) Language() string {
	return "swift"
}

// FileExtension returns "swift"
func (g *Generator) FileExtension() string {
	return "swift"
}

// Options returns the generator's options
func (g *Generator) Options() Options {
	return g.opts
}
