// Package config loads ts2swift settings from defaults, TOML files,
// TS2SWIFT_* environment variables and command-line flags.
package config

import (
	"github.com/teranos/ts2swift/typegen/swift"
)

// Config is the complete ts2swift configuration
type Config struct {
	Swift   SwiftConfig   `mapstructure:"swift" toml:"swift" yaml:"swift" json:"swift"`
	Typegen TypegenConfig `mapstructure:"typegen" toml:"typegen" yaml:"typegen" json:"typegen"`
	Batch   BatchConfig   `mapstructure:"batch" toml:"batch" yaml:"batch" json:"batch"`
	Watch   WatchConfig   `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
	Log     LogConfig     `mapstructure:"log" toml:"log" yaml:"log" json:"log"`

	// Sources records the files that produced this configuration
	Sources *Sources `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
}

// SwiftConfig controls Swift rendering
type SwiftConfig struct {
	// Capabilities are protocols appended to every enum and struct header
	Capabilities []string `mapstructure:"capabilities" toml:"capabilities" yaml:"capabilities" json:"capabilities"`

	// AnyType renders properties that have no type annotation
	AnyType string `mapstructure:"any_type" toml:"any_type" yaml:"any_type" json:"any_type"`

	// PropertyCase is "preserve" or "camel"
	PropertyCase string `mapstructure:"property_case" toml:"property_case" yaml:"property_case" json:"property_case"`

	ReadonlyAsLet     bool `mapstructure:"readonly_as_let" toml:"readonly_as_let" yaml:"readonly_as_let" json:"readonly_as_let"`
	InheritProperties bool `mapstructure:"inherit_properties" toml:"inherit_properties" yaml:"inherit_properties" json:"inherit_properties"`

	// NamedTypes replace named references in the output, e.g. Date -> String.
	// A list of tables keeps type names case-sensitive.
	NamedTypes []NamedType `mapstructure:"named_types" toml:"named_types" yaml:"named_types" json:"named_types"`
}

// NamedType maps a TypeScript type name to its Swift rendering
type NamedType struct {
	From string `mapstructure:"from" toml:"from" yaml:"from" json:"from"`
	To   string `mapstructure:"to" toml:"to" yaml:"to" json:"to"`
}

// TypegenConfig controls type resolution
type TypegenConfig struct {
	// ArrayTypes are generic names treated as arrays in addition to Array
	ArrayTypes []string `mapstructure:"array_types" toml:"array_types" yaml:"array_types" json:"array_types"`

	// Parser is the parser backend: native or tree-sitter
	Parser string `mapstructure:"parser" toml:"parser" yaml:"parser" json:"parser"`
}

// BatchConfig controls directory conversion
type BatchConfig struct {
	// Workers bounds parallel conversions. 0 uses one worker per CPU.
	Workers int `mapstructure:"workers" toml:"workers" yaml:"workers" json:"workers"`

	// Exclude lists directory basename patterns to skip (filepath.Match syntax)
	Exclude []string `mapstructure:"exclude" toml:"exclude" yaml:"exclude" json:"exclude"`

	SourceExtension string `mapstructure:"source_extension" toml:"source_extension" yaml:"source_extension" json:"source_extension"`
	TargetExtension string `mapstructure:"target_extension" toml:"target_extension" yaml:"target_extension" json:"target_extension"`
}

// WatchConfig controls --watch
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

// LogConfig controls log output
type LogConfig struct {
	JSON    bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	NoColor bool `mapstructure:"no_color" toml:"no_color" yaml:"no_color" json:"no_color"`
}

// SwiftOptions converts the [swift] section into generator options
func (c *Config) SwiftOptions() swift.Options {
	opts := swift.DefaultOptions()
	opts.Capabilities = append([]string(nil), c.Swift.Capabilities...)
	if c.Swift.AnyType != "" {
		opts.AnyType = c.Swift.AnyType
	}
	if c.Swift.PropertyCase != "" {
		opts.PropertyCase = c.Swift.PropertyCase
	}
	opts.ReadonlyAsLet = c.Swift.ReadonlyAsLet
	opts.InheritProperties = c.Swift.InheritProperties
	if len(c.Swift.NamedTypes) > 0 {
		opts.NamedTypes = make(map[string]string, len(c.Swift.NamedTypes))
		for _, nt := range c.Swift.NamedTypes {
			opts.NamedTypes[nt.From] = nt.To
		}
	}
	return opts
}
