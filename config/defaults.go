package config

import (
	"runtime"

	"github.com/spf13/viper"
)

// Default values shared with the CLI help text
const (
	DefaultAnyType         = "Any"
	DefaultPropertyCase    = "preserve"
	DefaultSourceExtension = ".ts"
	DefaultTargetExtension = ".swift"
	DefaultDebounceMS      = 500
	DefaultParser          = "native"
)

// SetDefaults configures default values for all configuration options.
// Every key is registered here so TS2SWIFT_* variables reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	// Swift rendering
	v.SetDefault("swift.capabilities", []string{})
	v.SetDefault("swift.any_type", DefaultAnyType)
	v.SetDefault("swift.property_case", DefaultPropertyCase)
	v.SetDefault("swift.readonly_as_let", false)
	v.SetDefault("swift.inherit_properties", false)
	v.SetDefault("swift.named_types", []map[string]any{})

	// Type resolution
	v.SetDefault("typegen.array_types", []string{"Array"})
	v.SetDefault("typegen.parser", DefaultParser)

	// Batch conversion
	v.SetDefault("batch.workers", runtime.NumCPU())
	v.SetDefault("batch.exclude", []string{"node_modules"})
	v.SetDefault("batch.source_extension", DefaultSourceExtension)
	v.SetDefault("batch.target_extension", DefaultTargetExtension)

	// Watch mode
	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)

	// Logging
	v.SetDefault("log.json", false)
	v.SetDefault("log.no_color", false)
}
