package config

import (
	"path/filepath"
	"strings"

	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/ts/parser"
	"github.com/teranos/ts2swift/typegen/swift"
)

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	// Workers: 0 = one per CPU, negative = invalid
	if c.Batch.Workers < 0 {
		return errors.Newf("batch.workers must be >= 0, got %d", c.Batch.Workers)
	}

	switch c.Swift.PropertyCase {
	case "", swift.PropertyCasePreserve, swift.PropertyCaseCamel:
	default:
		return errors.WithHintf(
			errors.Wrapf(errors.ErrInvalidRequest, "swift.property_case %q", c.Swift.PropertyCase),
			"use %q or %q", swift.PropertyCasePreserve, swift.PropertyCaseCamel)
	}

	if err := parser.ValidateBackend(parser.Backend(c.Typegen.Parser)); err != nil {
		return errors.Wrap(err, "typegen.parser")
	}

	if err := validateExtension("batch.source_extension", c.Batch.SourceExtension); err != nil {
		return err
	}
	if err := validateExtension("batch.target_extension", c.Batch.TargetExtension); err != nil {
		return err
	}

	for _, pattern := range c.Batch.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return errors.Wrapf(err, "batch.exclude pattern %q", pattern)
		}
	}

	for i, nt := range c.Swift.NamedTypes {
		if nt.From == "" || nt.To == "" {
			return errors.Newf("swift.named_types[%d] needs both from and to", i)
		}
	}

	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	return nil
}

func validateExtension(key, ext string) error {
	if ext == "" {
		return errors.Newf("%s cannot be empty", key)
	}
	if !strings.HasPrefix(ext, ".") {
		return errors.WithHintf(errors.Newf("%s %q must start with a dot", key, ext), "try %q", "."+ext)
	}
	return nil
}
