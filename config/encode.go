package config

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/teranos/ts2swift/errors"
)

// Output formats for Marshal
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the formats Marshal accepts
var Formats = []string{FormatTOML, FormatJSON, FormatYAML}

// Marshal renders cfg in format
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case FormatTOML, "":
		data, err := toml.Marshal(cfg)
		return data, errors.Wrap(err, "failed to marshal config as TOML")
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config as JSON")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(cfg)
		return data, errors.Wrap(err, "failed to marshal config as YAML")
	}
	return nil, errors.WithHintf(
		errors.Wrapf(errors.ErrInvalidRequest, "unknown format %q", format),
		"use one of %v", Formats)
}

// Default returns the built-in configuration, ignoring files and environment
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		panic(errors.AssertionFailedf("defaults do not unmarshal: %v", err))
	}
	return cfg
}
