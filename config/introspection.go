package config

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceUser        ConfigSource = "user"        // ~/.ts2swift/ts2swift.toml
	SourceProject     ConfigSource = "project"     // ts2swift.toml found upward from the working directory
	SourceExplicit    ConfigSource = "explicit"    // --config
	SourceEnvironment ConfigSource = "environment" // TS2SWIFT_* env vars
	SourceFlag        ConfigSource = "flag"
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource `json:"source"`
	// Path is a file path, environment variable or flag name
	Path string `json:"path,omitempty"`
}

// FileInfo is one config file position in the cascade
type FileInfo struct {
	Path   string       `json:"path"`
	Source ConfigSource `json:"source"`
	Exists bool         `json:"exists"`
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      any          `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// Sources records which files were considered during loading and which
// file last set each key
type Sources struct {
	Files    []FileInfo
	settings map[string]SourceInfo
}

func newSources() *Sources {
	return &Sources{settings: map[string]SourceInfo{}}
}

// record assigns info to every leaf key of settings
func (s *Sources) record(settings map[string]any, prefix string, info SourceInfo) {
	for key, value := range settings {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			s.record(nested, full, info)
			continue
		}
		s.settings[full] = info
	}
}

// MarkFlag records that a flag set key
func (s *Sources) MarkFlag(key, flag string) {
	s.settings[key] = SourceInfo{Source: SourceFlag, Path: "--" + flag}
}

// EnvKey returns the environment variable that overrides key
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Settings lists every effective setting of v, sorted by key, with the
// source that produced it
func (s *Sources) Settings(v *viper.Viper) []SettingInfo {
	var out []SettingInfo
	flattenSettings(v.AllSettings(), "", func(key string, value any) {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := s.settings[key]; ok {
			info = si
		}
		if info.Source != SourceFlag {
			if env := EnvKey(key); os.Getenv(env) != "" {
				info = SourceInfo{Source: SourceEnvironment, Path: env}
			}
		}
		out = append(out, SettingInfo{Key: key, Value: value, Source: info.Source, SourcePath: info.Path})
	})
	return out
}

func flattenSettings(settings map[string]any, prefix string, fn func(key string, value any)) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if nested, ok := settings[k].(map[string]any); ok {
			flattenSettings(nested, full, fn)
			continue
		}
		fn(full, settings[k])
	}
}
