package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/ts2swift/errors"
)

const (
	// EnvPrefix prefixes environment overrides: swift.any_type is
	// TS2SWIFT_SWIFT_ANY_TYPE
	EnvPrefix = "TS2SWIFT"

	// FileName is the name of user and project config files
	FileName = "ts2swift.toml"

	// UserDir holds the user config file, relative to the home directory
	UserDir = ".ts2swift"
)

// LoadOptions select the files Load considers
type LoadOptions struct {
	// File is an explicit config file (--config). It replaces the project
	// file search and must exist.
	File string

	// Dir starts the upward search for a project file. Defaults to the
	// working directory.
	Dir string

	// Home locates the user config. Defaults to the user's home directory;
	// "-" disables the user config.
	Home string
}

// Load resolves the full cascade into a Config:
// defaults < ~/.ts2swift/ts2swift.toml < project ts2swift.toml < TS2SWIFT_* env
func Load(opts LoadOptions) (*Config, error) {
	v, sources, err := NewViper(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources
	return cfg, nil
}

// NewViper builds a viper instance with defaults, config files and
// environment bound. Callers may bind flags before calling LoadWithViper.
func NewViper(opts LoadOptions) (*viper.Viper, *Sources, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	sources := newSources()
	if err := mergeConfigFiles(v, configPaths(opts), sources); err != nil {
		return nil, nil, err
	}
	return v, sources, nil
}

// LoadWithViper unmarshals an already configured viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile loads defaults plus a single file, without environment
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return LoadWithViper(v)
}

// candidate is a config file position in the cascade
type candidate struct {
	path     string
	source   ConfigSource
	required bool
}

func configPaths(opts LoadOptions) []candidate {
	var paths []candidate

	home := opts.Home
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home != "" && home != "-" {
		paths = append(paths, candidate{path: UserConfigPath(home), source: SourceUser})
	}

	switch {
	case opts.File != "":
		paths = append(paths, candidate{path: opts.File, source: SourceExplicit, required: true})
	default:
		dir := opts.Dir
		if dir == "" {
			dir, _ = os.Getwd()
		}
		if project := findProjectConfig(dir); project != "" {
			paths = append(paths, candidate{path: project, source: SourceProject})
		}
	}
	return paths
}

// UserConfigPath returns ~/.ts2swift/ts2swift.toml for home
func UserConfigPath(home string) string {
	return filepath.Join(home, UserDir, FileName)
}

// findProjectConfig walks up from dir looking for ts2swift.toml and
// returns the first match, or "" when none exists up to the root
func findProjectConfig(dir string) string {
	if dir == "" {
		return ""
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges each existing file in order, later files taking
// precedence. Files sit below environment variables and flags.
func mergeConfigFiles(v *viper.Viper, paths []candidate, sources *Sources) error {
	seen := map[string]bool{}
	for _, c := range paths {
		if seen[c.path] {
			continue
		}
		seen[c.path] = true

		_, statErr := os.Stat(c.path)
		exists := statErr == nil
		sources.Files = append(sources.Files, FileInfo{Path: c.path, Source: c.source, Exists: exists})
		if !exists {
			if c.required {
				return errors.WithHint(
					errors.NewNotFoundError("config file %s", c.path),
					"check the --config path, or omit it to search for "+FileName)
			}
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(c.path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			return errors.WithHint(
				errors.Wrapf(err, "failed to parse config file %s", c.path),
				"config files are TOML; run 'ts2swift config show' to see the expected layout")
		}

		settings := fileViper.AllSettings()
		if err := v.MergeConfigMap(settings); err != nil {
			return errors.Wrapf(err, "failed to merge config file %s", c.path)
		}
		sources.record(settings, "", SourceInfo{Source: c.source, Path: c.path})
	}
	return nil
}
