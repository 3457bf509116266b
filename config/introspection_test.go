package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingByKey(settings []SettingInfo, key string) (SettingInfo, bool) {
	for _, s := range settings {
		if s.Key == key {
			return s, true
		}
	}
	return SettingInfo{}, false
}

func TestSettingsSources(t *testing.T) {
	opts, home, project := isolated(t)
	writeFile(t, UserConfigPath(home), "[swift]\nany_type = \"AnyCodable\"\n")
	projectFile := filepath.Join(project, FileName)
	writeFile(t, projectFile, "[swift]\nreadonly_as_let = true\n")
	t.Setenv("TS2SWIFT_SWIFT_PROPERTY_CASE", "camel")

	v, sources, err := NewViper(opts)
	require.NoError(t, err)
	v.Set("batch.workers", 3)
	sources.MarkFlag("batch.workers", "workers")

	settings := sources.Settings(v)
	for i := 1; i < len(settings); i++ {
		assert.Less(t, settings[i-1].Key, settings[i].Key, "settings are sorted")
	}

	tests := []struct {
		key    string
		source ConfigSource
		path   string
	}{
		{key: "swift.any_type", source: SourceUser, path: UserConfigPath(home)},
		{key: "swift.readonly_as_let", source: SourceProject, path: projectFile},
		{key: "swift.property_case", source: SourceEnvironment, path: "TS2SWIFT_SWIFT_PROPERTY_CASE"},
		{key: "batch.workers", source: SourceFlag, path: "--workers"},
		{key: "batch.source_extension", source: SourceDefault, path: "built-in default"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s, ok := settingByKey(settings, tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.source, s.Source)
			assert.Equal(t, tt.path, s.SourcePath)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "TS2SWIFT_SWIFT_ANY_TYPE", EnvKey("swift.any_type"))
	assert.Equal(t, "TS2SWIFT_BATCH_WORKERS", EnvKey("batch.workers"))
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	writeFile(t, filepath.Join(nested, "placeholder"), "")

	assert.Empty(t, findProjectConfig(nested))

	writeFile(t, filepath.Join(root, "a", FileName), "")
	assert.Equal(t, filepath.Join(root, "a", FileName), findProjectConfig(nested))
}
