package typegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "User.swift")
	require.NoError(t, os.WriteFile(path, []byte("struct User {\n}\n"), 0644))

	state, err := CompareFile(path, []byte("struct User {\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, FileCurrent, state)

	state, err = CompareFile(path, []byte("struct User {\n    var id: String\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, FileStale, state)

	state, err = CompareFile(filepath.Join(dir, "Missing.swift"), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, FileMissing, state)
}

func TestCompareOutputs(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "a.swift")
	stale := filepath.Join(dir, "b.swift")
	missing := filepath.Join(dir, "nested", "c.swift")
	require.NoError(t, os.WriteFile(current, []byte("same"), 0644))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	result, err := CompareOutputs(map[string][]byte{
		current: []byte("same"),
		stale:   []byte("new"),
		missing: []byte("fresh"),
	})
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{stale}, result.Stale)
	assert.Equal(t, []string{missing}, result.Missing)

	result, err = CompareOutputs(map[string][]byte{current: []byte("same")})
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
}

func TestCompareOutputsUnreadable(t *testing.T) {
	dir := t.TempDir()
	// A directory where a file is expected cannot be read as one
	result, err := CompareOutputs(map[string][]byte{dir: []byte("x")})
	require.Error(t, err)
	assert.Equal(t, []string{dir}, result.Stale)
}

func TestFileStateString(t *testing.T) {
	assert.Equal(t, "current", FileCurrent.String())
	assert.Equal(t, "stale", FileStale.String())
	assert.Equal(t, "missing", FileMissing.String())
}
