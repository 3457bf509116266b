package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 100 * time.Millisecond

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// start runs a watcher on root and returns the channel its batches arrive on
func start(t *testing.T, root string, opts Options) <-chan []string {
	t.Helper()
	if opts.Debounce == 0 {
		opts.Debounce = testDebounce
	}
	if opts.Extensions == nil {
		opts.Extensions = []string{".ts"}
	}

	changes := make(chan []string, 16)
	w, err := New(root, opts, func(paths []string) { changes <- paths })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, w.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return changes
}

func next(t *testing.T, changes <-chan []string) []string {
	t.Helper()
	select {
	case paths := <-changes:
		return paths
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
		return nil
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	root := t.TempDir()
	changes := start(t, root, Options{})

	a := filepath.Join(root, "a.ts")
	b := filepath.Join(root, "b.ts")
	write(t, a, "export enum A { X }")
	write(t, b, "export enum B { Y }")
	write(t, a, "export enum A { X, Z }")

	assert.Equal(t, []string{a, b}, next(t, changes))
}

func TestWatcherFiltersPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "lib"), 0o755))
	changes := start(t, root, Options{Exclude: []string{"node_modules"}})

	write(t, filepath.Join(root, "node_modules", "lib", "x.ts"), "")
	write(t, filepath.Join(root, "notes.md"), "")
	kept := filepath.Join(root, "kept.ts")
	write(t, kept, "")

	assert.Equal(t, []string{kept}, next(t, changes))
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	changes := start(t, root, Options{})

	nested := filepath.Join(root, "models", "deep", "user.ts")
	write(t, nested, "export interface User { id: string }")

	assert.Contains(t, next(t, changes), nested)
}

func TestWatcherExtraFiles(t *testing.T) {
	root := t.TempDir()
	configDir := t.TempDir()
	config := filepath.Join(configDir, "ts2swift.toml")
	write(t, config, "")

	changes := start(t, root, Options{Files: []string{config}})

	write(t, filepath.Join(configDir, "other.toml"), "")
	write(t, config, "[swift]\n")

	assert.Equal(t, []string{config}, next(t, changes))
}

func TestWatcherFileRoot(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "models.ts")
	write(t, input, "")
	changes := start(t, input, Options{})

	dep := filepath.Join(root, "enums.ts")
	write(t, dep, "export enum E { A }")

	assert.Equal(t, []string{dep}, next(t, changes))
}

func TestNewMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), Options{}, func([]string) {})
	require.Error(t, err)
}

func TestRelevant(t *testing.T) {
	root := t.TempDir()
	w := &Watcher{
		root:  root,
		opts:  Options{Extensions: []string{".ts"}, Exclude: []string{"node_modules", "dist*"}},
		files: map[string]bool{"/etc/ts2swift.toml": true},
	}

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "a.ts"), true},
		{filepath.Join(root, "x", "b.d.ts"), true},
		{filepath.Join(root, "a.swift"), false},
		{filepath.Join(root, "node_modules", "a.ts"), false},
		{filepath.Join(root, "dist-es", "a.ts"), false},
		{filepath.Join(root+"-sibling", "a.ts"), false},
		{"/etc/ts2swift.toml", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.path))
		})
	}
}
