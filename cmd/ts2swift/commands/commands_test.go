package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/ts2swift/config"
)

const colorSource = `export enum Color {
  Red = "red",
  Green = "green",
}
`

const colorSwift = `enum Color: String {
    case red = "red"
    case green = "green"
}
`

// syncBuffer is a bytes.Buffer safe for the concurrent writes of watch mode
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// isolate gives the test an empty home and working directory so no real
// config file takes part
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr syncBuffer
	code := Execute(context.Background(), append(args, "--no-color"), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestConvertFile(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "Color.ts")
	output := filepath.Join(dir, "out", "Color.swift")
	writeFile(t, input, colorSource)

	code, stdout, stderr := run(t, "--input", input, "--output", output)
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, colorSwift, readFile(t, output))
	assert.Contains(t, stdout, "Converted 1 file (1 written, 0 unchanged)")

	code, stdout, _ = run(t, "-i", input, "-o", output)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "(0 written, 1 unchanged)")
}

func TestConvertDirectoryWithFlags(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "src", "color.ts"), colorSource)
	writeFile(t, filepath.Join(dir, "src", "models", "user.d.ts"), `import { Color } from "../color";
export interface User {
  user_name: string;
  favorite_color?: Color;
}
`)
	writeFile(t, filepath.Join(dir, "src", "node_modules", "dep.ts"), colorSource)

	code, _, stderr := run(t,
		"-i", filepath.Join(dir, "src"),
		"-o", filepath.Join(dir, "Generated"),
		"--capability", "Codable",
		"--property-case", "camel",
		"--workers", "1")
	require.Equal(t, ExitOK, code, stderr)

	assert.Equal(t, strings.Replace(colorSwift, "enum Color: String {", "enum Color: String, Codable {", 1),
		readFile(t, filepath.Join(dir, "Generated", "color.swift")))
	assert.Equal(t, `struct User: Codable {
    var userName: String
    var favoriteColor: Color?

    enum CodingKeys: String, CodingKey {
        case userName = "user_name"
        case favoriteColor = "favorite_color"
    }
}
`, readFile(t, filepath.Join(dir, "Generated", "models", "user.swift")))
	assert.NoDirExists(t, filepath.Join(dir, "Generated", "node_modules"))
}

func TestProjectConfigAndEnvironment(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, config.FileName), `
[swift]
capabilities = ["Sendable"]
named_types = [{ from = "Date", to = "String" }]
`)
	writeFile(t, filepath.Join(dir, "Event.ts"), "export interface Event {\n  at: Date;\n  payload;\n}\n")
	t.Setenv("TS2SWIFT_SWIFT_ANY_TYPE", "AnyCodable")

	output := filepath.Join(dir, "Event.swift")
	code, _, stderr := run(t, "-i", filepath.Join(dir, "Event.ts"), "-o", output)
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, "struct Event: Sendable {\n    var at: String\n    var payload: AnyCodable\n}\n", readFile(t, output))
}

func TestMissingInput(t *testing.T) {
	dir := isolate(t)
	code, _, stderr := run(t, "-i", filepath.Join(dir, "nope.ts"), "-o", filepath.Join(dir, "out.swift"))
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "Cannot read input")
	assert.Contains(t, stderr, "Error: input "+filepath.Join(dir, "nope.ts")+": not found")
	assert.Contains(t, stderr, "Hint: pass --input")
}

func TestRequiredFlags(t *testing.T) {
	isolate(t)
	code, _, stderr := run(t)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, `required flag(s) "input", "output" not set`)

	code, _, stderr = run(t, "--bogus")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "unknown flag: --bogus")

	code, _, _ = run(t, "-i", "a.ts", "-o", "a.swift", "extra")
	assert.Equal(t, ExitUsage, code)
}

func TestConversionFailureExitCode(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "src", "bad.ts"), "interface Broken {\n  a: ;\n}\n")
	writeFile(t, filepath.Join(dir, "src", "good.ts"), colorSource)

	code, stdout, stderr := run(t, "-i", filepath.Join(dir, "src"), "-o", filepath.Join(dir, "out"))
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "1 of 2 files failed to convert")
	assert.Contains(t, stderr, "bad.ts:2:")
	assert.Contains(t, stdout, "Converted 1 of 2 files, 1 failed")
	assert.Equal(t, colorSwift, readFile(t, filepath.Join(dir, "out", "good.swift")))
}

func TestInvalidConfigIsUsageError(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, config.FileName), "[swift]\nproperty_case = \"snake\"\n")
	writeFile(t, filepath.Join(dir, "a.ts"), colorSource)

	code, _, stderr := run(t, "-i", filepath.Join(dir, "a.ts"), "-o", filepath.Join(dir, "a.swift"))
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "configuration validation failed")
	assert.Contains(t, stderr, "Hint: use \"preserve\" or \"camel\"")

	code, _, _ = run(t, "config", "validate")
	assert.Equal(t, ExitUsage, code)

	code, stdout, _ := run(t, "config", "show")
	assert.Equal(t, ExitOK, code, "show works on invalid configuration")
	assert.Contains(t, stdout, "snake")
}

func TestCheck(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(src, "a.ts"), colorSource)

	code, stdout, stderr := run(t, "check", "-i", src, "-o", out)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "missing  "+filepath.Join(out, "a.swift"))
	assert.Contains(t, stderr, "1 generated files: output out of date")
	assert.Contains(t, stderr, "Hint: run 'ts2swift --input")
	assert.NoFileExists(t, filepath.Join(out, "a.swift"))

	code, _, _ = run(t, "-i", src, "-o", out)
	require.Equal(t, ExitOK, code)

	code, stdout, _ = run(t, "check", "-i", src, "-o", out)
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Generated Swift is up to date")

	writeFile(t, filepath.Join(out, "a.swift"), "// edited\n")
	code, stdout, _ = run(t, "check", "-i", src, "-o", out)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "stale    "+filepath.Join(out, "a.swift"))
}

func TestConfigShow(t *testing.T) {
	isolate(t)

	t.Run("toml", func(t *testing.T) {
		code, stdout, _ := run(t, "config", "show")
		require.Equal(t, ExitOK, code)
		assert.True(t, strings.HasPrefix(stdout, "# ts2swift configuration\n"))
		assert.Contains(t, stdout, "[swift]")
		assert.Contains(t, stdout, "[batch]")
	})

	t.Run("json", func(t *testing.T) {
		code, stdout, _ := run(t, "config", "show", "--format", "json")
		require.Equal(t, ExitOK, code)
		var cfg config.Config
		require.NoError(t, json.Unmarshal([]byte(stdout), &cfg))
		assert.Equal(t, "Any", cfg.Swift.AnyType)
		assert.Equal(t, []string{"Array"}, cfg.Typegen.ArrayTypes)
	})

	t.Run("yaml", func(t *testing.T) {
		code, stdout, _ := run(t, "config", "show", "-f", "yaml")
		require.Equal(t, ExitOK, code)
		var cfg config.Config
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &cfg))
		assert.Equal(t, ".swift", cfg.Batch.TargetExtension)
	})

	t.Run("unknown format", func(t *testing.T) {
		code, _, stderr := run(t, "config", "show", "--format", "ini")
		assert.Equal(t, ExitUsage, code)
		assert.Contains(t, stderr, `unknown format "ini"`)
	})
}

func TestConfigWhere(t *testing.T) {
	dir := isolate(t)
	project := filepath.Join(dir, config.FileName)
	writeFile(t, project, "[swift]\nany_type = \"AnyCodable\"\n")

	code, stdout, stderr := run(t, "config", "where")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "[DEFAULT]  Built-in defaults")
	assert.Contains(t, stdout, "[USER]")
	assert.Contains(t, stdout, "[PROJECT]  "+project+" (loaded)")
	assert.Contains(t, stdout, "TS2SWIFT_* environment variables")
	assert.Contains(t, stdout, "swift.any_type")
	assert.Contains(t, stdout, "AnyCodable")
	assert.Contains(t, stdout, project)
	assert.Contains(t, stdout, "--no-color", "flags are reported as a source")
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)

	code, stdout, stderr := run(t, "config", "init")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "Wrote "+filepath.Join(dir, config.FileName))

	cfg, err := config.LoadFromFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAnyType, cfg.Swift.AnyType)

	code, stdout, _ = run(t, "config", "init")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Previous file kept as")
	assert.FileExists(t, filepath.Join(dir, config.FileName+".back1"))
}

func TestVersion(t *testing.T) {
	isolate(t)

	code, stdout, _ := run(t, "version")
	require.Equal(t, ExitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "ts2swift "))

	code, stdout, _ = run(t, "version", "--json")
	require.Equal(t, ExitOK, code)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Contains(t, info, "go_version")
}

func TestWatch(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(src, "color.ts"), colorSource)
	t.Setenv("TS2SWIFT_WATCH_DEBOUNCE_MS", "50")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	exit := make(chan int, 1)
	go func() {
		exit <- Execute(ctx, []string{"-i", src, "-o", out, "--watch", "--no-color"}, &stdout, &stderr)
	}()

	require.Eventually(t, func() bool { return strings.Contains(stdout.String(), "Watching") },
		5*time.Second, 10*time.Millisecond, stderr.String())
	assert.Equal(t, colorSwift, readFile(t, filepath.Join(out, "color.swift")))

	writeFile(t, filepath.Join(src, "color.ts"), "export enum Color { Blue }\n")
	writeFile(t, filepath.Join(src, "nested", "shape.ts"), "export interface Shape { sides: number }\n")

	require.Eventually(t, func() bool {
		color, err := os.ReadFile(filepath.Join(out, "color.swift"))
		if err != nil || string(color) != "enum Color: Int {\n    case blue\n}\n" {
			return false
		}
		shape, err := os.ReadFile(filepath.Join(out, "nested", "shape.swift"))
		return err == nil && string(shape) == "struct Shape {\n    var sides: Double\n}\n"
	}, 5*time.Second, 20*time.Millisecond, stderr.String())

	cancel()
	select {
	case code := <-exit:
		assert.Equal(t, ExitOK, code, stderr.String())
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestChangeQueueMerges(t *testing.T) {
	q := newChangeQueue()
	q.add([]string{"b.ts", "a.ts"})
	q.add([]string{"a.ts", "c.ts"})

	select {
	case <-q.ready:
	default:
		t.Fatal("queue not signalled")
	}
	assert.Equal(t, []string{"a.ts", "b.ts", "c.ts"}, q.take())
	assert.Empty(t, q.take())
}
