package swift

import (
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ts2swift/ts/checker"
	"github.com/teranos/ts2swift/typegen"
)

var update = flag.Bool("update", false, "rewrite golden files in testdata/output")

// TestGolden converts every file under testdata/input and compares the
// result with the file of the same relative path under testdata/output
func TestGolden(t *testing.T) {
	inputRoot := filepath.Join("testdata", "input")
	outputRoot := filepath.Join("testdata", "output")

	var inputs []string
	err := filepath.WalkDir(inputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".ts") {
			inputs = append(inputs, path)
		}
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, inputs)

	g := NewGenerator(DefaultOptions())
	for _, input := range inputs {
		rel, err := filepath.Rel(inputRoot, input)
		require.NoError(t, err)
		golden := filepath.Join(outputRoot, strings.TrimSuffix(rel, ".ts")+".swift")

		t.Run(filepath.ToSlash(rel), func(t *testing.T) {
			prog, err := checker.NewProgram(input, checker.OSHost(), checker.Options{})
			require.NoError(t, err)
			got := typegen.ConvertProgram(prog, g).Content

			if *update {
				require.NoError(t, os.MkdirAll(filepath.Dir(golden), 0755))
				require.NoError(t, os.WriteFile(golden, []byte(got), 0644))
				return
			}
			want, err := os.ReadFile(golden)
			require.NoError(t, err)
			assert.Equal(t, string(want), got)
		})
	}
}
