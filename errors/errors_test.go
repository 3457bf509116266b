package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	base := New("unexpected token")
	wrapped := Wrapf(base, "convert %s", "models.ts")

	assert.Equal(t, "convert models.ts: unexpected token", wrapped.Error())
	assert.True(t, Is(wrapped, base))
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NewNotFoundError("input %s", "src/"), IsNotFoundError},
		{"invalid request", NewInvalidRequestError("workers must be >= 0, got %d", -1), IsInvalidRequestError},
		{"parse", WrapParse(New("expected '}'"), "a.ts"), IsParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(Wrap(tt.err, "outer")))
			assert.False(t, tt.check(nil))
			assert.False(t, tt.check(New("unrelated")))
		})
	}
}

func TestNewNotFoundErrorMessage(t *testing.T) {
	err := NewNotFoundError("input %s", "models.ts")
	assert.Equal(t, "input models.ts: not found", err.Error())
}

func TestWrapParseKeepsOriginal(t *testing.T) {
	err := WrapParse(fs.ErrPermission, "a.ts")
	assert.True(t, Is(err, ErrParse))
	assert.True(t, Is(err, fs.ErrPermission))
	assert.Contains(t, err.Error(), "parse a.ts")
}

type positioned struct{ line int }

func (p *positioned) Error() string { return fmt.Sprintf("line %d", p.line) }

func TestAsThroughWrap(t *testing.T) {
	wrapped := Wrap(&positioned{line: 3}, "parse")

	var target *positioned
	require.True(t, As(wrapped, &target))
	assert.Equal(t, 3, target.line)
}

func TestHints(t *testing.T) {
	err := WithHint(NewNotFoundError("input %s", "x.ts"), "check the --input path")
	err = WithHintf(err, "run from the project root, not %s", "/tmp")
	err = Wrap(err, "convert")

	hints := GetAllHints(err)
	require.Len(t, hints, 2)
	assert.Equal(t, "check the --input path", hints[0])
	assert.Contains(t, FlattenHints(err), "/tmp")
	assert.True(t, IsNotFoundError(err))
}

func TestJoin(t *testing.T) {
	err := Join(WrapParse(New("bad"), "a.ts"), NewNotFoundError("b.ts"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse a.ts: bad")
	assert.Contains(t, err.Error(), "b.ts: not found")
	assert.Nil(t, Join(nil, nil))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func TestStackTrace(t *testing.T) {
	detailed := fmt.Sprintf("%+v", New("with stack"))
	assert.Contains(t, detailed, "errors_test.go")
}

func ExampleWithHint() {
	err := WithHint(New("no declarations"), "the file only contains functions")
	fmt.Println(GetAllHints(err)[0])
	// Output: the file only contains functions
}

func TestMarkClassifiesWithoutRewording(t *testing.T) {
	err := Mark(Newf("batch.workers must be >= 0, got %d", -1), ErrInvalidRequest)
	assert.True(t, IsInvalidRequestError(err))
	assert.Equal(t, "batch.workers must be >= 0, got -1", err.Error())
}
