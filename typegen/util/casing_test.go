package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLower(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"STANDARD", "standard"},
		{"Premium", "premium"},
		{"already", "already"},
		{"ÉCLAIR", "éclair"},
		{"STRAßE", "straße"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Lower(tt.in), tt.in)
	}
}

func TestToCamelCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"top_language", "topLanguage"},
		{"language_confidences", "languageConfidences"},
		{"user-id", "userId"},
		{"USER_ID", "userId"},
		{"ID", "id"},
		{"userName", "userName"},
		{"UserName", "userName"},
		{"two words", "twoWords"},
		{"__private", "private"},
		{"a_b_c", "aBC"},
		{"_", "_"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToCamelCase(tt.in))
		})
	}
}
