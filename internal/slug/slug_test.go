package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "My category", "my-category"},
		{"already slug", "my-category", "my-category"},
		{"punctuation stripped", "Hello, World!", "hello-world"},
		{"underscores become hyphens", "snake_case_title", "snake-case-title"},
		{"consecutive separators collapse", "a  --  b", "a-b"},
		{"surrounding whitespace", "  Trimmed  ", "trimmed"},
		{"digits kept", "Summer Sale 2026", "summer-sale-2026"},
		{"empty input", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.input))
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	var g Generator
	assert.Equal(t, "my-category", g.Generate("My category"))
}
