// Package slug provides URL-friendly slug generation from titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a lowercase letter, digit,
	// space, or hyphen after lowercasing.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given title.
// Example: "My category" -> "my-category".
func Generate(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, "_", " ")
	s = nonAlphanumeric.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Generator adapts Generate to the interface the command handlers expect.
type Generator struct{}

func (Generator) Generate(title string) string {
	return Generate(title)
}
