package render

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern = regexp.MustCompile(`<[^>]+>`)

	// placeholderPattern matches {{ name }}; the name never contains '}'.
	placeholderPattern = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)
)

// PlaceholderName turns the raw text between the delimiters into the name
// used for resolution: surrounding whitespace trimmed and XML character
// references decoded.
func PlaceholderName(raw string) string {
	return strings.TrimSpace(html.UnescapeString(strings.TrimSpace(raw)))
}

// Extract returns the unique placeholder names of markup in order of first
// appearance. Tags are stripped before scanning, so the markup should already
// have been merged. Pass TextContent(markup) to see only the names Fill can
// replace.
func Extract(markup string) []string {
	plain := tagPattern.ReplaceAllString(markup, "")

	names := []string{}
	seen := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(plain, -1) {
		name := PlaceholderName(m[1])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// FindTokens returns every raw {{...}} token of markup, duplicates included.
// It is meant for diagnostics and debugging.
func FindTokens(markup string) []string {
	plain := tagPattern.ReplaceAllString(markup, "")
	tokens := placeholderPattern.FindAllString(plain, -1)
	if tokens == nil {
		return []string{}
	}
	return tokens
}
