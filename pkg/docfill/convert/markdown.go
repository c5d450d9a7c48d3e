package convert

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// ToMarkdown converts HTML produced by ToHTML to GitHub flavored Markdown.
// Runs of blank lines collapse to one.
func ToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}

	markdown = strings.TrimSpace(blankLines.ReplaceAllString(markdown, "\n\n"))
	if markdown == "" {
		return "", nil
	}
	return markdown + "\n", nil
}
