package pipeline

import (
	"regexp"
	"strings"
)

// Highlight markers use Private Use Area code points, which Goldmark passes
// through untouched. FinishHTML turns them into <mark> tags.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==([^=\n]+?)==`)
)

// PrepareMarkdown normalizes line endings, swaps ==text== for placeholder
// markers and collapses runs of blank lines.
func PrepareMarkdown(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// FinishHTML converts highlight placeholders left by PrepareMarkdown into
// <mark> elements.
func FinishHTML(fragment string) string {
	if !strings.Contains(fragment, MarkStartPlaceholder) {
		return fragment
	}
	r := strings.NewReplacer(MarkStartPlaceholder, "<mark>", MarkEndPlaceholder, "</mark>")
	return r.Replace(fragment)
}
