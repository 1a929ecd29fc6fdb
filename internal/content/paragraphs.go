package content

import (
	"regexp"
	"strings"
)

var blankLines = regexp.MustCompile(`\n[ \t]*\n`)

// SplitParagraphs turns free text into paragraphs split on blank lines.
// Runs of blank lines collapse into a single break, so the result does not
// round-trip through JoinParagraphs byte for byte.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := blankLines.Split(text, -1)

	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

func JoinParagraphs(paragraphs []string) string {
	return strings.Join(paragraphs, "\n\n")
}
