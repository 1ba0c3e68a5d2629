package validate

import (
	"strings"
)

// CountWords counts whitespace-separated tokens. The advisory length
// thresholds are defined against raw token counts, so no markdown stripping
// happens here.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// CountHeadings counts lines that begin with a markdown heading marker.
func CountHeadings(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			count++
		}
	}
	return count
}

// Headings returns the heading lines of a markdown document in order.
func Headings(content string) []string {
	var headings []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			headings = append(headings, trimmed)
		}
	}
	return headings
}
