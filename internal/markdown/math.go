package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Display math first so "$$" is never read as two inline delimiters.
var mathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)\$\$.+?\$\$`),
	regexp.MustCompile(`(?s)\\\[.+?\\\]`),
	regexp.MustCompile(`\\\(.+?\\\)`),
	regexp.MustCompile(`\$[^$\n]+?\$`),
}

const mathToken = "LABSITEMATH%dX"

// protectMath swaps TeX spans for inert tokens and returns the spans in order.
func protectMath(source string) (string, []string) {
	var spans []string
	for _, pattern := range mathPatterns {
		source = pattern.ReplaceAllStringFunc(source, func(m string) string {
			spans = append(spans, m)
			return fmt.Sprintf(mathToken, len(spans)-1)
		})
	}
	return source, spans
}

// restoreMath puts the HTML-escaped spans back.
func restoreMath(rendered string, spans []string) string {
	for i := range spans {
		rendered = strings.ReplaceAll(rendered, fmt.Sprintf(mathToken, i), html.EscapeString(spans[i]))
	}
	return rendered
}
