package rewriter

import (
	"regexp"
	"strings"
)

// CSSURLPattern matches url(...) tokens in CSS text, capturing the inner URL
// with optional quotes stripped.
var CSSURLPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

// RewriteTokens rewrites the URL captured by each pattern's first group,
// leaving the surrounding text intact. Patterns must have exactly one capture
// group. The same extraction drives both serve-time CSS rewriting and any
// capture-side URL discovery, so the token grammar lives in one place.
func RewriteTokens(text string, patterns []*regexp.Regexp, rewrite func(string) string) string {
	for _, pattern := range patterns {
		text = rewritePattern(text, pattern, rewrite)
	}
	return text
}

// rewritePattern applies one pattern across the text.
func rewritePattern(text string, pattern *regexp.Regexp, rewrite func(string) string) string {
	var out strings.Builder
	last := 0

	for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
		// m[2]:m[3] is the first capture group.
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		token := text[m[2]:m[3]]
		replaced := rewrite(strings.TrimSpace(token))

		out.WriteString(text[last:m[2]])
		out.WriteString(replaced)
		last = m[3]
	}
	out.WriteString(text[last:])
	return out.String()
}
