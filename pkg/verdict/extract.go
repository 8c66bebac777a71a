package verdict

import (
	"regexp"
	"strings"
)

// trailingCommaPattern matches a comma followed only by whitespace before a
// closing brace or bracket, the one malformation models reliably produce
// when they truncate or pretty-print their own JSON badly.
var trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)

// extractJSONObject locates the outermost {...} in text, tolerating markdown
// code fences and surrounding chatter, and repairs trailing commas. Returns
// the cleaned slice and ok=false if no balanced object could be found.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	end := -1

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
			}
		}

		if end >= 0 {
			break
		}
	}

	if end < 0 {
		return "", false
	}

	repaired := trailingCommaPattern.ReplaceAllString(text[start:end+1], "$1")
	return repaired, true
}
