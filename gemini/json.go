package gemini

import "strings"

// firstJSONObject returns the outermost {...} block in s. Models often wrap
// JSON replies in prose or markdown fences, so everything outside the first
// opening brace and the last closing brace is discarded.
func firstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
