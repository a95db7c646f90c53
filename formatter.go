package twob

import (
	"fmt"
	"strings"
)

// FormatPages formats fetched pages for LLM context. Each page is framed
// with a numbered source marker so the synthesis can cite "[source N]".
// Pages are separated by blank lines.
func FormatPages(pages []*Page) string {
	if len(pages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(pages))
	for i, page := range pages {
		var sb strings.Builder
		fmt.Fprintf(&sb, "--- BEGIN [source %d] (%s) ---\n\n", i+1, page.URL)
		sb.WriteString(page.Content)
		sb.WriteString("\n\n--- END ---")
		parts = append(parts, sb.String())
	}

	return strings.Join(parts, "\n\n")
}

// FormatSources formats the numbered source list shown under a synthesized
// answer. Titles fall back to the URL.
func FormatSources(pages []*Page) string {
	if len(pages) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, page := range pages {
		title := page.Title
		if title == "" {
			title = page.URL
		}
		fmt.Fprintf(&sb, "[%d] %s\n    %s\n", i+1, title, page.URL)
	}
	return strings.TrimRight(sb.String(), "\n")
}
