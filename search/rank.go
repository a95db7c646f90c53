package search

import (
	"sort"
	"strings"

	"github.com/nekyl/twob"
)

// communityKeywords mark queries that ask for opinions or comparisons, where
// community sites are better sources than reference sites.
var communityKeywords = []string{
	"best", "worth it", "comparison", "opinion", "review", "vs", "experience",
}

// CommunityQuery reports whether the query asks for opinions or comparisons.
func CommunityQuery(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range communityKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// baseBlacklist lists domains dropped from every search.
var baseBlacklist = []string{
	"pinterest.com", "facebook.com", "instagram.com", "twitter.com",
}

// communityDomains are dropped in normal mode and boosted in community mode.
var communityDomains = []string{"quora.com", "reddit.com", "youtube.com"}

// Rank filters and scores results. Blacklisted domains are removed; the
// rest are scored by title relevance, domain trust, and content-type hints,
// then sorted best first. Community mode relaxes the blacklist and boosts
// discussion sites.
func Rank(results []twob.SearchResult, query string, community bool) []twob.SearchResult {
	blacklist := baseBlacklist
	if !community {
		blacklist = append(append([]string{}, baseBlacklist...), communityDomains...)
	}

	queryWords := fieldSet(strings.ToLower(query))

	ranked := make([]twob.SearchResult, 0, len(results))
	for _, res := range results {
		if matchesAny(res.URL, blacklist) {
			continue
		}
		res.Score = score(res, queryWords, community)
		ranked = append(ranked, res)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func score(res twob.SearchResult, queryWords map[string]bool, community bool) int {
	url := res.URL
	title := strings.ToLower(res.Title)
	n := 0

	// Title words shared with the query count heaviest.
	for word := range fieldSet(title) {
		if queryWords[word] {
			n += 5
		}
	}

	trusted := map[string]int{
		".edu":              20,
		".gov":              20,
		"wikipedia.org":     15,
		".org":              8,
		"stackoverflow.com": 8,
		"github.com":        12,
	}
	if community {
		trusted["stackoverflow.com"] = 12
	}
	for domain, pts := range trusted {
		if strings.Contains(url, domain) {
			n += pts
		}
	}

	for _, kw := range []string{"tutorial", "guide", "how-to", "documentation", "docs"} {
		if strings.Contains(title, kw) {
			n += 10
			break
		}
	}
	if strings.Contains(title, "pdf") || strings.HasSuffix(url, ".pdf") {
		n += 8
	}
	if strings.Contains(title, "api") || strings.Contains(title, "reference") {
		n += 6
	}
	if strings.Contains(url, "blog") {
		n -= 3
	}

	if community {
		if strings.Contains(url, "reddit.com") {
			n += 10
		}
		if strings.Contains(url, "quora.com") {
			n += 5
		}
		if strings.Contains(url, "youtube.com") {
			n += 5
		}
	}

	return n
}

func matchesAny(url string, domains []string) bool {
	for _, d := range domains {
		if strings.Contains(url, d) {
			return true
		}
	}
	return false
}

func fieldSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
