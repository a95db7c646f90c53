// Package goquery provides CSS-selector based search engine result parsers
// implementing twob.SearchEngine. The engines fetch the HTML results page
// through an injected twob.Fetcher and scrape it, so no search API keys are
// needed.
package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nekyl/twob"
)

// maxResults caps how many results an engine returns per query.
const maxResults = 10

// Ensure DuckDuckGo implements twob.SearchEngine at compile time.
var _ twob.SearchEngine = (*DuckDuckGo)(nil)

// DuckDuckGo scrapes the HTML-only DuckDuckGo endpoint, which serves full
// results without JavaScript.
type DuckDuckGo struct {
	fetcher twob.Fetcher
}

// NewDuckDuckGo creates a new DuckDuckGo engine.
func NewDuckDuckGo(fetcher twob.Fetcher) *DuckDuckGo {
	return &DuckDuckGo{fetcher: fetcher}
}

// Name returns the engine's identifier.
func (e *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search fetches and parses the results page for the query.
func (e *DuckDuckGo) Search(ctx context.Context, query string) ([]twob.SearchResult, error) {
	if query == "" {
		return nil, twob.Errorf(twob.EINVALID, "query required")
	}

	html, err := e.fetcher.Fetch(ctx, "https://html.duckduckgo.com/html/?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	return parseDuckDuckGo(html)
}

func parseDuckDuckGo(html string) ([]twob.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, twob.Errorf(twob.EINVALID, "failed to parse results page: %v", err)
	}

	var results []twob.SearchResult
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		a := sel.Find("a.result__a").First()
		href, exists := a.Attr("href")
		if !exists || href == "" {
			return true
		}

		resolved := unwrapDuckDuckGoRedirect(href)
		if !strings.HasPrefix(resolved, "http") {
			return true
		}

		results = append(results, twob.SearchResult{
			Title: strings.TrimSpace(a.Text()),
			URL:   resolved,
		})
		return len(results) < maxResults
	})

	return results, nil
}

// unwrapDuckDuckGoRedirect extracts the target URL from DuckDuckGo's
// /l/?uddg=... redirect links. Direct links pass through unchanged.
func unwrapDuckDuckGoRedirect(href string) string {
	if !strings.Contains(href, "/l/?") {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("uddg")
}
