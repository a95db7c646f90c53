package goquery

import (
	"context"
	"math/rand"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nekyl/twob"
)

// mobileClients are client identifiers sent to Google to get the mobile
// results layout, which is simpler to scrape and less often gated.
var mobileClients = []string{
	"ms-android-samsung-rvo1",
	"ms-android-google",
	"ms-android-motorola",
	"ms-android-oppo",
	"ms-android-xiaomi",
}

// Ensure Google implements twob.SearchEngine at compile time.
var _ twob.SearchEngine = (*Google)(nil)

// Google scrapes the mobile Google results page. Used as a fallback when
// DuckDuckGo fails or returns nothing.
type Google struct {
	fetcher twob.Fetcher
}

// NewGoogle creates a new Google engine.
func NewGoogle(fetcher twob.Fetcher) *Google {
	return &Google{fetcher: fetcher}
}

// Name returns the engine's identifier.
func (e *Google) Name() string {
	return "google"
}

// Search fetches and parses the mobile results page for the query.
// Returns EUNAVAILABLE when Google serves a JS or CAPTCHA interstitial
// instead of results.
func (e *Google) Search(ctx context.Context, query string) ([]twob.SearchResult, error) {
	if query == "" {
		return nil, twob.Errorf(twob.EINVALID, "query required")
	}

	u := "https://www.google.com/search?q=" + url.QueryEscape(query) +
		"&client=" + mobileClients[rand.Intn(len(mobileClients))] +
		"&sclient=mobile-gws-wiz-hp&hl=en&ie=UTF-8&oe=UTF-8"

	html, err := e.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	if blocked(html) {
		return nil, twob.Errorf(twob.EUNAVAILABLE, "google returned a verification page (JS/CAPTCHA)")
	}

	return parseGoogle(html)
}

// blocked detects Google's JS-required and unusual-traffic interstitials.
func blocked(html string) bool {
	return strings.Contains(html, "enablejs") ||
		strings.Contains(strings.ToLower(html), "unusual traffic") ||
		strings.Contains(html, "CAPTCHA")
}

func parseGoogle(html string) ([]twob.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, twob.Errorf(twob.EINVALID, "failed to parse results page: %v", err)
	}

	var results []twob.SearchResult
	doc.Find("div.MjjYud, div.g").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link, exists := sel.Find("a[href]").First().Attr("href")
		title := sel.Find("h3").First().Text()
		if !exists || title == "" {
			return true
		}

		link = unwrapGoogleRedirect(link)
		if !strings.HasPrefix(link, "http") {
			return true
		}

		results = append(results, twob.SearchResult{
			Title: strings.TrimSpace(title),
			URL:   link,
		})
		return len(results) < maxResults
	})

	return results, nil
}

// unwrapGoogleRedirect extracts the target from /url?q=... redirect links.
func unwrapGoogleRedirect(link string) string {
	rest, ok := strings.CutPrefix(link, "/url?q=")
	if !ok {
		return link
	}
	if i := strings.Index(rest, "&sa="); i >= 0 {
		rest = rest[:i]
	}
	if unescaped, err := url.QueryUnescape(rest); err == nil {
		return unescaped
	}
	return rest
}
