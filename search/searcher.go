// Package search provides web search orchestration. It coordinates engine
// querying with fallback, result ranking, concurrent page fetching, content
// extraction, and answer synthesis.
package search

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/nekyl/twob"
	"github.com/nekyl/twob/bloom"
	"golang.org/x/sync/errgroup"
)

// Mode selects how much is fetched and how the answer is phrased.
type Mode int

const (
	// ModeUser reads more pages and produces a cited, structured analysis.
	ModeUser Mode = iota

	// ModeAgent reads fewer pages and produces a terse factual extract for
	// use as another step's observation.
	ModeAgent
)

// Pages fetched per mode.
const (
	PagesUserMode  = 7
	PagesAgentMode = 3
)

// DefaultContentBudget caps the total page-content tokens sent to the
// synthesis call, leaving room for the prompt and the response inside the
// model's context window.
const DefaultContentBudget = 120000

// seenURLCapacity sizes the per-search Bloom filter.
const seenURLCapacity = 64

// Searcher orchestrates the search pipeline.
type Searcher struct {
	Engines   []twob.SearchEngine
	Fetcher   twob.Fetcher
	Extractor twob.Extractor
	Converter twob.Converter
	Completer twob.Completer
	Settings  twob.SettingsService
	Tokens    twob.TokenCounter
	Limiter   twob.DomainLimiter

	Concurrency   int
	RetryDelays   []time.Duration
	ContentBudget int
}

// Answer holds the outcome of a search.
type Answer struct {
	Query     string
	Summary   string
	Pages     []*twob.Page
	Engine    string
	Community bool
	Duration  time.Duration
}

// ProgressEvent reports progress during a search.
type ProgressEvent struct {
	Type      ProgressType
	Engine    string
	URL       string
	Completed int
	Total     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressEngineFailed ProgressType = iota
	ProgressRanked
	ProgressPageFetched
	ProgressPageFailed
	ProgressSynthesizing
)

// ProgressFunc is a callback for reporting search progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single ranked result.
type pageResult struct {
	position int
	page     *twob.Page
	err      error
}

// Search runs the full pipeline for a query.
func (s *Searcher) Search(ctx context.Context, query string, mode Mode, progress ProgressFunc) (*Answer, error) {
	if query == "" {
		return nil, twob.Errorf(twob.EINVALID, "query required")
	}
	start := time.Now()

	results, engine := s.queryEngines(ctx, query, progress)
	if len(results) == 0 {
		return nil, twob.Errorf(twob.EUNAVAILABLE, "no search engine returned results for %q", query)
	}

	community := CommunityQuery(query)
	ranked := Rank(results, query, community)
	if len(ranked) == 0 {
		return nil, twob.Errorf(twob.ENOTFOUND, "no relevant results left after filtering")
	}

	limit := PagesUserMode
	if mode == ModeAgent {
		limit = PagesAgentMode
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if progress != nil {
		progress(ProgressEvent{Type: ProgressRanked, Total: len(ranked)})
	}

	pages := s.fetchPages(ctx, ranked, progress)
	if len(pages) == 0 {
		return nil, twob.Errorf(twob.EUNAVAILABLE, "could not read any of the result pages")
	}
	pages = s.trimToBudget(ctx, pages)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressSynthesizing, Total: len(pages)})
	}
	summary, err := s.Completer.Complete(ctx, twob.CompletionRequest{
		Message:      twob.FormatPages(pages),
		SystemPrompt: s.synthesisPrompt(ctx, query, mode),
	})
	if err != nil {
		return nil, err
	}

	return &Answer{
		Query:     query,
		Summary:   summary,
		Pages:     pages,
		Engine:    engine,
		Community: community,
		Duration:  time.Since(start),
	}, nil
}

// queryEngines tries each engine in order until one returns results.
func (s *Searcher) queryEngines(ctx context.Context, query string, progress ProgressFunc) ([]twob.SearchResult, string) {
	for _, engine := range s.Engines {
		results, err := engine.Search(ctx, query)
		if err != nil || len(results) == 0 {
			if progress != nil {
				progress(ProgressEvent{Type: ProgressEngineFailed, Engine: engine.Name(), Error: err})
			}
			continue
		}
		return results, engine.Name()
	}
	return nil, ""
}

// fetchPages fetches the ranked results concurrently and returns the pages
// that could be read, in rank order. URLs are deduplicated before fetching
// and page contents after, so mirrors don't feed the synthesis twice.
func (s *Searcher) fetchPages(ctx context.Context, ranked []twob.SearchResult, progress ProgressFunc) []*twob.Page {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	seen := bloom.NewSeenURLs(seenURLCapacity)
	resultCh := make(chan pageResult, len(ranked))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, res := range ranked {
			if seen.Visit(res.URL) {
				continue
			}
			i, res := i, res
			g.Go(func() error {
				page, err := s.processResult(gctx, res)
				resultCh <- pageResult{position: i, page: page, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	byPosition := make([]*twob.Page, len(ranked))
	var completed int
	for result := range resultCh {
		completed++
		if result.err != nil {
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressPageFailed,
					URL:       ranked[result.position].URL,
					Completed: completed,
					Total:     len(ranked),
					Error:     result.err,
				})
			}
			continue
		}
		byPosition[result.position] = result.page
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressPageFetched,
				URL:       result.page.URL,
				Completed: completed,
				Total:     len(ranked),
			})
		}
	}

	// Collapse to rank order, dropping content-hash duplicates.
	hashes := make(map[string]bool)
	var pages []*twob.Page
	for _, page := range byPosition {
		if page == nil || hashes[page.Hash] {
			continue
		}
		hashes[page.Hash] = true
		pages = append(pages, page)
	}
	return pages
}

// processResult fetches, extracts, and converts a single result.
func (s *Searcher) processResult(ctx context.Context, res twob.SearchResult) (*twob.Page, error) {
	if s.Limiter != nil {
		u, err := url.Parse(res.URL)
		if err != nil {
			return nil, twob.Errorf(twob.EINVALID, "invalid result URL %q", res.URL)
		}
		if err := s.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	html, err := s.fetchWithBackoff(ctx, res.URL)
	if err != nil {
		return nil, err
	}

	extracted, err := s.Extractor.Extract(html)
	if err != nil {
		return nil, err
	}

	markdown, err := s.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, err
	}

	title := extracted.Title
	if title == "" {
		title = res.Title
	}

	return &twob.Page{
		URL:     res.URL,
		Title:   title,
		Content: markdown,
		Hash:    computeHash(markdown),
	}, nil
}

// trimToBudget keeps pages, best ranked first, until the token budget is
// spent. A first page too large on its own is cut down rather than dropped.
func (s *Searcher) trimToBudget(ctx context.Context, pages []*twob.Page) []*twob.Page {
	budget := s.ContentBudget
	if budget <= 0 {
		budget = DefaultContentBudget
	}

	var kept []*twob.Page
	spent := 0
	for _, page := range pages {
		cost := s.countTokens(ctx, page.Content)
		if spent+cost > budget {
			if len(kept) == 0 {
				// Rough 4-bytes-per-token cut so at least one source survives.
				if cut := budget * 4; cut < len(page.Content) {
					page.Content = page.Content[:cut]
				}
				kept = append(kept, page)
			}
			break
		}
		spent += cost
		kept = append(kept, page)
	}
	return kept
}

func (s *Searcher) countTokens(ctx context.Context, text string) int {
	if s.Tokens != nil {
		if n, err := s.Tokens.CountTokens(ctx, text); err == nil {
			return n
		}
	}
	return len(text) / 4
}

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
