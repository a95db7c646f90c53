package twob

import "context"

// SearchResult is one entry from a search engine results page.
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`

	// Score is assigned during ranking; engines leave it zero.
	Score int `json:"score"`
}

// SearchEngine retrieves raw results for a query from one engine.
type SearchEngine interface {
	// Name identifies the engine ("duckduckgo", "google") for logs and
	// fallback messages.
	Name() string

	// Search returns up to ten results. An empty slice with a nil error
	// means the engine answered but found nothing.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Page is a fetched and cleaned web page ready for synthesis.
type Page struct {
	URL   string
	Title string

	// Content is the page's main content as markdown.
	Content string

	// Hash identifies the content for deduplication.
	Hash string
}

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch returns the response body. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any underlying resources.
	Close() error
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML, with boilerplate
	// (nav, footer, sidebar, ads) removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML (e.g., from an Extractor) into
	// Markdown.
	Convert(html string) (string, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
