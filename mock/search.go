package mock

import (
	"context"

	"github.com/nekyl/twob"
)

var _ twob.SearchEngine = (*SearchEngine)(nil)

// SearchEngine is a mock implementation of twob.SearchEngine.
type SearchEngine struct {
	NameFn   func() string
	SearchFn func(ctx context.Context, query string) ([]twob.SearchResult, error)
}

func (e *SearchEngine) Name() string {
	return e.NameFn()
}

func (e *SearchEngine) Search(ctx context.Context, query string) ([]twob.SearchResult, error) {
	return e.SearchFn(ctx, query)
}
