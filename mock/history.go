package mock

import (
	"context"

	"github.com/nekyl/twob"
)

var _ twob.HistoryService = (*HistoryService)(nil)

// HistoryService is a mock implementation of twob.HistoryService.
type HistoryService struct {
	AddEntryFn      func(ctx context.Context, role, content string) error
	RecentEntriesFn func(ctx context.Context, limit int) ([]*twob.HistoryEntry, error)
}

func (s *HistoryService) AddEntry(ctx context.Context, role, content string) error {
	return s.AddEntryFn(ctx, role, content)
}

func (s *HistoryService) RecentEntries(ctx context.Context, limit int) ([]*twob.HistoryEntry, error) {
	return s.RecentEntriesFn(ctx, limit)
}
