package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/nekyl/twob"
)

// Compile-time interface verification.
var _ twob.HistoryService = (*HistoryService)(nil)

// HistoryService implements twob.HistoryService using SQLite.
type HistoryService struct {
	db *DB

	// maxDisk caps the number of stored rows; the oldest are pruned on
	// write. Defaults to twob.MaxHistoryDiskEntries.
	maxDisk int
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *DB) *HistoryService {
	return &HistoryService{db: db, maxDisk: twob.MaxHistoryDiskEntries}
}

// AddEntry appends an entry and prunes rows beyond the disk cap.
func (s *HistoryService) AddEntry(ctx context.Context, role, content string) error {
	entry := &twob.HistoryEntry{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	var maxSeq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM history`).Scan(&maxSeq); err != nil {
		return err
	}
	seq := maxSeq.Int64 + 1

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, role, content, created_at, seq)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.Role, entry.Content, entry.CreatedAt.Format(time.RFC3339), seq); err != nil {
		return err
	}

	// Prune oldest rows beyond the cap.
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM history WHERE seq <= (
			SELECT MAX(seq) FROM history
		) - ?
	`, s.maxDisk)
	return err
}

// RecentEntries returns up to limit entries, oldest first.
func (s *HistoryService) RecentEntries(ctx context.Context, limit int) ([]*twob.HistoryEntry, error) {
	if limit <= 0 {
		limit = twob.MaxHistoryEntries
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, created_at FROM history
		ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*twob.HistoryEntry
	for rows.Next() {
		var entry twob.HistoryEntry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.Role, &entry.Content, &createdAt); err != nil {
			return nil, err
		}
		entry.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows were read newest first; reverse to chronological order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}
