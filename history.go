package twob

import (
	"context"
	"time"
)

// History roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// RoleSystemEvent records tool invocations, config changes, and other
	// events the assistant should be able to refer back to.
	RoleSystemEvent = "system_event"
)

// History limits. The store keeps twice the load cap on disk so context
// assembly has headroom without the table growing unbounded.
const (
	MaxHistoryEntries     = 200
	MaxHistoryDiskEntries = MaxHistoryEntries * 2
)

// HistoryEntry represents one turn of conversation or a system event.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *HistoryEntry) Validate() error {
	switch e.Role {
	case RoleUser, RoleAssistant, RoleSystemEvent:
	default:
		return Errorf(EINVALID, "invalid history role %q", e.Role)
	}
	if e.Content == "" {
		return Errorf(EINVALID, "history content required")
	}
	return nil
}

// HistoryService represents a service for conversation history.
type HistoryService interface {
	// AddEntry appends an entry, pruning the oldest rows beyond
	// MaxHistoryDiskEntries.
	AddEntry(ctx context.Context, role, content string) error

	// RecentEntries returns up to limit entries, oldest first.
	RecentEntries(ctx context.Context, limit int) ([]*HistoryEntry, error)
}
