package shared

import (
	"context"

	"github.com/google/uuid"
)

// ChangeAction is the kind of row change that occurred
type ChangeAction string

const (
	ChangeActionInsert ChangeAction = "insert"
	ChangeActionUpdate ChangeAction = "update"
	ChangeActionDelete ChangeAction = "delete"
)

// ChangeEvent describes a single row change in a business-scoped table.
// Connected clients use these to re-fetch the affected view.
type ChangeEvent struct {
	Table      string       `json:"table"`
	Action     ChangeAction `json:"action"`
	BusinessID uuid.UUID    `json:"business_id"`
	RowID      uuid.UUID    `json:"row_id"`
	Timestamp  int64        `json:"timestamp"` // UnixNano, set by the publisher if zero
}

// ChangeNotifier distributes row-change events across server instances
type ChangeNotifier interface {
	// Publish sends a change event to all subscribers
	Publish(ctx context.Context, event ChangeEvent) error

	// Subscribe blocks and invokes handler for each received event until
	// ctx is cancelled
	Subscribe(ctx context.Context, handler func(ChangeEvent)) error

	// Close releases resources held by the notifier
	Close() error
}
