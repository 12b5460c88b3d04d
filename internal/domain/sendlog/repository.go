package sendlog

import (
	"context"
	"time"
)

// Store is the backing storage of the send log.
// Insert must be idempotent per key: a second insert of the same key reports inserted=false.
type Store interface {
	Exists(ctx context.Context, key Key) (bool, error)
	Insert(ctx context.Context, entry Entry) (inserted bool, err error)
	// PurgeOnOrBefore removes entries whose date is on or before cutoff.
	PurgeOnOrBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// ListByDate returns the entries of one day, newest first.
	ListByDate(ctx context.Context, date time.Time) ([]Entry, error)
}
