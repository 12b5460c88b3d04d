package employee

import "context"

// Source provides the current employee rows.
// Implementations may memoize; callers get a copy they are free to mutate.
type Source interface {
	FetchRows(ctx context.Context) ([]Row, error)
}

// AttachmentResolver downloads a stored attachment. A nil result with a nil error means
// the descriptor could not be resolved to a file and should be skipped.
type AttachmentResolver interface {
	Download(ctx context.Context, att Attachment) (data []byte, filename string, err error)
}

// SnapshotRepository persists the latest fetched rows for reporting.
type SnapshotRepository interface {
	ReplaceAll(ctx context.Context, rows []Row) error
}
