package filestore

import (
	"context"
	"time"

	"hr_evaluation_reminder/internal/domain/sendlog"

	"github.com/sirupsen/logrus"
)

// FallbackStore serves the send log from primary and falls back to secondary when primary fails.
// Entries written to secondary during an outage still count as sent once primary recovers.
type FallbackStore struct {
	primary   sendlog.Store
	secondary sendlog.Store
	logger    *logrus.Entry
}

func NewFallbackStore(primary, secondary sendlog.Store, logger *logrus.Entry) *FallbackStore {
	return &FallbackStore{primary: primary, secondary: secondary, logger: logger}
}

var _ sendlog.Store = (*FallbackStore)(nil)

func (s *FallbackStore) Exists(ctx context.Context, key sendlog.Key) (bool, error) {
	sent, err := s.primary.Exists(ctx, key)
	if err == nil && sent {
		return true, nil
	}
	if err != nil {
		s.logger.WithError(err).WithField("key", key.ID()).Warn("Primary send log unavailable, checking file")
		return s.secondary.Exists(ctx, key)
	}

	sent, ferr := s.secondary.Exists(ctx, key)
	if ferr != nil {
		s.logger.WithError(ferr).Debug("File send log unreadable")
		return false, nil
	}
	return sent, nil
}

func (s *FallbackStore) Insert(ctx context.Context, entry sendlog.Entry) (bool, error) {
	inserted, err := s.primary.Insert(ctx, entry)
	if err == nil {
		return inserted, nil
	}
	s.logger.WithError(err).WithField("key", entry.ID()).Warn("Primary send log unavailable, recording to file")
	return s.secondary.Insert(ctx, entry)
}

// PurgeOnOrBefore purges both stores and fails only when both fail.
func (s *FallbackStore) PurgeOnOrBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n1, err1 := s.primary.PurgeOnOrBefore(ctx, cutoff)
	if err1 != nil {
		s.logger.WithError(err1).Warn("Failed to purge primary send log")
	}
	n2, err2 := s.secondary.PurgeOnOrBefore(ctx, cutoff)
	if err2 != nil {
		s.logger.WithError(err2).Warn("Failed to purge file send log")
	}
	if err1 != nil && err2 != nil {
		return 0, err1
	}
	return n1 + n2, nil
}

// ListByDate merges both stores, newest first, without duplicates.
func (s *FallbackStore) ListByDate(ctx context.Context, date time.Time) ([]sendlog.Entry, error) {
	primary, err := s.primary.ListByDate(ctx, date)
	if err != nil {
		s.logger.WithError(err).Warn("Primary send log unavailable, listing file")
		return s.secondary.ListByDate(ctx, date)
	}
	fallback, err := s.secondary.ListByDate(ctx, date)
	if err != nil {
		s.logger.WithError(err).Debug("File send log unreadable")
		return primary, nil
	}
	if len(fallback) == 0 {
		return primary, nil
	}

	seen := make(map[string]struct{}, len(primary))
	merged := make([]sendlog.Entry, 0, len(primary)+len(fallback))
	for _, e := range primary {
		seen[e.ID()] = struct{}{}
		merged = append(merged, e)
	}
	for _, e := range fallback {
		if _, dup := seen[e.ID()]; !dup {
			merged = append(merged, e)
		}
	}
	SortNewestFirst(merged)
	return merged, nil
}
