package sendlog

import (
	"context"
	"fmt"
	"time"
)

// Log answers "was this reminder already sent today" against a Store,
// using the configured timezone to decide what "today" is.
type Log struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// NewLog creates a Log. A nil loc means UTC.
func NewLog(store Store, loc *time.Location) *Log {
	if loc == nil {
		loc = time.UTC
	}
	return &Log{store: store, loc: loc, now: time.Now}
}

// WithClock replaces the time source; used by tests and replays.
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Location returns the timezone the log keys dates in.
func (l *Log) Location() *time.Location { return l.loc }

// Today returns the current local calendar date at midnight in the log's timezone.
func (l *Log) Today() time.Time {
	t := l.now().In(l.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, l.loc)
}

// WasSentToday reports whether the reminder was already recorded for today.
func (l *Log) WasSentToday(ctx context.Context, employeeName, leaderEmail, evaluationType string) (bool, error) {
	key := NewKey(employeeName, leaderEmail, evaluationType, l.Today())
	sent, err := l.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("checking send log for %s: %w", key.ID(), err)
	}
	return sent, nil
}

// MarkSent records the reminder for today. Recording the same key twice is a no-op.
func (l *Log) MarkSent(ctx context.Context, employeeName, leaderEmail, evaluationType string) error {
	key := NewKey(employeeName, leaderEmail, evaluationType, l.Today())
	if _, err := l.store.Insert(ctx, NewEntry(key, l.now())); err != nil {
		return fmt.Errorf("recording send log for %s: %w", key.ID(), err)
	}
	return nil
}

// Purge removes entries dated RetentionDays or more before today.
func (l *Log) Purge(ctx context.Context) (int64, error) {
	cutoff := l.Today().AddDate(0, 0, -RetentionDays)
	n, err := l.store.PurgeOnOrBefore(ctx, dateUTC(cutoff))
	if err != nil {
		return 0, fmt.Errorf("purging send log: %w", err)
	}
	return n, nil
}

// SentToday lists today's entries, newest first.
func (l *Log) SentToday(ctx context.Context) ([]Entry, error) {
	entries, err := l.store.ListByDate(ctx, dateUTC(l.Today()))
	if err != nil {
		return nil, fmt.Errorf("listing today's send log: %w", err)
	}
	return entries, nil
}

// dateUTC re-anchors a local calendar date at UTC midnight, the form stores compare against.
func dateUTC(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
