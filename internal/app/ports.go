package app

import (
	"context"
	"time"

	"hr_evaluation_reminder/internal/domain/evaluation"
	"hr_evaluation_reminder/internal/domain/separation"
)

// ReminderRenderer builds the subject and HTML body of a reminder batch.
type ReminderRenderer interface {
	RenderReminder(b *evaluation.Batch) (subject, html string, err error)
}

// SeparationRenderer builds the subject and HTML body of a vendor notice.
type SeparationRenderer interface {
	RenderSeparation(b *separation.VendorBatch) (subject, html string, err error)
}

// CycleLock keeps overlapping triggers from running the same cycle at once.
type CycleLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Metrics receives cycle outcomes.
type Metrics interface {
	ObserveReminderCycle(summary *RunSummary, elapsed time.Duration)
	ObserveSeparationNotice(summary *SeparationSummary)
}

// CycleReporter publishes a short summary of a finished reminder cycle (e.g. to an admin chat).
type CycleReporter interface {
	ReportReminderCycle(ctx context.Context, summary *RunSummary) error
}

type noopLock struct{}

func (noopLock) Acquire(context.Context) (bool, error) { return true, nil }
func (noopLock) Release(context.Context) error         { return nil }

type noopMetrics struct{}

func (noopMetrics) ObserveReminderCycle(*RunSummary, time.Duration) {}
func (noopMetrics) ObserveSeparationNotice(*SeparationSummary)      {}
