package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hr_evaluation_reminder/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CycleRunner is the part of the reminder service the scheduler triggers.
type CycleRunner interface {
	Run(ctx context.Context) (*app.RunSummary, error)
	PurgeSendLog(ctx context.Context) (int64, error)
}

const (
	cycleTimeout = 10 * time.Minute
	purgeTimeout = 1 * time.Minute
)

type ReminderScheduler struct {
	cronEngine        *cron.Cron
	runner            CycleRunner
	logger            *logrus.Entry
	cronSpecReminders string
	cronSpecPurge     string
}

func NewReminderScheduler(
	runner CycleRunner,
	loc *time.Location,
	baseLogger *logrus.Entry,
	cronSpecReminders string, // e.g., "30 9 * * 1-5" (9:30 AM on weekdays); empty disables cycles
	cronSpecPurge string, // e.g., "0 3 * * *" (3 AM daily)
) *ReminderScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderScheduler{
		cronEngine:        cron.New(cron.WithLocation(loc)),
		runner:            runner,
		logger:            baseLogger.WithField("component", "scheduler"),
		cronSpecReminders: cronSpecReminders,
		cronSpecPurge:     cronSpecPurge,
	}
}

// Start registers the configured jobs and starts the cron engine.
func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	if s.cronSpecReminders != "" {
		if _, err := s.cronEngine.AddFunc(s.cronSpecReminders, s.runCycle); err != nil {
			return fmt.Errorf("could not add reminder cycle cron job %q: %w", s.cronSpecReminders, err)
		}
	} else {
		s.logger.Info("CRON_SPEC_REMINDERS is empty, reminder cycles run only on demand")
	}

	if s.cronSpecPurge != "" {
		if _, err := s.cronEngine.AddFunc(s.cronSpecPurge, s.purge); err != nil {
			return fmt.Errorf("could not add send log purge cron job %q: %w", s.cronSpecPurge, err)
		}
	}

	s.cronEngine.Start()
	s.logger.WithField("jobs", len(s.cronEngine.Entries())).Info("Reminder scheduler started")
	return nil
}

func (s *ReminderScheduler) runCycle() {
	s.logger.Info("Cron job triggered for reminder cycle")
	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	summary, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, app.ErrCycleInProgress):
		s.logger.Warn("Reminder cycle skipped, another cycle holds the lock")
	case err != nil:
		s.logger.WithError(err).Error("Error during reminder cycle")
	default:
		s.logger.WithFields(logrus.Fields{
			"run_id":     summary.RunID,
			"sent_count": summary.SentCount,
			"failures":   len(summary.Failures),
		}).Info("Reminder cycle finished")
	}
}

func (s *ReminderScheduler) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	n, err := s.runner.PurgeSendLog(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Error during send log purge")
		return
	}
	s.logger.WithField("purged", n).Info("Send log purged")
}

// Stop stops adding new jobs and waits for running ones.
func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped")
}
