package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hr_evaluation_reminder/internal/domain/employee"
	"hr_evaluation_reminder/internal/domain/evaluation"
	"hr_evaluation_reminder/internal/domain/mail"
	"hr_evaluation_reminder/internal/domain/sendlog"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Application-level errors for the reminder cycle.
var ErrSourceUnavailable = errors.New("employee data source unavailable")
var ErrCycleInProgress = errors.New("another reminder cycle is already running")

// ReminderService classifies employee rows, groups pending evaluations into
// per-leader batches and sends each batch once per day.
type ReminderService struct {
	source    employee.Source
	sendLog   *sendlog.Log
	sender    mail.Sender
	renderer  ReminderRenderer
	ccRouter  *evaluation.CCRouter
	snapshots employee.SnapshotRepository
	lock      CycleLock
	metrics   Metrics
	reporter  CycleReporter
	logger    *logrus.Entry
}

func NewReminderService(
	source employee.Source,
	sendLog *sendlog.Log,
	sender mail.Sender,
	renderer ReminderRenderer,
	ccRouter *evaluation.CCRouter,
	logger *logrus.Entry,
) *ReminderService {
	return &ReminderService{
		source:   source,
		sendLog:  sendLog,
		sender:   sender,
		renderer: renderer,
		ccRouter: ccRouter,
		lock:     noopLock{},
		metrics:  noopMetrics{},
		logger:   logger,
	}
}

// WithSnapshots enables syncing fetched rows into a snapshot table.
func (s *ReminderService) WithSnapshots(repo employee.SnapshotRepository) *ReminderService {
	s.snapshots = repo
	return s
}

func (s *ReminderService) WithLock(lock CycleLock) *ReminderService {
	if lock != nil {
		s.lock = lock
	}
	return s
}

func (s *ReminderService) WithMetrics(m Metrics) *ReminderService {
	if m != nil {
		s.metrics = m
	}
	return s
}

func (s *ReminderService) WithReporter(r CycleReporter) *ReminderService {
	s.reporter = r
	return s
}

// ReminderPlan is the classified, filtered and grouped state of one cycle before dispatch.
type ReminderPlan struct {
	Date                time.Time
	Batches             []*evaluation.Batch
	SkippedInvalidEmail []evaluation.Obligation
	SkippedAlreadySent  []evaluation.Obligation
}

type processedKey struct {
	employee    string
	leaderEmail string
}

// buildPlan runs CLASSIFY, DEDUP_FILTER and GROUP over the fetched rows.
func (s *ReminderService) buildPlan(ctx context.Context, rows []employee.Row, logger *logrus.Entry) ReminderPlan {
	today := s.sendLog.Today()
	plan := ReminderPlan{Date: today}
	processed := make(map[processedKey]struct{})
	var pending []evaluation.Obligation

	for i, row := range rows {
		ob, ok := evaluation.Classify(row, today)
		if !ok {
			continue
		}
		ob.SourceIndex = i

		pk := processedKey{employee: ob.EmployeeName, leaderEmail: evaluation.NormalizeEmail(ob.LeaderEmail)}
		if _, done := processed[pk]; done {
			continue
		}

		if !evaluation.IsValidLeaderEmail(ob.LeaderEmail) {
			processed[pk] = struct{}{}
			plan.SkippedInvalidEmail = append(plan.SkippedInvalidEmail, ob)
			logger.WithFields(logrus.Fields{
				"employee":     ob.EmployeeName,
				"leader_email": ob.LeaderEmail,
			}).Debug("Skipping obligation with invalid leader email")
			continue
		}

		sent, err := s.sendLog.WasSentToday(ctx, ob.EmployeeName, ob.LeaderEmail, string(ob.Kind))
		if err != nil {
			// A duplicate reminder is preferred over a lost one.
			logger.WithError(err).WithField("employee", ob.EmployeeName).Warn("Send log check failed, treating as not sent")
		}
		if sent {
			plan.SkippedAlreadySent = append(plan.SkippedAlreadySent, ob)
			continue
		}

		processed[pk] = struct{}{}
		pending = append(pending, ob)
	}

	plan.Batches = evaluation.Group(pending)
	return plan
}

// PlannedBatch is a batch as it would be sent.
type PlannedBatch struct {
	Key        evaluation.BatchKey     `json:"key"`
	LeaderName string                  `json:"leader_name"`
	To         []string                `json:"to"`
	CC         []string                `json:"cc"`
	Employees  []evaluation.Obligation `json:"employees"`
}

// ReminderPreview lists what a cycle would send right now.
type ReminderPreview struct {
	Date                string         `json:"date"`
	Batches             []PlannedBatch `json:"batches"`
	PendingCount        int            `json:"pending_count"`
	SkippedInvalidEmail int            `json:"skipped_invalid_email"`
	SkippedAlreadySent  int            `json:"skipped_already_sent"`
}

// Preview fetches rows and returns the planned batches without sending or recording anything.
func (s *ReminderService) Preview(ctx context.Context) (*ReminderPreview, error) {
	rows, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	plan := s.buildPlan(ctx, rows, s.logger.WithField("mode", "preview"))

	preview := &ReminderPreview{
		Date:                plan.Date.Format(sendlog.DateLayout),
		Batches:             make([]PlannedBatch, 0, len(plan.Batches)),
		SkippedInvalidEmail: len(plan.SkippedInvalidEmail),
		SkippedAlreadySent:  len(plan.SkippedAlreadySent),
	}
	for _, b := range plan.Batches {
		preview.Batches = append(preview.Batches, PlannedBatch{
			Key:        b.Key,
			LeaderName: b.LeaderName,
			To:         b.Recipients(),
			CC:         s.ccRouter.CCForBatch(b),
			Employees:  b.Obligations,
		})
		preview.PendingCount += b.Len()
	}
	return preview, nil
}

// SentReminder is one employee covered by a successfully sent batch.
type SentReminder struct {
	Employee    string `json:"employee"`
	Leader      string `json:"leader"`
	LeaderEmail string `json:"leader_email"`
	Department  string `json:"department"`
	Type        string `json:"type"`
	Days        int    `json:"days"`
	Deadline    string `json:"deadline"`
	EmailSent   bool   `json:"email_sent"`
}

// DispatchFailure is a batch whose email could not be sent.
type DispatchFailure struct {
	LeaderEmail string   `json:"leader_email"`
	Type        string   `json:"type"`
	Department  string   `json:"department"`
	Employees   []string `json:"employees"`
	Error       string   `json:"error"`
}

// RunSummary is the outcome of one reminder cycle.
type RunSummary struct {
	RunID               string            `json:"run_id"`
	Date                string            `json:"date"`
	SentCount           int               `json:"sent_count"`
	BatchesSent         int               `json:"batches_sent"`
	Sent                []SentReminder    `json:"sent_reminders"`
	Failures            []DispatchFailure `json:"failures"`
	SkippedInvalidEmail int               `json:"skipped_invalid_email"`
	SkippedAlreadySent  int               `json:"skipped_already_sent"`
	NotRecorded         int               `json:"not_recorded"`
	Rows                []employee.Row    `json:"-"`
}

// Run executes one full cycle: FETCH, CLASSIFY, DEDUP_FILTER, GROUP, DISPATCH, RECORD.
// Only a source failure or a held lock fails the cycle; batch failures are reported in the summary.
func (s *ReminderService) Run(ctx context.Context) (*RunSummary, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := s.logger.WithField("run_id", runID)

	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		logger.WithError(err).Warn("Cycle lock unavailable, continuing without it")
	} else if !acquired {
		logger.Warn("Reminder cycle already running elsewhere")
		return nil, ErrCycleInProgress
	} else {
		defer func() {
			if err := s.lock.Release(context.Background()); err != nil {
				logger.WithError(err).Warn("Failed to release cycle lock")
			}
		}()
	}

	rows, err := s.fetch(ctx)
	if err != nil {
		logger.WithError(err).Error("Reminder cycle aborted")
		return nil, err
	}
	logger.WithField("rows", len(rows)).Info("Employee rows fetched")
	s.syncSnapshot(ctx, rows, logger)

	plan := s.buildPlan(ctx, rows, logger)
	summary := &RunSummary{
		RunID:               runID,
		Date:                plan.Date.Format(sendlog.DateLayout),
		Sent:                []SentReminder{},
		Failures:            []DispatchFailure{},
		SkippedInvalidEmail: len(plan.SkippedInvalidEmail),
		SkippedAlreadySent:  len(plan.SkippedAlreadySent),
		Rows:                rows,
	}
	logger.WithFields(logrus.Fields{
		"batches":               len(plan.Batches),
		"skipped_invalid_email": summary.SkippedInvalidEmail,
		"skipped_already_sent":  summary.SkippedAlreadySent,
	}).Info("Reminder plan built")

	for _, b := range plan.Batches {
		s.dispatch(ctx, b, rows, summary, logger)
	}

	s.metrics.ObserveReminderCycle(summary, time.Since(started))
	if s.reporter != nil {
		if err := s.reporter.ReportReminderCycle(ctx, summary); err != nil {
			logger.WithError(err).Warn("Failed to report reminder cycle")
		}
	}
	logger.WithFields(logrus.Fields{
		"sent_count":   summary.SentCount,
		"batches_sent": summary.BatchesSent,
		"failures":     len(summary.Failures),
	}).Info("Reminder cycle finished")
	return summary, nil
}

// dispatch sends one batch and, on success, records every employee in the send log.
func (s *ReminderService) dispatch(ctx context.Context, b *evaluation.Batch, rows []employee.Row, summary *RunSummary, logger *logrus.Entry) {
	batchLogger := logger.WithFields(logrus.Fields{
		"leader_email": b.Key.LeaderEmail,
		"kind":         b.Key.Kind,
		"department":   b.Key.Department,
		"employees":    b.Len(),
	})

	names := make([]string, 0, b.Len())
	for _, o := range b.Obligations {
		names = append(names, o.EmployeeName)
	}
	fail := func(err error) {
		batchLogger.WithError(err).Error("Failed to send reminder batch")
		summary.Failures = append(summary.Failures, DispatchFailure{
			LeaderEmail: b.Key.LeaderEmail,
			Type:        b.Key.Kind.Label(),
			Department:  b.Key.Department,
			Employees:   names,
			Error:       err.Error(),
		})
	}

	subject, body, err := s.renderer.RenderReminder(b)
	if err != nil {
		fail(fmt.Errorf("rendering reminder: %w", err))
		return
	}
	msg := mail.Message{
		To:       b.Recipients(),
		CC:       s.ccRouter.CCForBatch(b),
		Subject:  subject,
		HTMLBody: body,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		fail(err)
		return
	}

	summary.BatchesSent++
	for _, o := range b.Obligations {
		if err := s.sendLog.MarkSent(ctx, o.EmployeeName, o.LeaderEmail, string(o.Kind)); err != nil {
			summary.NotRecorded++
			batchLogger.WithError(err).WithField("employee", o.EmployeeName).Error("Reminder sent but not recorded")
		}
		if o.SourceIndex >= 0 && o.SourceIndex < len(rows) {
			rows[o.SourceIndex].ReminderStatus = employee.StatusEmailSent
		}
		summary.SentCount++
		summary.Sent = append(summary.Sent, SentReminder{
			Employee:    o.EmployeeName,
			Leader:      o.LeaderName,
			LeaderEmail: o.LeaderEmail,
			Department:  o.Department,
			Type:        o.Kind.Label(),
			Days:        o.DaysRemaining,
			Deadline:    o.Deadline.Format(sendlog.DateLayout),
			EmailSent:   true,
		})
	}
	batchLogger.Info("Reminder batch sent")
}

func (s *ReminderService) fetch(ctx context.Context) ([]employee.Row, error) {
	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return rows, nil
}

func (s *ReminderService) syncSnapshot(ctx context.Context, rows []employee.Row, logger *logrus.Entry) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.ReplaceAll(ctx, employee.WithNames(rows)); err != nil {
		logger.WithError(err).Warn("Failed to sync employee snapshot")
	}
}

// PurgeSendLog removes send log entries past retention.
func (s *ReminderService) PurgeSendLog(ctx context.Context) (int64, error) {
	n, err := s.sendLog.Purge(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Send log purge failed")
		return 0, err
	}
	if n > 0 {
		s.logger.WithField("deleted", n).Info("Cleaned up old send log entries")
	}
	return n, nil
}

// SentSummary lists the reminders recorded today.
type SentSummary struct {
	TodayDate   string          `json:"today_date"`
	TotalToday  int             `json:"total_today"`
	TodayEmails []sendlog.Entry `json:"today_emails"`
}

func (s *ReminderService) SentToday(ctx context.Context) (*SentSummary, error) {
	entries, err := s.sendLog.SentToday(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []sendlog.Entry{}
	}
	return &SentSummary{
		TodayDate:   s.sendLog.Today().Format(sendlog.DateLayout),
		TotalToday:  len(entries),
		TodayEmails: entries,
	}, nil
}
