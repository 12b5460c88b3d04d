package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"hr_evaluation_reminder/internal/app"
	"hr_evaluation_reminder/internal/domain/separation"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeReminders struct {
	preview   *app.ReminderPreview
	summary   *app.RunSummary
	sent      *app.SentSummary
	err       error
	runCalled int
}

func (f *fakeReminders) Preview(context.Context) (*app.ReminderPreview, error) {
	return f.preview, f.err
}

func (f *fakeReminders) Run(context.Context) (*app.RunSummary, error) {
	f.runCalled++
	return f.summary, f.err
}

func (f *fakeReminders) SentToday(context.Context) (*app.SentSummary, error) {
	return f.sent, f.err
}

type fakeSeparations struct {
	plan       *separation.Plan
	err        error
	lastFilter string
}

func (f *fakeSeparations) List(_ context.Context, filter string) (*separation.Plan, error) {
	f.lastFilter = filter
	return f.plan, f.err
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestPreviewReply(t *testing.T) {
	ctx := context.Background()

	t.Run("pending batches offer the send button", func(t *testing.T) {
		reminders := &fakeReminders{preview: &app.ReminderPreview{
			Date:         "2024-01-01",
			PendingCount: 1,
			Batches:      []app.PlannedBatch{{}},
		}}

		text, pending := previewReply(ctx, reminders, quietLogger())
		assert.True(t, pending)
		assert.Contains(t, text, "Pending reminders for 2024-01-01")
	})

	t.Run("nothing pending", func(t *testing.T) {
		reminders := &fakeReminders{preview: &app.ReminderPreview{Date: "2024-01-01"}}

		text, pending := previewReply(ctx, reminders, quietLogger())
		assert.False(t, pending)
		assert.Equal(t, "No pending reminders for 2024-01-01.", text)
	})

	t.Run("source failure", func(t *testing.T) {
		reminders := &fakeReminders{err: fmt.Errorf("%w: timeout", app.ErrSourceUnavailable)}

		text, pending := previewReply(ctx, reminders, quietLogger())
		assert.False(t, pending)
		assert.Contains(t, text, "Could not load employees")
	})
}

func TestRunReply(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		reminders := &fakeReminders{summary: &app.RunSummary{RunID: "run-1", Date: "2024-01-01", SentCount: 3, BatchesSent: 2}}

		text := runReply(ctx, reminders, quietLogger())
		assert.Equal(t, 1, reminders.runCalled)
		assert.Contains(t, text, "Sent: 3 employees in 2 emails")
	})

	t.Run("cycle in progress", func(t *testing.T) {
		reminders := &fakeReminders{err: app.ErrCycleInProgress}

		text := runReply(ctx, reminders, quietLogger())
		assert.Contains(t, text, "already running")
	})

	t.Run("other error", func(t *testing.T) {
		reminders := &fakeReminders{err: errors.New("boom")}

		assert.Equal(t, "Reminder cycle failed: boom", runReply(ctx, reminders, quietLogger()))
	})
}

func TestSentTodayReply(t *testing.T) {
	ctx := context.Background()

	reminders := &fakeReminders{sent: &app.SentSummary{TodayDate: "2024-01-01"}}
	assert.Equal(t, "No reminders sent on 2024-01-01.", sentTodayReply(ctx, reminders, quietLogger()))

	reminders = &fakeReminders{err: errors.New("db down")}
	assert.Contains(t, sentTodayReply(ctx, reminders, quietLogger()), "db down")
}

func TestSeparationsReply(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the filter through", func(t *testing.T) {
		separations := &fakeSeparations{plan: &separation.Plan{}}

		text := separationsReply(ctx, separations, "last7days", quietLogger())
		assert.Equal(t, "last7days", separations.lastFilter)
		assert.Equal(t, `No separated employees for filter "last7days".`, text)
	})

	t.Run("invalid filter shows usage", func(t *testing.T) {
		separations := &fakeSeparations{err: fmt.Errorf("%w: %q", separation.ErrInvalidFilter, "someday")}

		text := separationsReply(ctx, separations, "someday", quietLogger())
		assert.Contains(t, text, "Unknown filter")
		assert.Contains(t, text, "custom:YYYY-MM-DD")
	})

	t.Run("source failure", func(t *testing.T) {
		separations := &fakeSeparations{err: app.ErrSourceUnavailable}

		text := separationsReply(ctx, separations, "all", quietLogger())
		assert.Contains(t, text, "Could not load separated employees")
	})
}

func TestHelpText(t *testing.T) {
	text := helpText()
	for _, cmd := range []string{"/preview", "/sent_today", "/separations", "/help"} {
		assert.Contains(t, text, cmd)
	}
}
