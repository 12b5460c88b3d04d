package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hr_evaluation_reminder/internal/app"
	"hr_evaluation_reminder/internal/domain/separation"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const unauthorizedReply = "Error: you are not allowed to use this command."

// ReminderOperations is what the admin commands need from the reminder service.
type ReminderOperations interface {
	Preview(ctx context.Context) (*app.ReminderPreview, error)
	Run(ctx context.Context) (*app.RunSummary, error)
	SentToday(ctx context.Context) (*app.SentSummary, error)
}

// SeparationOperations is what the admin commands need from the separation service.
type SeparationOperations interface {
	List(ctx context.Context, filter string) (*separation.Plan, error)
}

// commandTimeout bounds a single command; a full cycle fetches rows and sends every batch.
const commandTimeout = 5 * time.Minute

// RegisterAdminHandlers registers the reminder admin commands and the send confirmation buttons.
// Only the configured admin chat (a user or a group) may use them.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, reminders ReminderOperations, separations SeparationOperations, adminChatID int64, baseLogger *logrus.Entry) {
	menu := &telebot.ReplyMarkup{}
	btnSend := menu.Data("Send now", "run_confirm")
	btnCancel := menu.Data("Cancel", "run_cancel")
	menu.Inline(menu.Row(btnSend, btnCancel))

	b.Handle("/preview", func(c telebot.Context) error {
		handlerLogger := commandLogger(baseLogger, "/preview", c)
		if !isAdmin(c, adminChatID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		text, pending := previewReply(ctx, reminders, handlerLogger)
		if pending {
			return c.Send(text, menu)
		}
		return c.Send(text)
	})

	b.Handle("/sent_today", func(c telebot.Context) error {
		handlerLogger := commandLogger(baseLogger, "/sent_today", c)
		if !isAdmin(c, adminChatID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}
		return c.Send(sentTodayReply(ctx, reminders, handlerLogger))
	})

	b.Handle("/separations", func(c telebot.Context) error {
		handlerLogger := commandLogger(baseLogger, "/separations", c)
		if !isAdmin(c, adminChatID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		// Expected format: /separations [filter]
		filter := "all"
		if args := c.Args(); len(args) > 0 {
			filter = strings.Join(args, " ")
		}
		return c.Send(separationsReply(ctx, separations, filter, handlerLogger.WithField("filter", filter)))
	})

	b.Handle(&btnSend, func(c telebot.Context) error {
		handlerLogger := commandLogger(baseLogger, "run_confirm", c)
		if !isAdmin(c, adminChatID) {
			handlerLogger.Warn("Unauthorized confirmation attempt")
			return c.Respond(&telebot.CallbackResponse{Text: unauthorizedReply})
		}
		_ = c.Respond(&telebot.CallbackResponse{Text: "Sending reminders..."})
		return c.Edit(runReply(ctx, reminders, handlerLogger))
	})

	b.Handle(&btnCancel, func(c telebot.Context) error {
		if !isAdmin(c, adminChatID) {
			return c.Respond(&telebot.CallbackResponse{Text: unauthorizedReply})
		}
		_ = c.Respond(&telebot.CallbackResponse{Text: "Cancelled"})
		return c.Edit("Cancelled. No reminders were sent.")
	})
}

func commandLogger(base *logrus.Entry, handler string, c telebot.Context) *logrus.Entry {
	fields := logrus.Fields{"handler": handler}
	if c.Sender() != nil {
		fields["sender_id"] = c.Sender().ID
	}
	return base.WithFields(fields)
}

func isAdmin(c telebot.Context, adminChatID int64) bool {
	if c.Sender() != nil && c.Sender().ID == adminChatID {
		return true
	}
	return c.Chat() != nil && c.Chat().ID == adminChatID
}

func previewReply(ctx context.Context, reminders ReminderOperations, logger *logrus.Entry) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	preview, err := reminders.Preview(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to build reminder preview")
		return fmt.Sprintf("Could not load employees: %v", err), false
	}
	return FormatPreview(preview), len(preview.Batches) > 0
}

func runReply(ctx context.Context, reminders ReminderOperations, logger *logrus.Entry) string {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	summary, err := reminders.Run(ctx)
	switch {
	case errors.Is(err, app.ErrCycleInProgress):
		logger.Warn("Reminder cycle already running")
		return "A reminder cycle is already running. Try again in a few minutes."
	case err != nil:
		logger.WithError(err).Error("Reminder cycle failed")
		return fmt.Sprintf("Reminder cycle failed: %v", err)
	}
	logger.WithField("run_id", summary.RunID).Info("Reminder cycle triggered from Telegram")
	return FormatRunSummary(summary)
}

func sentTodayReply(ctx context.Context, reminders ReminderOperations, logger *logrus.Entry) string {
	summary, err := reminders.SentToday(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to list today's reminders")
		return fmt.Sprintf("Could not read the send log: %v", err)
	}
	return FormatSentToday(summary)
}

func separationsReply(ctx context.Context, separations SeparationOperations, filter string, logger *logrus.Entry) string {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	plan, err := separations.List(ctx, filter)
	switch {
	case errors.Is(err, separation.ErrInvalidFilter):
		return "Unknown filter. Use all, today, yesterday, last7days, last30days, a month (2024-03 or march) or custom:YYYY-MM-DD."
	case err != nil:
		logger.WithError(err).Error("Failed to list separated employees")
		return fmt.Sprintf("Could not load separated employees: %v", err)
	}
	return FormatSeparationPlan(filter, plan)
}
