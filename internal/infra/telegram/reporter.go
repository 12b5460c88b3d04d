package telegram

import (
	"context"
	"fmt"

	"hr_evaluation_reminder/internal/app"

	"gopkg.in/telebot.v3"
)

// Reporter posts each reminder cycle summary to the admin chat.
type Reporter struct {
	sender MessageSender
	chatID int64
}

func NewReporter(sender MessageSender, chatID int64) *Reporter {
	return &Reporter{sender: sender, chatID: chatID}
}

var _ app.CycleReporter = (*Reporter)(nil)

func (r *Reporter) ReportReminderCycle(_ context.Context, s *app.RunSummary) error {
	if s.BatchesSent == 0 && len(s.Failures) == 0 {
		return nil // nothing happened worth a message
	}
	if err := r.sender.SendMessage(r.chatID, FormatRunSummary(s), &telebot.SendOptions{DisableWebPagePreview: true}); err != nil {
		return fmt.Errorf("failed to post cycle summary: %w", err)
	}
	return nil
}
