// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(b *telebot.Bot, adminChatID int64, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		logCtx := commandLogger(startHelpLogger, "/start", c)
		logCtx.Info("Processing /start command")

		if isAdmin(c, adminChatID) {
			name := "there"
			if c.Sender() != nil && c.Sender().FirstName != "" {
				name = c.Sender().FirstName
			}
			return c.Send(fmt.Sprintf("Hello %s! Evaluation reminder summaries will be posted here. Use /help for the list of commands.", name))
		}
		logCtx.Info("User is unknown")
		return c.Send("Hello! This bot posts HR evaluation reminder summaries to the HR admin chat only.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		logCtx := commandLogger(startHelpLogger, "/help", c)
		logCtx.Info("Processing /help command")

		if !isAdmin(c, adminChatID) {
			return c.Send("No commands are available for you.")
		}
		return c.Send(helpText(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}

func helpText() string {
	var helpText strings.Builder
	helpText.WriteString("Available commands:\n\n")
	helpText.WriteString("`/preview`\n - Show pending evaluation reminders, with a button to send them now.\n\n")
	helpText.WriteString("`/sent_today`\n - List reminders already sent today.\n\n")
	helpText.WriteString("`/separations [filter]`\n - List separated employees by vendor. Filters: all, today, yesterday, last7days, last30days, 2024-03, march, custom:2024-03-18.\n\n")
	helpText.WriteString("`/help`\n - Show this message.")
	return helpText.String()
}
