package telegram

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands registers /start and /help.
func RegisterBotCommands(b *telebot.Bot, adminTelegramID int64, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")
	b.Handle("/start", startHandler(adminTelegramID, startHelpLogger))
	b.Handle("/help", helpHandler(adminTelegramID, startHelpLogger))
}

func startHandler(adminTelegramID int64, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := logger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == adminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Hi %s! The rotation bot is running. Use /help for the list of commands.", c.Sender().FirstName))
		}
		logCtx.Info("User is not the admin")
		return c.Send("Hi! This bot manages the team duty rotation. Ask the administrator for access.")
	}
}

func helpHandler(adminTelegramID int64, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := logger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID != adminTelegramID {
			return c.Send("No commands are available for you.")
		}
		var helpText strings.Builder
		helpText.WriteString("Admin commands:\n\n")
		helpText.WriteString("`/assignments`\n - Show the current assignments.\n\n")
		helpText.WriteString("`/rotate`\n - Advance every due assignment.\n\n")
		helpText.WriteString("`/announce`\n - Send the current assignments to the announcement channel.\n\n")
		helpText.WriteString("`/help`\n - Show this message.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}
}
