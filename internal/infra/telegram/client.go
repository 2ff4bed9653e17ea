package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/telebot.v3"

	"team_rotator/internal/domain/notify"
)

// DestinationPrefix marks notification destinations delivered through the bot.
const DestinationPrefix = "telegram:"

// messageSender is the part of *telebot.Bot used for delivery.
type messageSender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements notify.Client for "telegram:<chatID>" destinations.
type TelebotAdapter struct {
	bot messageSender
}

var (
	_ notify.Client        = (*TelebotAdapter)(nil)
	_ notify.MentionStyler = (*TelebotAdapter)(nil)
)

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// ParseDestination extracts the chat ID from a "telegram:<chatID>" destination.
func ParseDestination(destination string) (int64, error) {
	raw, ok := strings.CutPrefix(destination, DestinationPrefix)
	if !ok {
		return 0, fmt.Errorf("not a telegram destination: %q", destination)
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", raw, err)
	}
	return chatID, nil
}

// SendText sends body as a plain text message to the chat named by destination.
func (tba *TelebotAdapter) SendText(_ context.Context, destination, body string) error {
	chatID, err := ParseDestination(destination)
	if err != nil {
		return &notify.DeliveryError{Destination: destination, Detail: "invalid destination", Err: err}
	}
	if _, err := tba.bot.Send(telebot.ChatID(chatID), body, &telebot.SendOptions{DisableWebPagePreview: true}); err != nil {
		return &notify.DeliveryError{Destination: destination, Err: err}
	}
	return nil
}

// MentionStyle renders members by display name; handles are Slack member IDs and mean nothing in Telegram.
func (tba *TelebotAdapter) MentionStyle(string) notify.MentionFunc {
	return func(displayName, _ string) string { return displayName }
}
