package telegram

import (
	"gopkg.in/telebot.v3"
)

// announceButton is attached to the /rotate reply so the admin can announce the new assignments.
var announceButton = telebot.Btn{Unique: "announce", Text: "Send announcement"}

func announceMarkup() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(announceButton))
	return markup
}

func (h *AdminHandlers) handleAnnounceCallback(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "callback:announce")
	if !ok {
		return c.Respond(&telebot.CallbackResponse{Text: unauthorizedReply})
	}
	reply := h.announce(handlerLogger)
	if err := c.Respond(&telebot.CallbackResponse{Text: reply}); err != nil {
		handlerLogger.WithError(err).Warn("Failed to answer callback")
	}
	return c.Send(reply)
}
