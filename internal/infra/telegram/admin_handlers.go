package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"team_rotator/internal/app"
)

const unauthorizedReply = "Error: you are not allowed to run this command."

// RotationCommands is the service surface reachable from chat.
type RotationCommands interface {
	ListAssignmentDetails(ctx context.Context) ([]app.AssignmentDetail, error)
	AdvanceAssignments(ctx context.Context) (*app.PassReport, error)
	Announce(ctx context.Context) error
}

// AdminHandlers serves the admin-only rotation commands.
type AdminHandlers struct {
	ctx     context.Context
	svc     RotationCommands
	adminID int64
	log     *logrus.Entry
}

// RegisterAdminHandlers registers handlers for admin commands.
// It requires the bot instance, the rotation service, and the configured admin Telegram ID.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, svc RotationCommands, adminTelegramID int64, baseLogger *logrus.Entry) *AdminHandlers {
	h := &AdminHandlers{ctx: ctx, svc: svc, adminID: adminTelegramID, log: baseLogger}
	b.Handle("/assignments", h.handleAssignments)
	b.Handle("/rotate", h.handleRotate)
	b.Handle("/announce", h.handleAnnounce)
	b.Handle(&announceButton, h.handleAnnounceCallback)
	return h
}

func (h *AdminHandlers) authorize(c telebot.Context, handler string) (*logrus.Entry, bool) {
	handlerLogger := h.log.WithFields(logrus.Fields{
		"handler":   handler,
		"sender_id": c.Sender().ID,
	})
	handlerLogger.Info("Command received")

	if c.Sender().ID != h.adminID {
		handlerLogger.Warn("Unauthorized access attempt")
		return handlerLogger, false
	}
	return handlerLogger, true
}

func (h *AdminHandlers) handleAssignments(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "/assignments")
	if !ok {
		return c.Send(unauthorizedReply)
	}

	details, err := h.svc.ListAssignmentDetails(h.ctx)
	if err != nil {
		handlerLogger.WithError(err).Error("Failed to list assignments")
		return c.Send(fmt.Sprintf("Failed to list assignments: %s", err.Error()))
	}
	if len(details) == 0 {
		return c.Send("There are no assignments.")
	}

	var response strings.Builder
	response.WriteString("--- Current assignments ---\n")
	for _, d := range details {
		response.WriteString(fmt.Sprintf("%s: %s (%s to %s, %s)\n", d.TaskName, d.MemberName, d.PeriodStart, d.PeriodEnd, d.RotationRule))
	}
	handlerLogger.WithField("assignments_count", len(details)).Info("Successfully listed assignments")
	return c.Send(response.String())
}

func (h *AdminHandlers) handleRotate(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "/rotate")
	if !ok {
		return c.Send(unauthorizedReply)
	}

	report, err := h.svc.AdvanceAssignments(h.ctx)
	if err != nil {
		handlerLogger.WithError(err).Error("Failed to advance assignments")
		return c.Send(fmt.Sprintf("Rotation failed: %s", err.Error()))
	}
	handlerLogger.WithFields(logrus.Fields{
		"run_id":   report.RunID,
		"updated":  len(report.Updated),
		"failures": len(report.Failures),
	}).Info("Rotation triggered from chat")

	var response strings.Builder
	response.WriteString(fmt.Sprintf("Rotation done: %d updated, %d unchanged.", len(report.Updated), report.Unchanged))
	for _, e := range report.Errors {
		response.WriteString("\n- ")
		response.WriteString(e)
	}
	return c.Send(response.String(), announceMarkup())
}

func (h *AdminHandlers) handleAnnounce(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "/announce")
	if !ok {
		return c.Send(unauthorizedReply)
	}
	return c.Send(h.announce(handlerLogger))
}

// announce runs the announcement and returns the reply text.
func (h *AdminHandlers) announce(handlerLogger *logrus.Entry) string {
	err := h.svc.Announce(h.ctx)
	if err == nil {
		handlerLogger.Info("Announcement sent from chat")
		return "Announcement sent."
	}

	logWithError := handlerLogger.WithError(err)
	switch {
	case errors.Is(err, app.ErrNothingToAnnounce):
		logWithError.Warn("Nothing to announce")
		return "There are no assignments to announce."
	case errors.Is(err, app.ErrWebhookNotConfigured):
		logWithError.Warn("Announcement webhook not configured")
		return "The announcement webhook is not configured."
	default:
		logWithError.Error("Failed to announce")
		return fmt.Sprintf("Announcement failed: %s", err.Error())
	}
}
