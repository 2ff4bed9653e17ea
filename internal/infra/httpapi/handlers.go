package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"team_rotator/internal/app"
	"team_rotator/internal/infra/logger"
)

type handlers struct {
	svc             RotationAPI
	logs            *logger.Buffer
	checkWorkingDay bool
	log             *logrus.Entry
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *handlers) listAssignments(c echo.Context) error {
	details, err := h.svc.ListAssignmentDetails(c.Request().Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

func (h *handlers) updateRotation(c echo.Context) error {
	report, err := h.svc.AdvanceAssignments(c.Request().Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *handlers) sendToSlack(c echo.Context) error {
	err := h.svc.Announce(c.Request().Context())
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, messageResponse{Message: "Notification sent"})
	case errors.Is(err, app.ErrNothingToAnnounce):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, app.ErrWebhookNotConfigured):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		return h.internalError(c, err)
	}
}

func (h *handlers) fixDates(c echo.Context) error {
	report, err := h.svc.FixDates(c.Request().Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *handlers) cron(c echo.Context) error {
	report, err := h.svc.RunScheduled(c.Request().Context(), h.checkWorkingDay)
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *handlers) listMembers(c echo.Context) error {
	members, err := h.svc.ListMembers(c.Request().Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *handlers) listTasks(c echo.Context) error {
	tasks, err := h.svc.ListTasks(c.Request().Context())
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *handlers) listLogs(c echo.Context) error {
	if h.logs == nil {
		return c.JSON(http.StatusOK, []logger.Record{})
	}
	return c.JSON(http.StatusOK, h.logs.Records())
}

func (h *handlers) clearLogs(c echo.Context) error {
	if h.logs != nil {
		h.logs.Clear()
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) internalError(c echo.Context, err error) error {
	h.log.WithError(err).WithField("path", c.Path()).Error("Request failed")
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
