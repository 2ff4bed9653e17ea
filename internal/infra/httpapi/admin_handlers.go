package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"team_rotator/internal/app"
	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/member"
	"team_rotator/internal/domain/sysconfig"
	"team_rotator/internal/domain/task"
)

// AdminAPI is the write surface for settings, roster, tasks and assignments.
type AdminAPI interface {
	ListConfigs(ctx context.Context) ([]sysconfig.Entry, error)
	SaveConfig(ctx context.Context, e sysconfig.Entry) (*sysconfig.Entry, error)
	AddMember(ctx context.Context, m member.Member) (*member.Member, error)
	UpdateMember(ctx context.Context, m member.Member) (*member.Member, error)
	RemoveMember(ctx context.Context, id int64) error
	AddTask(ctx context.Context, t task.Task) (*task.Task, error)
	UpdateTask(ctx context.Context, t task.Task) (*task.Task, error)
	RemoveTask(ctx context.Context, id int64) error
	SaveAssignment(ctx context.Context, in app.AssignmentInput) (*assignment.Assignment, error)
}

type successResponse struct {
	Success bool `json:"success"`
}

type adminHandlers struct {
	*handlers
	admin AdminAPI
}

func (h *adminHandlers) register(api *echo.Group) {
	api.GET("/config", h.listConfigs)
	api.POST("/config", h.saveConfig)
	api.POST("/members", h.createMember)
	api.PUT("/members", h.updateMember)
	api.DELETE("/members", h.deleteMember)
	api.POST("/tasks", h.createTask)
	api.PUT("/tasks", h.updateTask)
	api.DELETE("/tasks", h.deleteTask)
	api.POST("/assignments", h.saveAssignment)
}

// Stored URLs carry webhook tokens, so settings only leave the server redacted.
func (h *adminHandlers) listConfigs(c echo.Context) error {
	entries, err := h.admin.ListConfigs(c.Request().Context())
	if err != nil {
		return h.internalError(c, err)
	}
	out := make([]sysconfig.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Redacted())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *adminHandlers) saveConfig(c echo.Context) error {
	var e sysconfig.Entry
	if err := c.Bind(&e); err != nil {
		return badRequest(c, "invalid body")
	}
	saved, err := h.admin.SaveConfig(c.Request().Context(), e)
	if err != nil {
		return h.adminError(c, err)
	}
	return c.JSON(http.StatusOK, saved.Redacted())
}

func (h *adminHandlers) createMember(c echo.Context) error {
	var m member.Member
	if err := c.Bind(&m); err != nil {
		return badRequest(c, "invalid body")
	}
	created, err := h.admin.AddMember(c.Request().Context(), m)
	if err != nil {
		return h.adminError(c, err)
	}
	return c.JSON(http.StatusOK, created)
}

func (h *adminHandlers) updateMember(c echo.Context) error {
	var m member.Member
	if err := c.Bind(&m); err != nil {
		return badRequest(c, "invalid body")
	}
	updated, err := h.admin.UpdateMember(c.Request().Context(), m)
	if err != nil {
		return h.adminError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *adminHandlers) deleteMember(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "Member ID is required")
	}
	if err := h.admin.RemoveMember(c.Request().Context(), id); err != nil {
		return h.adminError(c, err)
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (h *adminHandlers) createTask(c echo.Context) error {
	var t task.Task
	if err := c.Bind(&t); err != nil {
		return badRequest(c, "invalid body")
	}
	created, err := h.admin.AddTask(c.Request().Context(), t)
	if err != nil {
		return h.adminError(c, err)
	}
	return c.JSON(http.StatusOK, created)
}

func (h *adminHandlers) updateTask(c echo.Context) error {
	var t task.Task
	if err := c.Bind(&t); err != nil {
		return badRequest(c, "invalid body")
	}
	updated, err := h.admin.UpdateTask(c.Request().Context(), t)
	if err != nil {
		return h.adminError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *adminHandlers) deleteTask(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "Task ID is required")
	}
	if err := h.admin.RemoveTask(c.Request().Context(), id); err != nil {
		return h.adminError(c, err)
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (h *adminHandlers) saveAssignment(c echo.Context) error {
	var in app.AssignmentInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	saved, err := h.admin.SaveAssignment(c.Request().Context(), in)
	if err != nil {
		return h.adminError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *adminHandlers) adminError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return badRequest(c, err.Error())
	case errors.Is(err, member.ErrNotFound), errors.Is(err, task.ErrNotFound), errors.Is(err, assignment.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, app.ErrMemberHasAssignment), errors.Is(err, app.ErrTaskAlreadyAssigned):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		return h.internalError(c, err)
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func idParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.QueryParam("id"), 10, 64)
}
