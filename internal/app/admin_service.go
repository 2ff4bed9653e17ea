package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/member"
	"team_rotator/internal/domain/rotation"
	"team_rotator/internal/domain/sysconfig"
	"team_rotator/internal/domain/task"
)

// Application-level errors for admin operations
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrMemberHasAssignment = errors.New("member holds an assignment")
	ErrTaskAlreadyAssigned = errors.New("task already has an assignment")
)

// AssignmentInput is an assignment written by an administrator. Dates use assignment.DateLayout.
// A zero ID replaces the task's current assignment, or creates one when the task has none.
type AssignmentInput struct {
	ID          int64  `json:"id"`
	TaskID      int64  `json:"taskId"`
	MemberID    int64  `json:"memberId"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

// AdminService edits the roster, tasks, assignments and settings the rotation runs on.
// Writes are serialized with rotation passes.
type AdminService struct {
	repos Repositories
	log   *logrus.Entry
	now   func() time.Time
	mu    *sync.Mutex
}

// NewAdminService returns an admin service sharing svc's storage, logger, clock and pass lock.
func NewAdminService(svc *RotationService) *AdminService {
	return &AdminService{
		repos: svc.repos,
		log:   svc.log.WithField("service", "admin"),
		now:   svc.now,
		mu:    &svc.mu,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ListConfigs returns every stored setting ordered by key.
func (s *AdminService) ListConfigs(ctx context.Context) ([]sysconfig.Entry, error) {
	entries, err := s.repos.Configs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	return entries, nil
}

// SaveConfig stores a setting, stamping its modification time.
func (s *AdminService) SaveConfig(ctx context.Context, e sysconfig.Entry) (*sysconfig.Entry, error) {
	e.Key = strings.TrimSpace(e.Key)
	e.Value = strings.TrimSpace(e.Value)
	if e.Key == "" {
		return nil, invalid("config key is required")
	}
	e.LastModified = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repos.Configs.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("save config %s: %w", e.Key, err)
	}
	s.log.WithFields(logrus.Fields{"key": e.Key, "modified_by": e.ModifiedBy}).Info("Config saved")
	return &e, nil
}

func validateMember(m *member.Member) error {
	m.DisplayName = strings.TrimSpace(m.DisplayName)
	m.NotificationHandle = strings.TrimSpace(m.NotificationHandle)
	if m.DisplayName == "" {
		return invalid("member display name is required")
	}
	return nil
}

// AddMember appends a member to the roster. Any ID in m is ignored.
func (s *AdminService) AddMember(ctx context.Context, m member.Member) (*member.Member, error) {
	if err := validateMember(&m); err != nil {
		return nil, err
	}
	m.ID = 0

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repos.Members.Create(ctx, &m); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	s.log.WithField("member_id", m.ID).Info("Member added")
	return &m, nil
}

// UpdateMember replaces a member's name and handle. Its place in the rotation is unchanged.
func (s *AdminService) UpdateMember(ctx context.Context, m member.Member) (*member.Member, error) {
	if m.ID <= 0 {
		return nil, invalid("member id is required")
	}
	if err := validateMember(&m); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repos.Members.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update member %d: %w", m.ID, err)
	}
	s.log.WithField("member_id", m.ID).Info("Member updated")
	return &m, nil
}

// RemoveMember deletes a member that currently holds no assignment.
func (s *AdminService) RemoveMember(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignments, err := s.repos.Assignments.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list assignments: %w", err)
	}
	for _, a := range assignments {
		if a.MemberID == id {
			return fmt.Errorf("%w: member %d holds task %d", ErrMemberHasAssignment, id, a.TaskID)
		}
	}
	if err := s.repos.Members.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete member %d: %w", id, err)
	}
	s.log.WithField("member_id", id).Info("Member removed")
	return nil
}

func validateTask(t *task.Task) error {
	t.Name = strings.TrimSpace(t.Name)
	t.RotationRule = strings.TrimSpace(t.RotationRule)
	if t.Name == "" {
		return invalid("task name is required")
	}
	if _, err := rotation.ParseRule(t.RotationRule); err != nil {
		return invalid("%v", err)
	}
	if t.PreviewLookahead < 0 {
		return invalid("previewLookahead must not be negative")
	}
	return nil
}

// AddTask creates a task. Any ID in t is ignored.
func (s *AdminService) AddTask(ctx context.Context, t task.Task) (*task.Task, error) {
	if err := validateTask(&t); err != nil {
		return nil, err
	}
	t.ID = 0

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repos.Tasks.Create(ctx, &t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.log.WithFields(logrus.Fields{"task_id": t.ID, "rule": t.RotationRule}).Info("Task added")
	return &t, nil
}

// UpdateTask replaces a task definition. The current assignment keeps its period until the next pass.
func (s *AdminService) UpdateTask(ctx context.Context, t task.Task) (*task.Task, error) {
	if t.ID <= 0 {
		return nil, invalid("task id is required")
	}
	if err := validateTask(&t); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repos.Tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	s.log.WithFields(logrus.Fields{"task_id": t.ID, "rule": t.RotationRule}).Info("Task updated")
	return &t, nil
}

// RemoveTask deletes a task together with its assignment.
func (s *AdminService) RemoveTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repos.Tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	assignments, err := s.repos.Assignments.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list assignments: %w", err)
	}
	for _, a := range assignments {
		if a.TaskID != id {
			continue
		}
		if err := s.repos.Assignments.Delete(ctx, a.ID); err != nil && !errors.Is(err, assignment.ErrNotFound) {
			return fmt.Errorf("delete assignment %d: %w", a.ID, err)
		}
	}
	s.log.WithField("task_id", id).Info("Task removed")
	return nil
}

// SaveAssignment sets who holds a task and for which period.
func (s *AdminService) SaveAssignment(ctx context.Context, in AssignmentInput) (*assignment.Assignment, error) {
	start, err := time.Parse(assignment.DateLayout, strings.TrimSpace(in.PeriodStart))
	if err != nil {
		return nil, invalid("periodStart must be YYYY-MM-DD")
	}
	end, err := time.Parse(assignment.DateLayout, strings.TrimSpace(in.PeriodEnd))
	if err != nil {
		return nil, invalid("periodEnd must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, invalid("periodEnd is before periodStart")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members, tasks, assignments, err := loadAll(ctx, s.repos)
	if err != nil {
		return nil, err
	}
	if !containsTask(tasks, in.TaskID) {
		return nil, fmt.Errorf("task %d: %w", in.TaskID, task.ErrNotFound)
	}
	if rotation.NewRoster(members).IndexOf(in.MemberID) < 0 {
		return nil, fmt.Errorf("member %d: %w", in.MemberID, member.ErrNotFound)
	}

	a := assignment.Assignment{
		ID:          in.ID,
		TaskID:      in.TaskID,
		MemberID:    in.MemberID,
		PeriodStart: rotation.DateOf(start),
		PeriodEnd:   rotation.DateOf(end),
	}
	var maxID int64
	for _, existing := range assignments {
		maxID = max(maxID, existing.ID)
		if existing.TaskID != a.TaskID {
			continue
		}
		switch {
		case a.ID == 0:
			a.ID = existing.ID
		case a.ID != existing.ID:
			return nil, fmt.Errorf("%w: task %d is held by assignment %d", ErrTaskAlreadyAssigned, a.TaskID, existing.ID)
		}
	}
	if a.ID == 0 {
		a.ID = maxID + 1
	}

	if err := s.repos.Assignments.Upsert(ctx, a); err != nil {
		return nil, fmt.Errorf("save assignment %d: %w", a.ID, err)
	}
	s.log.WithFields(logrus.Fields{
		"assignment_id": a.ID,
		"task_id":       a.TaskID,
		"member_id":     a.MemberID,
	}).Info("Assignment saved")
	return &a, nil
}

func containsTask(tasks []task.Task, id int64) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}
