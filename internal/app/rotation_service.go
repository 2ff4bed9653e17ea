package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/member"
	"team_rotator/internal/domain/notify"
	"team_rotator/internal/domain/rotation"
	"team_rotator/internal/domain/sysconfig"
	"team_rotator/internal/domain/task"
)

const tracerName = "team_rotator/internal/app"

const (
	unknownTask   = "Unknown Task"
	unknownMember = "Unknown Member"
)

// Calendar answers whether a date is a working day.
type Calendar interface {
	IsWorkingDay(ctx context.Context, day time.Time) bool
}

// Repositories groups the storage the service reads and writes.
type Repositories struct {
	Members     member.Repository
	Tasks       task.Repository
	Assignments assignment.Repository
	Configs     sysconfig.Repository
}

// ServiceConfig carries the settings the service needs from configuration.
type ServiceConfig struct {
	StepPolicy      rotation.StepPolicy
	Location        *time.Location
	WebhookURL      string // used when Slack:WebhookUrl is not stored
	ErrorWebhookURL string // used when Slack:PersonalWebhookUrl is not stored
}

// AssignmentChange describes one persisted assignment update.
type AssignmentChange struct {
	AssignmentID     int64  `json:"assignmentId"`
	TaskID           int64  `json:"taskId"`
	PreviousMemberID int64  `json:"previousMemberId"`
	MemberID         int64  `json:"memberId"`
	PeriodStart      string `json:"periodStart"`
	PeriodEnd        string `json:"periodEnd"`
	Rotations        int    `json:"rotations,omitempty"`
}

// PassReport summarizes an advance or re-anchor pass.
type PassReport struct {
	RunID     string             `json:"runId"`
	Date      string             `json:"date"`
	Updated   []AssignmentChange `json:"updated"`
	Unchanged int                `json:"unchanged"`
	Skipped   []int64            `json:"skipped,omitempty"`
	Errors    []string           `json:"errors,omitempty"`
	// Failures holds the per-assignment errors behind Errors.
	Failures []error `json:"-"`
}

func (r *PassReport) fail(err error) {
	r.Failures = append(r.Failures, err)
	r.Errors = append(r.Errors, err.Error())
}

// ScheduledReport is the outcome of a scheduled run.
type ScheduledReport struct {
	RunID         string      `json:"runId"`
	Date          string      `json:"date"`
	NotWorkingDay bool        `json:"notWorkingDay,omitempty"`
	Advance       *PassReport `json:"advance,omitempty"`
	Announced     bool        `json:"announced"`
}

// AssignmentDetail is an assignment joined with its task and member names.
type AssignmentDetail struct {
	ID                 int64  `json:"id"`
	TaskID             int64  `json:"taskId"`
	TaskName           string `json:"taskName"`
	RotationRule       string `json:"rotationRule"`
	PreviewLookahead   int    `json:"previewLookahead,omitempty"`
	MemberID           int64  `json:"memberId"`
	MemberName         string `json:"memberName"`
	NotificationHandle string `json:"notificationHandle,omitempty"`
	PeriodStart        string `json:"periodStart"`
	PeriodEnd          string `json:"periodEnd"`
}

// RotationService runs rotation passes against storage and announces the result.
// Passes are serialized; only one runs at a time within the process.
type RotationService struct {
	repos    Repositories
	calendar Calendar
	notifier notify.Client
	advancer *rotation.Advancer
	cfg      ServiceConfig

	log     *logrus.Entry
	metrics Metrics
	tracer  trace.Tracer
	now     func() time.Time

	mu sync.Mutex
}

func NewRotationService(repos Repositories, cal Calendar, notifier notify.Client, cfg ServiceConfig, opts ...Option) *RotationService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	s := &RotationService{
		repos:    repos,
		calendar: cal,
		notifier: notifier,
		advancer: rotation.NewAdvancer(cfg.StepPolicy),
		cfg:      cfg,
		log:      logrus.NewEntry(logrus.StandardLogger()),
		metrics:  nopMetrics{},
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar date in the configured location.
func (s *RotationService) Today() time.Time {
	return rotation.DateOf(s.now().In(s.cfg.Location))
}

func (s *RotationService) isWorkingDay(ctx context.Context) rotation.WorkingDayFunc {
	return func(day time.Time) bool { return s.calendar.IsWorkingDay(ctx, day) }
}

// AdvanceAssignments rotates every due assignment and persists the changes.
func (s *RotationService) AdvanceAssignments(ctx context.Context) (*PassReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runPass(ctx, "advance", uuid.NewString())
}

// FixDates recomputes every assignment's period as the next period after today, keeping each assignee.
func (s *RotationService) FixDates(ctx context.Context) (*PassReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runPass(ctx, "fix_dates", uuid.NewString())
}

// Announce sends the current assignments to the configured webhook.
func (s *RotationService) Announce(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.announce(ctx, uuid.NewString())
}

// RunScheduled is the scheduled job: optionally skip non-working days, advance, then announce.
func (s *RotationService) RunScheduled(ctx context.Context, checkWorkingDay bool) (*ScheduledReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	today := s.Today()
	report := &ScheduledReport{RunID: runID, Date: today.Format(assignment.DateLayout)}
	log := s.log.WithFields(logrus.Fields{"run_id": runID, "date": report.Date})

	if checkWorkingDay && !s.calendar.IsWorkingDay(ctx, today) {
		log.Info("Not a working day, skipping scheduled run")
		report.NotWorkingDay = true
		s.metrics.RecordRun("scheduled", "skipped", 0)
		return report, nil
	}

	adv, err := s.runPass(ctx, "advance", runID)
	if err != nil {
		return report, err
	}
	report.Advance = adv

	err = s.announce(ctx, runID)
	switch {
	case err == nil:
		report.Announced = true
	case errors.Is(err, ErrNothingToAnnounce):
		log.Info("No assignments to announce")
	default:
		return report, err
	}
	return report, nil
}

func (s *RotationService) runPass(ctx context.Context, operation, runID string) (report *PassReport, err error) {
	start := time.Now()
	today := s.Today()
	ctx, span := s.tracer.Start(ctx, "rotation."+operation, trace.WithAttributes(
		attribute.String("rotation.run_id", runID),
		attribute.String("rotation.date", today.Format(assignment.DateLayout)),
	))
	log := s.log.WithFields(logrus.Fields{"run_id": runID, "operation": operation, "date": today.Format(assignment.DateLayout)})
	defer func() {
		s.finish(span, operation, start, err)
	}()

	members, tasks, assignments, err := s.loadAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load rotation data")
		return nil, err
	}

	var res rotation.Result
	if operation == "fix_dates" {
		res = rotation.Reanchor(tasks, assignments, today, s.isWorkingDay(ctx))
	} else {
		res = s.advancer.AdvanceAll(tasks, members, assignments, today, s.isWorkingDay(ctx))
	}

	report = &PassReport{
		RunID:     runID,
		Date:      today.Format(assignment.DateLayout),
		Updated:   []AssignmentChange{},
		Unchanged: len(res.Unchanged),
	}
	for _, sk := range res.Skipped {
		log.WithFields(logrus.Fields{"assignment_id": sk.AssignmentID, "task_id": sk.TaskID}).Warn("Assignment references unknown task, skipping")
		report.Skipped = append(report.Skipped, sk.AssignmentID)
	}
	for _, f := range res.Failures {
		log.WithFields(logrus.Fields{
			"assignment_id": f.AssignmentID,
			"task_id":       f.TaskID,
			"rule":          f.Rule,
		}).WithError(f.Err).Error("Failed to evaluate assignment")
		report.fail(f)
	}

	rotated := 0
	for _, c := range res.Changes {
		entry := log.WithFields(logrus.Fields{"assignment_id": c.Updated.ID, "task_id": c.Updated.TaskID})
		if err := s.repos.Assignments.Upsert(ctx, c.Updated); err != nil {
			entry.WithError(err).Error("Failed to save assignment")
			report.fail(&rotation.AssignmentError{
				AssignmentID: c.Updated.ID,
				TaskID:       c.Updated.TaskID,
				Err:          fmt.Errorf("save assignment: %w", err),
			})
			continue
		}
		if c.Updated.MemberID != c.Previous.MemberID {
			rotated++
		}
		entry.WithFields(logrus.Fields{
			"from_member_id": c.Previous.MemberID,
			"to_member_id":   c.Updated.MemberID,
			"period_start":   c.Updated.PeriodStart.Format(assignment.DateLayout),
			"period_end":     c.Updated.PeriodEnd.Format(assignment.DateLayout),
			"rotations":      c.Rotations,
		}).Info("Assignment updated")
		report.Updated = append(report.Updated, AssignmentChange{
			AssignmentID:     c.Updated.ID,
			TaskID:           c.Updated.TaskID,
			PreviousMemberID: c.Previous.MemberID,
			MemberID:         c.Updated.MemberID,
			PeriodStart:      c.Updated.PeriodStart.Format(assignment.DateLayout),
			PeriodEnd:        c.Updated.PeriodEnd.Format(assignment.DateLayout),
			Rotations:        c.Rotations,
		})
	}

	s.metrics.RecordRotations(rotated)
	s.metrics.RecordAssignmentFailures(len(report.Failures))
	span.SetAttributes(
		attribute.Int("rotation.updated", len(report.Updated)),
		attribute.Int("rotation.failures", len(report.Failures)),
	)
	log.WithFields(logrus.Fields{
		"updated":   len(report.Updated),
		"unchanged": report.Unchanged,
		"skipped":   len(report.Skipped),
		"failures":  len(report.Failures),
	}).Info("Rotation pass finished")
	return report, nil
}

func (s *RotationService) announce(ctx context.Context, runID string) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "rotation.announce", trace.WithAttributes(attribute.String("rotation.run_id", runID)))
	log := s.log.WithFields(logrus.Fields{"run_id": runID, "operation": "announce"})
	defer func() {
		s.finish(span, "announce", start, err)
	}()

	webhook, err := s.resolveSetting(ctx, sysconfig.KeySlackWebhookURL, s.cfg.WebhookURL)
	if err != nil {
		s.metrics.RecordAnnouncement("failed")
		return err
	}
	if webhook == "" {
		s.metrics.RecordAnnouncement("unconfigured")
		log.Warn("Announcement webhook is not configured")
		s.alert(ctx, log, ErrWebhookNotConfigured)
		return ErrWebhookNotConfigured
	}

	details, members, err := s.listDetails(ctx)
	if err != nil {
		s.metrics.RecordAnnouncement("failed")
		s.alert(ctx, log, err)
		return err
	}
	entries := make([]rotation.Entry, 0, len(details))
	for _, d := range details {
		entries = append(entries, rotation.Entry{
			AssignmentID:     d.ID,
			TaskName:         d.TaskName,
			PreviewLookahead: d.PreviewLookahead,
			MemberID:         d.MemberID,
			DisplayName:      d.MemberName,
			Handle:           d.NotificationHandle,
		})
	}

	text, ok := rotation.FormatAnnouncementWith(entries, members, s.mentionStyle(webhook))
	if !ok {
		s.metrics.RecordAnnouncement("empty")
		return ErrNothingToAnnounce
	}

	if err := s.notifier.SendText(ctx, webhook, text); err != nil {
		s.metrics.RecordAnnouncement("failed")
		log.WithError(err).Error("Failed to send announcement")
		s.alert(ctx, log, err)
		return fmt.Errorf("send announcement: %w", err)
	}
	s.metrics.RecordAnnouncement("sent")
	log.WithField("lines", strings.Count(text, "\n")).Info("Announcement sent")
	return nil
}

func (s *RotationService) mentionStyle(destination string) notify.MentionFunc {
	if ms, ok := s.notifier.(notify.MentionStyler); ok {
		if f := ms.MentionStyle(destination); f != nil {
			return f
		}
	}
	return rotation.Mention
}

// alert posts err to the error channel. Failures are only logged.
func (s *RotationService) alert(ctx context.Context, log *logrus.Entry, cause error) {
	dest, err := s.resolveSetting(ctx, sysconfig.KeySlackPersonalWebhookURL, s.cfg.ErrorWebhookURL)
	if err != nil {
		log.WithError(err).Warn("Failed to resolve error channel")
		return
	}
	if dest == "" {
		log.Warn("Error channel webhook is not configured")
		return
	}
	if err := s.notifier.SendText(ctx, dest, cause.Error()); err != nil {
		log.WithError(err).Error("Failed to send error to error channel")
	}
}

// resolveSetting reads key from storage, falling back to def when absent or blank.
func (s *RotationService) resolveSetting(ctx context.Context, key, def string) (string, error) {
	e, err := s.repos.Configs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sysconfig.ErrNotFound) {
			return def, nil
		}
		return "", fmt.Errorf("read config %s: %w", key, err)
	}
	if v := strings.TrimSpace(e.Value); v != "" {
		return v, nil
	}
	return def, nil
}

// ListAssignmentDetails returns assignments joined with task and member names, ordered by assignment ID.
func (s *RotationService) ListAssignmentDetails(ctx context.Context) ([]AssignmentDetail, error) {
	details, _, err := s.listDetails(ctx)
	return details, err
}

// ListMembers returns the roster in rotation order.
func (s *RotationService) ListMembers(ctx context.Context) ([]member.Member, error) {
	members, err := s.repos.Members.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return []member.Member(rotation.NewRoster(members)), nil
}

// ListTasks returns every task.
func (s *RotationService) ListTasks(ctx context.Context) ([]task.Task, error) {
	tasks, err := s.repos.Tasks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *RotationService) listDetails(ctx context.Context) ([]AssignmentDetail, []member.Member, error) {
	members, tasks, assignments, err := s.loadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	taskByID := make(map[int64]task.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}
	memberByID := make(map[int64]member.Member, len(members))
	for _, m := range members {
		memberByID[m.ID] = m
	}

	details := make([]AssignmentDetail, 0, len(assignments))
	for _, a := range assignments {
		d := AssignmentDetail{
			ID:          a.ID,
			TaskID:      a.TaskID,
			TaskName:    unknownTask,
			MemberID:    a.MemberID,
			MemberName:  unknownMember,
			PeriodStart: a.PeriodStart.Format(assignment.DateLayout),
			PeriodEnd:   a.PeriodEnd.Format(assignment.DateLayout),
		}
		if t, ok := taskByID[a.TaskID]; ok {
			d.TaskName = t.Name
			d.RotationRule = t.RotationRule
			d.PreviewLookahead = t.PreviewLookahead
		}
		if m, ok := memberByID[a.MemberID]; ok {
			d.MemberName = m.DisplayName
			d.NotificationHandle = m.NotificationHandle
		}
		details = append(details, d)
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ID < details[j].ID })
	return details, members, nil
}

func (s *RotationService) loadAll(ctx context.Context) ([]member.Member, []task.Task, []assignment.Assignment, error) {
	return loadAll(ctx, s.repos)
}

func loadAll(ctx context.Context, repos Repositories) ([]member.Member, []task.Task, []assignment.Assignment, error) {
	members, err := repos.Members.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list members: %w", err)
	}
	tasks, err := repos.Tasks.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list tasks: %w", err)
	}
	assignments, err := repos.Assignments.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list assignments: %w", err)
	}
	return members, tasks, assignments, nil
}

func (s *RotationService) finish(span trace.Span, operation string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrNothingToAnnounce):
		result = "empty"
	case err != nil:
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	s.metrics.RecordRun(operation, result, time.Since(start).Seconds())
}
