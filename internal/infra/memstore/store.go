package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/member"
	"team_rotator/internal/domain/sysconfig"
	"team_rotator/internal/domain/task"
)

// Store keeps every collection in process memory. It backs development runs and tests.
// Each collection is exposed through its own repository view.
type Store struct {
	mu          sync.RWMutex
	members     map[int64]member.Member
	tasks       map[int64]task.Task
	assignments map[int64]assignment.Assignment
	configs     map[string]sysconfig.Entry
	now         func() time.Time

	// highest IDs ever handed out; deletes never lower them
	lastMemberID int64
	lastTaskID   int64
}

var (
	_ member.Repository     = MemberRepository{}
	_ task.Repository       = TaskRepository{}
	_ assignment.Repository = AssignmentRepository{}
	_ sysconfig.Repository  = ConfigRepository{}
)

// New returns an empty store.
func New() *Store {
	return &Store{
		members:     make(map[int64]member.Member),
		tasks:       make(map[int64]task.Task),
		assignments: make(map[int64]assignment.Assignment),
		configs:     make(map[string]sysconfig.Entry),
		now:         time.Now,
	}
}

func (s *Store) Members() MemberRepository         { return MemberRepository{s} }
func (s *Store) Tasks() TaskRepository             { return TaskRepository{s} }
func (s *Store) Assignments() AssignmentRepository { return AssignmentRepository{s} }
func (s *Store) Configs() ConfigRepository         { return ConfigRepository{s} }

// PutMember inserts or replaces a member, keeping its ID.
func (s *Store) PutMember(m member.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putMember(m)
}

// PutTask inserts or replaces a task, keeping its ID.
func (s *Store) PutTask(t task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putTask(t)
}

func (s *Store) putMember(m member.Member) {
	s.members[m.ID] = m
	s.lastMemberID = max(s.lastMemberID, m.ID)
}

func (s *Store) putTask(t task.Task) {
	s.tasks[t.ID] = t
	s.lastTaskID = max(s.lastTaskID, t.ID)
}

type MemberRepository struct{ s *Store }

func (r MemberRepository) ListAll(_ context.Context) ([]member.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]member.Member, 0, len(r.s.members))
	for _, m := range r.s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r MemberRepository) Create(_ context.Context, m *member.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.lastMemberID + 1
	r.s.putMember(*m)
	return nil
}

func (r MemberRepository) Update(_ context.Context, m member.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[m.ID]; !ok {
		return member.ErrNotFound
	}
	r.s.members[m.ID] = m
	return nil
}

func (r MemberRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[id]; !ok {
		return member.ErrNotFound
	}
	delete(r.s.members, id)
	return nil
}

type TaskRepository struct{ s *Store }

func (r TaskRepository) ListAll(_ context.Context) ([]task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]task.Task, 0, len(r.s.tasks))
	for _, t := range r.s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r TaskRepository) Create(_ context.Context, t *task.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.lastTaskID + 1
	r.s.putTask(*t)
	return nil
}

func (r TaskRepository) Update(_ context.Context, t task.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[t.ID]; !ok {
		return task.ErrNotFound
	}
	r.s.tasks[t.ID] = t
	return nil
}

func (r TaskRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return task.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

type AssignmentRepository struct{ s *Store }

func (r AssignmentRepository) ListAll(_ context.Context) ([]assignment.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]assignment.Assignment, 0, len(r.s.assignments))
	for _, a := range r.s.assignments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r AssignmentRepository) Upsert(_ context.Context, a assignment.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.assignments[a.ID] = a
	return nil
}

func (r AssignmentRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.assignments[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(r.s.assignments, id)
	return nil
}

type ConfigRepository struct{ s *Store }

func (r ConfigRepository) Get(_ context.Context, key string) (*sysconfig.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.configs[key]
	if !ok {
		return nil, sysconfig.ErrNotFound
	}
	return &e, nil
}

func (r ConfigRepository) ListAll(_ context.Context) ([]sysconfig.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]sysconfig.Entry, 0, len(r.s.configs))
	for _, e := range r.s.configs {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r ConfigRepository) Save(_ context.Context, e sysconfig.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.LastModified.IsZero() {
		e.LastModified = r.s.now()
	}
	r.s.configs[e.Key] = e
	return nil
}
