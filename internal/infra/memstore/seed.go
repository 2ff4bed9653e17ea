package memstore

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/member"
	"team_rotator/internal/domain/rotation"
	"team_rotator/internal/domain/sysconfig"
	"team_rotator/internal/domain/task"
)

// Seed is the YAML document used to populate a Store.
type Seed struct {
	Members     []member.Member   `yaml:"members"`
	Tasks       []task.Task       `yaml:"tasks"`
	Assignments []seedAssignment  `yaml:"assignments"`
	Configs     []sysconfig.Entry `yaml:"configs"`
}

type seedAssignment struct {
	ID          int64  `yaml:"id"`
	TaskID      int64  `yaml:"taskId"`
	MemberID    int64  `yaml:"memberId"`
	PeriodStart string `yaml:"periodStart"`
	PeriodEnd   string `yaml:"periodEnd"`
}

// LoadFile reads a YAML seed file into a new Store.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML seed into a new Store.
func Load(r io.Reader) (*Store, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	s := New()
	for _, m := range seed.Members {
		s.putMember(m)
	}
	for _, t := range seed.Tasks {
		if t.PreviewLookahead < 0 {
			return nil, fmt.Errorf("task %d: previewLookahead must not be negative", t.ID)
		}
		s.putTask(t)
	}
	for _, sa := range seed.Assignments {
		a, err := sa.toAssignment()
		if err != nil {
			return nil, err
		}
		s.assignments[a.ID] = a
	}
	for _, e := range seed.Configs {
		if e.LastModified.IsZero() {
			e.LastModified = s.now()
		}
		s.configs[e.Key] = e
	}
	return s, nil
}

func (sa seedAssignment) toAssignment() (assignment.Assignment, error) {
	start, err := time.Parse(assignment.DateLayout, sa.PeriodStart)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("assignment %d: invalid periodStart: %w", sa.ID, err)
	}
	end, err := time.Parse(assignment.DateLayout, sa.PeriodEnd)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("assignment %d: invalid periodEnd: %w", sa.ID, err)
	}
	if end.Before(start) {
		return assignment.Assignment{}, fmt.Errorf("assignment %d: periodEnd before periodStart", sa.ID)
	}
	return assignment.Assignment{
		ID:          sa.ID,
		TaskID:      sa.TaskID,
		MemberID:    sa.MemberID,
		PeriodStart: rotation.DateOf(start),
		PeriodEnd:   rotation.DateOf(end),
	}, nil
}
