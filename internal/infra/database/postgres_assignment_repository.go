package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"team_rotator/internal/domain/assignment"
	"team_rotator/internal/domain/rotation"
)

// ErrDuplicateTaskAssignment is returned when a second assignment is written for the same task.
var ErrDuplicateTaskAssignment = fmt.Errorf("task already has an assignment")

const uniqueViolation = "23505"

type PostgresAssignmentRepository struct {
	db *sql.DB
}

var _ assignment.Repository = (*PostgresAssignmentRepository)(nil)

func NewPostgresAssignmentRepository(db *sql.DB) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{db: db}
}

func (r *PostgresAssignmentRepository) ListAll(ctx context.Context) ([]assignment.Assignment, error) {
	query := `SELECT id, task_id, member_id, period_start, period_end
               FROM task_assignments ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]assignment.Assignment, 0)
	for rows.Next() {
		var a assignment.Assignment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.MemberID, &a.PeriodStart, &a.PeriodEnd); err != nil {
			return nil, fmt.Errorf("error scanning assignment: %w", err)
		}
		// DATE columns come back at midnight UTC already; normalize anyway so equality checks hold.
		a.PeriodStart = rotation.DateOf(a.PeriodStart)
		a.PeriodEnd = rotation.DateOf(a.PeriodEnd)
		assignments = append(assignments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return assignments, nil
}

func (r *PostgresAssignmentRepository) Upsert(ctx context.Context, a assignment.Assignment) error {
	query := `INSERT INTO task_assignments (id, task_id, member_id, period_start, period_end)
               VALUES ($1, $2, $3, $4, $5)
               ON CONFLICT (id) DO UPDATE
               SET task_id = EXCLUDED.task_id,
                   member_id = EXCLUDED.member_id,
                   period_start = EXCLUDED.period_start,
                   period_end = EXCLUDED.period_end`

	_, err := r.db.ExecContext(ctx, query, a.ID, a.TaskID, a.MemberID,
		a.PeriodStart.Format(assignment.DateLayout), a.PeriodEnd.Format(assignment.DateLayout))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return ErrDuplicateTaskAssignment
		}
		return fmt.Errorf("error upserting assignment %d: %w", a.ID, err)
	}
	return nil
}

func (r *PostgresAssignmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM task_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting assignment %d: %w", id, err)
	}
	return expectOneRow(result, assignment.ErrNotFound)
}

// expectOneRow maps a statement that touched no rows to notFound.
func expectOneRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
