package database

import (
	"context"
	"database/sql"
	"fmt"

	"team_rotator/internal/domain/task"
)

type PostgresTaskRepository struct {
	db *sql.DB
}

var _ task.Repository = (*PostgresTaskRepository)(nil)

func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) ListAll(ctx context.Context) ([]task.Task, error) {
	query := `SELECT id, name, rotation_rule, preview_lookahead FROM tasks ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.Name, &t.RotationRule, &t.PreviewLookahead); err != nil {
			return nil, fmt.Errorf("error scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, t *task.Task) error {
	query := `INSERT INTO tasks (name, rotation_rule, preview_lookahead)
               VALUES ($1, $2, $3)
               RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, t.Name, t.RotationRule, t.PreviewLookahead).Scan(&t.ID); err != nil {
		return fmt.Errorf("error creating task: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, t task.Task) error {
	query := `UPDATE tasks SET name = $1, rotation_rule = $2, preview_lookahead = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, t.Name, t.RotationRule, t.PreviewLookahead, t.ID)
	if err != nil {
		return fmt.Errorf("error updating task %d: %w", t.ID, err)
	}
	return expectOneRow(result, task.ErrNotFound)
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting task %d: %w", id, err)
	}
	return expectOneRow(result, task.ErrNotFound)
}
