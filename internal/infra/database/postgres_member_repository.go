package database

import (
	"context"
	"database/sql"
	"fmt"

	"team_rotator/internal/domain/member"
)

type PostgresMemberRepository struct {
	db *sql.DB
}

var _ member.Repository = (*PostgresMemberRepository)(nil)

func NewPostgresMemberRepository(db *sql.DB) *PostgresMemberRepository {
	return &PostgresMemberRepository{db: db}
}

func (r *PostgresMemberRepository) ListAll(ctx context.Context) ([]member.Member, error) {
	query := `SELECT id, display_name, notification_handle FROM members ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	members := make([]member.Member, 0)
	for rows.Next() {
		var m member.Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.NotificationHandle); err != nil {
			return nil, fmt.Errorf("error scanning member: %w", err)
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}

func (r *PostgresMemberRepository) Create(ctx context.Context, m *member.Member) error {
	query := `INSERT INTO members (display_name, notification_handle)
               VALUES ($1, $2)
               RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, m.DisplayName, m.NotificationHandle).Scan(&m.ID); err != nil {
		return fmt.Errorf("error creating member: %w", err)
	}
	return nil
}

func (r *PostgresMemberRepository) Update(ctx context.Context, m member.Member) error {
	query := `UPDATE members SET display_name = $1, notification_handle = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, m.DisplayName, m.NotificationHandle, m.ID)
	if err != nil {
		return fmt.Errorf("error updating member %d: %w", m.ID, err)
	}
	return expectOneRow(result, member.ErrNotFound)
}

func (r *PostgresMemberRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting member %d: %w", id, err)
	}
	return expectOneRow(result, member.ErrNotFound)
}
