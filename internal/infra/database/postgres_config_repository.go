package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"team_rotator/internal/domain/sysconfig"
)

type PostgresConfigRepository struct {
	db *sql.DB
}

var _ sysconfig.Repository = (*PostgresConfigRepository)(nil)

func NewPostgresConfigRepository(db *sql.DB) *PostgresConfigRepository {
	return &PostgresConfigRepository{db: db}
}

func (r *PostgresConfigRepository) Get(ctx context.Context, key string) (*sysconfig.Entry, error) {
	query := `SELECT key, value, last_modified, modified_by FROM system_configs WHERE key = $1`
	var (
		e          sysconfig.Entry
		modifiedBy sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, key).Scan(&e.Key, &e.Value, &e.LastModified, &modifiedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sysconfig.ErrNotFound
		}
		return nil, fmt.Errorf("error getting config %q: %w", key, err)
	}
	e.ModifiedBy = modifiedBy.String
	return &e, nil
}

func (r *PostgresConfigRepository) ListAll(ctx context.Context) ([]sysconfig.Entry, error) {
	query := `SELECT key, value, last_modified, modified_by FROM system_configs ORDER BY key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing configs: %w", err)
	}
	defer rows.Close()

	entries := make([]sysconfig.Entry, 0)
	for rows.Next() {
		var (
			e          sysconfig.Entry
			modifiedBy sql.NullString
		)
		if err := rows.Scan(&e.Key, &e.Value, &e.LastModified, &modifiedBy); err != nil {
			return nil, fmt.Errorf("error scanning config: %w", err)
		}
		e.ModifiedBy = modifiedBy.String
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating configs: %w", err)
	}
	return entries, nil
}

func (r *PostgresConfigRepository) Save(ctx context.Context, e sysconfig.Entry) error {
	query := `INSERT INTO system_configs (key, value, last_modified, modified_by)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (key) DO UPDATE
               SET value = EXCLUDED.value, last_modified = EXCLUDED.last_modified, modified_by = EXCLUDED.modified_by`

	modified := e.LastModified
	if modified.IsZero() {
		modified = time.Now()
	}
	modifiedBy := sql.NullString{String: e.ModifiedBy, Valid: e.ModifiedBy != ""}
	if _, err := r.db.ExecContext(ctx, query, e.Key, e.Value, modified, modifiedBy); err != nil {
		return fmt.Errorf("error saving config %q: %w", e.Key, err)
	}
	return nil
}
