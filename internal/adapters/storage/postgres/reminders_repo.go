package postgres

import (
	"context"
	"database/sql"
	"time"
)

// RemindersRepo persiste los marcadores de de-duplicación y el cursor del
// último check. reminder_state es una tabla de una sola fila (id = 1).
type RemindersRepo struct {
	db *sql.DB
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db}
}

func (r *RemindersRepo) All(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT marker_key, marked_at
		FROM reminder_markers
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var key string
		var at time.Time
		if err := rows.Scan(&key, &at); err != nil {
			return nil, err
		}
		out[key] = at
	}

	return out, rows.Err()
}

func (r *RemindersRepo) Put(ctx context.Context, key string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminder_markers (marker_key, marked_at)
		VALUES ($1, $2)
		ON CONFLICT (marker_key) DO UPDATE SET marked_at = EXCLUDED.marked_at
	`, key, at)
	return err
}

func (r *RemindersRepo) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	// Una a una: las podas son chicas (marcadores de pocas horas).
	for _, k := range keys {
		if _, err := r.db.ExecContext(ctx, `
			DELETE FROM reminder_markers
			WHERE marker_key = $1
		`, k); err != nil {
			return err
		}
	}
	return nil
}

func (r *RemindersRepo) LastCheck(ctx context.Context) (time.Time, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT last_check
		FROM reminder_state
		WHERE id = 1
	`)

	var t time.Time
	if err := row.Scan(&t); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return t, true, nil
}

func (r *RemindersRepo) SetLastCheck(ctx context.Context, t time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminder_state (id, last_check)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_check = EXCLUDED.last_check
	`, t)
	return err
}
