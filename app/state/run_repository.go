package state

import (
	"database/sql"
	"fmt"
	"time"
)

var _ RunRepository = (*SQLRunRepository)(nil)

// SQLRunRepository records sync run history for operational visibility.
type SQLRunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *SQLRunRepository {
	return &SQLRunRepository{db: db}
}

func (r *SQLRunRepository) StartRun(id string, mode string, startedAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO sync_runs (id, mode, started_at)
		VALUES (?, ?, ?)
	`, id, mode, startedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}

	return nil
}

func (r *SQLRunRepository) FinishRun(id string, finishedAt time.Time, created, updated, unchanged, skipped, failed int) error {
	_, err := r.db.Exec(`
		UPDATE sync_runs
		SET finished_at = ?, created = ?, updated = ?, unchanged = ?, skipped = ?, failed = ?
		WHERE id = ?
	`, finishedAt.UTC(), created, updated, unchanged, skipped, failed, id)
	if err != nil {
		return fmt.Errorf("failed to record run finish: %w", err)
	}

	return nil
}

func (r *SQLRunRepository) GetRun(id string) (*Run, error) {
	var run Run

	err := r.db.QueryRow(`
		SELECT id, mode, started_at, finished_at, created, updated, unchanged, skipped, failed
		FROM sync_runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Mode, &run.StartedAt, &run.FinishedAt,
		&run.Created, &run.Updated, &run.Unchanged, &run.Skipped, &run.Failed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	return &run, nil
}
