package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/sitesearch"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitesearch.RunService = (*RunService)(nil)

// RunService implements sitesearch.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records a new run with a generated ID. StartedAt defaults to now.
func (s *RunService) CreateRun(ctx context.Context, run *sitesearch.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed_url, started_at, indexed, skipped, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.SeedURL, formatTime(run.StartedAt), run.Indexed, run.Skipped, run.Failed)

	return err
}

// FinishRun stores the final counts of a run and marks it finished.
func (s *RunService) FinishRun(ctx context.Context, id string, upd sitesearch.RunUpdate) (*sitesearch.Run, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, indexed = ?, skipped = ?, failed = ?
		WHERE id = ?
	`, formatTime(time.Now()), upd.Indexed, upd.Skipped, upd.Failed, id)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, sitesearch.Errorf(sitesearch.ENOTFOUND, "run not found")
	}

	runs, err := s.FindRuns(ctx, sitesearch.RunFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, sitesearch.Errorf(sitesearch.ENOTFOUND, "run not found")
	}
	return runs[0], nil
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter sitesearch.RunFilter) ([]*sitesearch.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, seed_url, started_at, finished_at, indexed, skipped, failed FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY started_at DESC, id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*sitesearch.Run
	for rows.Next() {
		var run sitesearch.Run
		var startedAt string
		var finishedAt sql.NullString

		if err := rows.Scan(&run.ID, &run.SeedURL, &startedAt, &finishedAt,
			&run.Indexed, &run.Skipped, &run.Failed); err != nil {
			return nil, err
		}

		run.StartedAt, err = parseRFC3339(startedAt, "started_at")
		if err != nil {
			return nil, err
		}
		if finishedAt.Valid {
			t, err := parseRFC3339(finishedAt.String, "finished_at")
			if err != nil {
				return nil, err
			}
			run.FinishedAt = &t
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}


// ImportRuns copies the run history of the index database at path into this
// one and returns the number of runs copied. Runs already present are kept.
func (s *RunService) ImportRuns(ctx context.Context, path string) (n int, err error) {
	// ATTACH is per connection, so pin one for the whole copy.
	conn, err := s.db.db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "ATTACH DATABASE ? AS prev", path); err != nil {
		return 0, fmt.Errorf("attach %s: %w", path, err)
	}
	defer func() {
		if _, e := conn.ExecContext(context.WithoutCancel(ctx), "DETACH DATABASE prev"); e != nil && err == nil {
			err = e
		}
	}()

	result, err := conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO runs (id, seed_url, started_at, finished_at, indexed, skipped, failed)
		SELECT id, seed_url, started_at, finished_at, indexed, skipped, failed FROM prev.runs
	`)
	if err != nil {
		return 0, fmt.Errorf("copy runs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
