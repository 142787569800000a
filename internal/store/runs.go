package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

type Run struct {
	ID        string
	CreatedAt time.Time
	InputPath string
	RowCount  int
}

// InsertRun stores run and its jobs, in table order, in one transaction.
func InsertRun(ctx context.Context, db *sql.DB, run Run, jobs []domain.JobRecord) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, input_path, row_count)
VALUES (?, ?, ?, ?);`,
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339), run.InputPath, len(jobs),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO jobs (
  run_id, position, rating, total_spent_by_client, country, payment_verified,
  job_url_main, job_title, job_description, time_posted, hourly_rate,
  skill_level, estimated_time, estimated_budget, tags, golden_score
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, j := range jobs {
		tags := j.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsB, err := json.Marshal(tags)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			run.ID, i, j.Rating, j.TotalSpentByClient, j.Country, j.PaymentVerified,
			j.JobURLMain, j.JobTitle, j.JobDescription, j.TimePosted, j.HourlyRate,
			j.SkillLevel, j.EstimatedTime, j.EstimatedBudget, string(tagsB), j.GoldenScore,
		); err != nil {
			return fmt.Errorf("insert job %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func GetRun(ctx context.Context, db *sql.DB, id string) (Run, error) {
	var r Run
	var created string
	err := db.QueryRowContext(ctx, `
SELECT id, created_at, input_path, row_count
FROM runs
WHERE id = ?;`, id).Scan(&r.ID, &created, &r.InputPath, &r.RowCount)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: created_at: %w", id, err)
	}
	return r, nil
}

// ListRunJobs returns the jobs of a run in their stored order.
func ListRunJobs(ctx context.Context, db *sql.DB, runID string) ([]domain.JobRecord, error) {
	rows, err := db.QueryContext(ctx, `
SELECT rating, total_spent_by_client, country, payment_verified, job_url_main,
       job_title, job_description, time_posted, hourly_rate, skill_level,
       estimated_time, estimated_budget, tags, golden_score
FROM jobs
WHERE run_id = ?
ORDER BY position;`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobRecord
	for rows.Next() {
		var j domain.JobRecord
		var tagsJSON string
		if err := rows.Scan(
			&j.Rating,
			&j.TotalSpentByClient,
			&j.Country,
			&j.PaymentVerified,
			&j.JobURLMain,
			&j.JobTitle,
			&j.JobDescription,
			&j.TimePosted,
			&j.HourlyRate,
			&j.SkillLevel,
			&j.EstimatedTime,
			&j.EstimatedBudget,
			&tagsJSON,
			&j.GoldenScore,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tagsJSON), &j.Tags); err != nil {
			return nil, fmt.Errorf("run %s job %d: tags: %w", runID, len(out), err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CleanupOldRuns deletes runs (and their jobs) created before cutoff.
func CleanupOldRuns(ctx context.Context, db *sql.DB, cutoff time.Time) (deleted int64, err error) {
	res, err := db.ExecContext(ctx, `
DELETE FROM runs
WHERE created_at < ?;`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("cleanup old runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
