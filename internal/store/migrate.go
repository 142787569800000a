package store

import (
	"context"
	"database/sql"
)

const schemaVersion = 1

// Migrate brings the database up to schemaVersion, tracked in PRAGMA user_version.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= schemaVersion {
		return tx.Commit()
	}

	// ---- v1 ----

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  created_at TEXT NOT NULL,
  input_path TEXT NOT NULL DEFAULT '',
  row_count INTEGER NOT NULL DEFAULT 0
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
  run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  rating REAL NOT NULL DEFAULT 0,
  total_spent_by_client REAL NOT NULL DEFAULT 0,
  country TEXT NOT NULL DEFAULT '',
  payment_verified TEXT NOT NULL DEFAULT '',
  job_url_main TEXT NOT NULL DEFAULT '',
  job_title TEXT NOT NULL DEFAULT '',
  job_description TEXT NOT NULL DEFAULT '',
  time_posted TEXT NOT NULL DEFAULT '',
  hourly_rate REAL NOT NULL DEFAULT 0,
  skill_level TEXT NOT NULL DEFAULT '',
  estimated_time TEXT NOT NULL DEFAULT '',
  estimated_budget REAL NOT NULL DEFAULT 0,
  tags TEXT NOT NULL DEFAULT '[]',
  golden_score REAL NOT NULL DEFAULT 0,
  PRIMARY KEY (run_id, position)
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS idx_jobs_golden_score
ON jobs(golden_score);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
