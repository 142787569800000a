package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateSetsUserVersionAndIsRepeatable(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db.Pool))

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, schemaVersion, v)
}

func TestInsertRunRoundTrip(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	jobs := []domain.JobRecord{
		{Rating: 4.5, TotalSpentByClient: 5000, JobTitle: `A ""quoted"" title`, Tags: []string{"Go", "SQL"}, GoldenScore: 91},
		{Rating: 3, TotalSpentByClient: 900, JobTitle: "second", GoldenScore: 40},
	}
	run := Run{ID: "run-1", CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), InputPath: "in.tsv"}
	require.NoError(t, InsertRun(ctx, db.Pool, run, jobs))

	got, err := GetRun(ctx, db.Pool, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.RowCount)
	assert.Equal(t, "in.tsv", got.InputPath)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))

	back, err := ListRunJobs(ctx, db.Pool, "run-1")
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, `A ""quoted"" title`, back[0].JobTitle)
	assert.Equal(t, []string{"Go", "SQL"}, back[0].Tags)
	assert.Equal(t, []string{}, back[1].Tags)
	assert.Equal(t, 40.0, back[1].GoldenScore)
}

func TestInsertRunDuplicateIDRollsBack(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()
	run := Run{ID: "dup", CreatedAt: time.Now()}

	require.NoError(t, InsertRun(ctx, db.Pool, run, []domain.JobRecord{{JobTitle: "a"}}))
	require.Error(t, InsertRun(ctx, db.Pool, run, []domain.JobRecord{{JobTitle: "b"}, {JobTitle: "c"}}))

	back, err := ListRunJobs(ctx, db.Pool, "dup")
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "a", back[0].JobTitle)
}

func TestCleanupOldRunsCascades(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, InsertRun(ctx, db.Pool, Run{ID: "old", CreatedAt: now.Add(-48 * time.Hour)}, []domain.JobRecord{{}}))
	require.NoError(t, InsertRun(ctx, db.Pool, Run{ID: "new", CreatedAt: now}, []domain.JobRecord{{}}))

	n, err := CleanupOldRuns(ctx, db.Pool, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	old, err := ListRunJobs(ctx, db.Pool, "old")
	require.NoError(t, err)
	assert.Empty(t, old)

	_, err = GetRun(ctx, db.Pool, "new")
	assert.NoError(t, err)
}

func TestCorruptRowsAreReported(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	require.NoError(t, InsertRun(ctx, db.Pool, Run{ID: "r", CreatedAt: time.Now()}, []domain.JobRecord{{JobTitle: "a"}}))

	_, err := db.Pool.ExecContext(ctx, `UPDATE jobs SET tags = 'not json' WHERE run_id = 'r';`)
	require.NoError(t, err)
	_, err = ListRunJobs(ctx, db.Pool, "r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tags")

	_, err = db.Pool.ExecContext(ctx, `UPDATE runs SET created_at = 'yesterday' WHERE id = 'r';`)
	require.NoError(t, err)
	_, err = GetRun(ctx, db.Pool, "r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at")
}
