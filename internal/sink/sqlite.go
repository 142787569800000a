package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
	"github.com/Imsharad/upwork-jobs-agent/internal/store"
)

// SQLite appends each published table as a new run.
type SQLite struct {
	Path          string
	InputPath     string
	RetentionDays int

	now func() time.Time
}

func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) Publish(ctx context.Context, t domain.Table) (string, error) {
	now := time.Now
	if s.now != nil {
		now = s.now
	}

	db, err := store.Open(ctx, s.Path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	run := store.Run{ID: uuid.NewString(), CreatedAt: now(), InputPath: s.InputPath}
	if err := store.InsertRun(ctx, db.Pool, run, t.Rows); err != nil {
		return "", err
	}

	if s.RetentionDays > 0 {
		cutoff := run.CreatedAt.AddDate(0, 0, -s.RetentionDays)
		n, err := store.CleanupOldRuns(ctx, db.Pool, cutoff)
		if err != nil {
			return "", err
		}
		if n > 0 {
			zap.S().Named("sink").Infof("sqlite: pruned %d runs older than %d days", n, s.RetentionDays)
		}
	}

	return fmt.Sprintf("sqlite://%s?run=%s", s.Path, run.ID), nil
}
