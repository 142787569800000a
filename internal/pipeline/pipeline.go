package pipeline

import (
	"go.uber.org/zap"

	"github.com/Imsharad/upwork-jobs-agent/internal/clean"
	"github.com/Imsharad/upwork-jobs-agent/internal/config"
	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
	"github.com/Imsharad/upwork-jobs-agent/internal/rank"
)

type Stats struct {
	Loaded  int
	Kept    int
	Dropped map[string]int // reason -> count
}

// Run projects, normalizes, filters, scores and sanitizes raw in one pass.
// It either returns the whole table or an error; nothing partial.
func Run(raw domain.RawTable, s config.Schema) (domain.Table, Stats, error) {
	log := zap.S().Named("pipeline")
	stats := Stats{Loaded: len(raw.Records), Dropped: map[string]int{}}

	if err := s.Validate(); err != nil {
		return domain.Table{}, stats, err
	}

	projected, err := clean.Project(raw, s)
	if err != nil {
		return domain.Table{}, stats, err
	}
	log.Debugf("projected %d rows onto %d columns + tags", len(projected), len(s.RawOrder))

	jobs := clean.NormalizeAll(projected)

	kept, dropped := rank.Filter(jobs)
	stats.Kept = len(kept)
	stats.Dropped = dropped
	for reason, n := range dropped {
		log.Debugf("dropped %d rows (%s)", n, reason)
	}

	var scorer rank.Scorer = rank.NewGoldenScorer(s)
	scored := scorer.Score(kept)
	final := clean.SanitizeAll(scored)

	log.Infof("kept %d of %d rows", stats.Kept, stats.Loaded)
	return domain.Table{Columns: s.OutputColumns, Rows: final}, stats, nil
}
