package rank

import "github.com/Imsharad/upwork-jobs-agent/internal/domain"

type Scorer interface {
	// Score returns jobs with GoldenScore set, best first.
	Score(jobs []domain.JobRecord) []domain.JobRecord
}

var _ Scorer = GoldenScorer{}
