package rank

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/Imsharad/upwork-jobs-agent/internal/config"
	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

const (
	fullTimeHours = 30
	partTimeHours = 15
	weeksPerMonth = 4
	// proposed rate ceiling: the highest hourly rate at full time for a month
	rateCeiling = fullTimeHours * weeksPerMonth
)

// Norms are the dataset-wide denominators, computed once per run.
type Norms struct {
	MaxTotalSpent   float64
	MaxProposedRate float64
}

func ComputeNorms(jobs []domain.JobRecord) Norms {
	var maxSpent, maxRate float64
	for _, j := range jobs {
		maxSpent = max(maxSpent, j.TotalSpentByClient)
		maxRate = max(maxRate, j.HourlyRate)
	}
	return Norms{MaxTotalSpent: maxSpent, MaxProposedRate: maxRate * rateCeiling}
}

// Components are the five normalized score inputs, each in [0, 1].
type Components struct {
	TotalSpent     float64
	ProposedRate   float64
	Rating         float64
	SkillLevel     float64
	TimeCommitment float64
}

type GoldenScorer struct {
	Weights map[string]float64
	Marker  string
}

func NewGoldenScorer(s config.Schema) GoldenScorer {
	return GoldenScorer{Weights: s.ScoreWeights, Marker: s.CommitmentMarker}
}

func (g GoldenScorer) highCommitment(j domain.JobRecord) bool {
	return strings.Contains(j.EstimatedTime, g.Marker)
}

func (g GoldenScorer) Components(j domain.JobRecord, n Norms) Components {
	hours, timeScore := partTimeHours, 1.0
	if g.highCommitment(j) {
		hours, timeScore = fullTimeHours, 2.0
	}
	proposedRate := j.HourlyRate * float64(hours) * weeksPerMonth

	skill := 1.0
	switch j.SkillLevel {
	case "Expert":
		skill = 3
	case "Intermediate":
		skill = 2
	}

	var c Components
	if n.MaxTotalSpent > 0 {
		c.TotalSpent = j.TotalSpentByClient / n.MaxTotalSpent
	}
	if n.MaxProposedRate > 0 {
		c.ProposedRate = proposedRate / n.MaxProposedRate
	}
	c.Rating = j.Rating / 5
	c.SkillLevel = skill / 3
	c.TimeCommitment = timeScore / 2
	return c
}

// ScoreOne returns the 0..100 golden score of j. A job without a rating scores 0.
func (g GoldenScorer) ScoreOne(j domain.JobRecord, n Norms) float64 {
	if j.Rating == 0 {
		return 0
	}
	c := g.Components(j, n)
	sum := c.TotalSpent*g.Weights[config.WeightTotalSpent] +
		c.ProposedRate*g.Weights[config.WeightProposedRate] +
		c.Rating*g.Weights[config.WeightRating] +
		c.SkillLevel*g.Weights[config.WeightSkillLevel] +
		c.TimeCommitment*g.Weights[config.WeightTimeCommitment]
	// two decimals of the unit score, on a 0..100 scale; exact halves go to even
	return math.RoundToEven(sum * 100)
}

// Score recomputes every score from scratch, so it can be rerun on its own output.
// Ties keep their input order.
func (g GoldenScorer) Score(jobs []domain.JobRecord) []domain.JobRecord {
	out := slices.Clone(jobs)
	for i := range out {
		out[i].GoldenScore = 0
	}

	n := ComputeNorms(out)
	for i := range out {
		out[i].GoldenScore = g.ScoreOne(out[i], n)
	}

	slices.SortStableFunc(out, func(a, b domain.JobRecord) int {
		return cmp.Compare(b.GoldenScore, a.GoldenScore)
	})
	return out
}
