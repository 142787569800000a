package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Imsharad/upwork-jobs-agent/internal/config"
	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

func verified(spent float64) domain.JobRecord {
	return domain.JobRecord{PaymentVerified: PaymentVerified, TotalSpentByClient: spent}
}

func TestShouldKeepJob(t *testing.T) {
	keep, why := ShouldKeepJob(verified(5000))
	assert.True(t, keep)
	assert.Empty(t, why)

	keep, why = ShouldKeepJob(verified(0))
	assert.False(t, keep)
	assert.Equal(t, ReasonNoClientSpend, why)

	j := verified(1_000_000)
	j.PaymentVerified = "Payment unverified"
	keep, why = ShouldKeepJob(j)
	assert.False(t, keep)
	assert.Equal(t, ReasonPaymentUnverified, why)

	j.PaymentVerified = "payment verified"
	keep, _ = ShouldKeepJob(j)
	assert.False(t, keep, "match is exact")
}

func TestFilterKeepsOrderAndCountsDrops(t *testing.T) {
	a, b := verified(10), verified(20)
	a.JobTitle, b.JobTitle = "a", "b"
	unverified := domain.JobRecord{PaymentVerified: "Payment unverified", TotalSpentByClient: 99}

	kept, dropped := Filter([]domain.JobRecord{a, verified(0), unverified, b})

	require.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].JobTitle)
	assert.Equal(t, "b", kept[1].JobTitle)
	assert.Equal(t, map[string]int{ReasonNoClientSpend: 1, ReasonPaymentUnverified: 1}, dropped)

	for _, j := range kept {
		assert.Equal(t, PaymentVerified, j.PaymentVerified)
		assert.Greater(t, j.TotalSpentByClient, 0.0)
	}
}

func TestComputeNorms(t *testing.T) {
	n := ComputeNorms([]domain.JobRecord{
		{TotalSpentByClient: 100, HourlyRate: 20},
		{TotalSpentByClient: 500, HourlyRate: 10},
	})
	assert.Equal(t, 500.0, n.MaxTotalSpent)
	assert.Equal(t, 20.0*120, n.MaxProposedRate)

	assert.Equal(t, Norms{}, ComputeNorms(nil))
}

func TestSingleFullTimeExpertJob(t *testing.T) {
	g := NewGoldenScorer(config.DefaultSchema())
	j := verified(5000)
	j.Rating = 4
	j.SkillLevel = "Expert"
	j.EstimatedTime = "More than 6 months, 30+ hrs/week"
	j.HourlyRate = 50

	n := ComputeNorms([]domain.JobRecord{j})
	c := g.Components(j, n)
	assert.InDelta(t, 1.0, c.TotalSpent, 1e-12)
	assert.InDelta(t, 1.0, c.ProposedRate, 1e-12)
	assert.InDelta(t, 0.8, c.Rating, 1e-12)
	assert.InDelta(t, 1.0, c.SkillLevel, 1e-12)
	assert.InDelta(t, 1.0, c.TimeCommitment, 1e-12)

	// 0.40 + 0.25 + 0.15*0.8 + 0.10 + 0.10 = 0.97
	out := g.Score([]domain.JobRecord{j})
	require.Len(t, out, 1)
	assert.Equal(t, 97.0, out[0].GoldenScore)
}

func TestPartTimeJobUsesLowerMultiplier(t *testing.T) {
	g := NewGoldenScorer(config.DefaultSchema())
	j := verified(1000)
	j.Rating = 5
	j.HourlyRate = 40
	j.EstimatedTime = "1 to 3 months, Less than 30 hrs/week"
	j.SkillLevel = "Entry level"

	c := g.Components(j, ComputeNorms([]domain.JobRecord{j}))
	assert.InDelta(t, 0.5, c.ProposedRate, 1e-12)
	assert.InDelta(t, 1.0/3, c.SkillLevel, 1e-12)
	assert.InDelta(t, 0.5, c.TimeCommitment, 1e-12)
}

func TestMarkerIsTheFullPhrase(t *testing.T) {
	g := NewGoldenScorer(config.DefaultSchema())
	j := verified(1)
	j.EstimatedTime = "30+ applicants"
	assert.False(t, g.highCommitment(j))
	j.EstimatedTime = "30+ hrs/week"
	assert.True(t, g.highCommitment(j))
}

func TestZeroRatingZeroesScore(t *testing.T) {
	g := NewGoldenScorer(config.DefaultSchema())
	j := verified(1_000_000)
	j.SkillLevel = "Expert"
	j.HourlyRate = 100
	j.EstimatedTime = "30+ hrs/week"

	out := g.Score([]domain.JobRecord{j})
	assert.Equal(t, 0.0, out[0].GoldenScore)
}

func TestScoreSortsDescendingAndIsStable(t *testing.T) {
	g := NewGoldenScorer(config.DefaultSchema())
	mk := func(title string, spent, rating float64) domain.JobRecord {
		j := verified(spent)
		j.JobTitle = title
		j.Rating = rating
		j.HourlyRate = 30
		return j
	}
	jobs := []domain.JobRecord{
		mk("low", 100, 3),
		mk("tie-1", 5000, 4),
		mk("top", 10000, 5),
		mk("tie-2", 5000, 4),
		mk("unrated", 10000, 0),
	}

	out := g.Score(jobs)
	require.Len(t, out, 5)

	titles := make([]string, len(out))
	for i, j := range out {
		titles[i] = j.JobTitle
		assert.GreaterOrEqual(t, j.GoldenScore, 0.0)
		assert.LessOrEqual(t, j.GoldenScore, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, out[i-1].GoldenScore, j.GoldenScore)
		}
	}
	assert.Equal(t, []string{"top", "tie-1", "tie-2", "low", "unrated"}, titles)

	assert.Equal(t, "low", jobs[0].JobTitle, "input is not reordered")
	assert.Equal(t, 0.0, jobs[0].GoldenScore, "input is not mutated")
}

func TestRescoringIsIdempotent(t *testing.T) {
	g := NewGoldenScorer(config.DefaultSchema())
	jobs := []domain.JobRecord{verified(300), verified(7000), verified(4100)}
	for i := range jobs {
		jobs[i].Rating = float64(i) + 3
		jobs[i].HourlyRate = float64(10 * (i + 1))
	}

	first := g.Score(jobs)
	stale := make([]domain.JobRecord, len(first))
	copy(stale, first)
	stale[0].GoldenScore = 12345

	second := g.Score(stale)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].GoldenScore, second[i].GoldenScore)
	}
}

func TestScoreHalvesRoundToEven(t *testing.T) {
	g := GoldenScorer{
		Weights: map[string]float64{config.WeightRating: 1},
		Marker:  config.CommitmentMarker,
	}
	j := verified(1)

	j.Rating = 3.125 // 0.625 of the max, exactly representable
	assert.Equal(t, 62.0, g.ScoreOne(j, Norms{}))

	j.Rating = 4.375 // 0.875
	assert.Equal(t, 88.0, g.ScoreOne(j, Norms{}))
}
