package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Imsharad/upwork-jobs-agent/internal/clean"
	"github.com/Imsharad/upwork-jobs-agent/internal/config"
	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
	"github.com/Imsharad/upwork-jobs-agent/internal/load"
	"github.com/Imsharad/upwork-jobs-agent/internal/rank"
)

var header = []string{
	"sr-only 6", "d-inline-block", "d-inline-flex", "text-light 8",
	"air3-link href", "air3-link", "air3-line-clamp", "text-caption 2",
	"text-light 2", "text-light 4", "text-light 6", "text-light 7",
	"air3-token", "air3-token 2", "air3-token 3", "air3-token 4",
	"air3-token 5", "air3-token 6", "air3-token 7", "air3-token 8",
	"job_score",
}

func row(cells ...string) string {
	full := make([]string, len(header))
	copy(full, cells)
	return strings.Join(full, "\t")
}

func sample() string {
	lines := []string{
		strings.Join(header, "\t"),
		row("4.5 of 5 stars", "$5K+", "United States", "Payment verified", "/jobs/a", `Go "API" dev`, "Build it", "2 hours ago",
			"$50", "Expert", "More than 6 months, 30+ hrs/week", "Est. Budget: $2,000", "Go", "", "SQL", "", "", "", "", "", "77"),
		row("5.0 of 5 stars", "$0", "Canada", "Payment verified", "/jobs/b", "Zero spend", "", "", "$80", "Expert"),
		row("4.9 of 5 stars", "$1M+", "Germany", "Payment unverified", "/jobs/c", "Unverified", "", "", "$90", "Expert"),
		row("3.0 of 5 stars", "$900", "India", "Payment verified", "/jobs/d", "Small", "", "", "$20", "Intermediate",
			"Less than 1 month, Less than 30 hrs/week", "", "Python"),
		row("", "$2K+", "UK", "Payment verified", "/jobs/e", "Unrated", "", "", "$45", "Entry level"),
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestRunEndToEnd(t *testing.T) {
	raw, err := load.ReadTSV(strings.NewReader(sample()))
	require.NoError(t, err)

	table, stats, err := Run(raw, config.DefaultSchema())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Loaded)
	assert.Equal(t, 3, stats.Kept)
	assert.Equal(t, map[string]int{rank.ReasonNoClientSpend: 1, rank.ReasonPaymentUnverified: 1}, stats.Dropped)

	assert.Equal(t, config.DefaultSchema().OutputColumns, table.Columns)
	require.Len(t, table.Rows, 3)

	top := table.Rows[0]
	assert.Equal(t, `Go ""API"" dev`, top.JobTitle, "text is sanitized")
	assert.Equal(t, 4.5, top.Rating)
	assert.Equal(t, 5000.0, top.TotalSpentByClient)
	assert.Equal(t, 2000.0, top.EstimatedBudget)
	assert.Equal(t, []string{"Go", "SQL"}, top.Tags)

	assert.Equal(t, "Unrated", table.Rows[2].JobTitle)
	assert.Equal(t, 0.0, table.Rows[2].GoldenScore)

	for i, r := range table.Rows {
		assert.Equal(t, rank.PaymentVerified, r.PaymentVerified)
		assert.Greater(t, r.TotalSpentByClient, 0.0)
		assert.GreaterOrEqual(t, r.Rating, 0.0)
		assert.LessOrEqual(t, r.Rating, 5.0)
		assert.GreaterOrEqual(t, r.GoldenScore, 0.0)
		assert.LessOrEqual(t, r.GoldenScore, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, table.Rows[i-1].GoldenScore, r.GoldenScore)
		}
	}
}

func TestRunSchemaError(t *testing.T) {
	raw := domain.RawTable{Columns: []string{"air3-link"}}
	_, _, err := Run(raw, config.DefaultSchema())

	var se *clean.SchemaError
	require.True(t, errors.As(err, &se))
	assert.NotContains(t, se.Missing, "air3-link")
}

func TestRunRejectsBadWeights(t *testing.T) {
	s := config.DefaultSchema()
	s.ScoreWeights[config.WeightRating] = 0.5

	raw, err := load.ReadTSV(strings.NewReader(sample()))
	require.NoError(t, err)

	_, _, err = Run(raw, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to")
}

func TestRunEmptyInputYieldsEmptyTable(t *testing.T) {
	raw, err := load.ReadTSV(strings.NewReader(strings.Join(header, "\t") + "\n"))
	require.NoError(t, err)

	table, stats, err := Run(raw, config.DefaultSchema())
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Equal(t, 0, stats.Kept)
}
