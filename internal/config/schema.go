package config

import (
	"fmt"
	"math"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

// CommitmentMarker flags a 30+ hours per week engagement in estimated_time.
const CommitmentMarker = "30+ hrs/week"

// Score component names.
const (
	WeightTotalSpent     = "total_spent"
	WeightProposedRate   = "proposed_rate"
	WeightRating         = "rating"
	WeightSkillLevel     = "skill_level"
	WeightTimeCommitment = "time_commitment"
)

// Schema is the fixed raw->semantic layout and scoring setup.
// Build it once with DefaultSchema and treat it as read-only.
type Schema struct {
	// ColumnMap maps raw column name to semantic field name.
	ColumnMap map[string]string
	// TagColumns are merged, in this order, into the tags field.
	TagColumns []string
	// RawOrder is the raw column order used for projection output.
	RawOrder         []string
	ScoreWeights     map[string]float64
	CommitmentMarker string
	OutputColumns    []string
}

func DefaultSchema() Schema {
	rawOrder := []string{
		"sr-only 6",
		"d-inline-block",
		"d-inline-flex",
		"text-light 8",
		"air3-link href",
		"air3-link",
		"air3-line-clamp",
		"text-caption 2",
		"text-light 2",
		"text-light 4",
		"text-light 6",
		"text-light 7",
	}
	return Schema{
		ColumnMap: map[string]string{
			"sr-only 6":       domain.FieldRating,
			"d-inline-block":  domain.FieldTotalSpentByClient,
			"d-inline-flex":   domain.FieldCountry,
			"text-light 8":    domain.FieldPaymentVerified,
			"air3-link href":  domain.FieldJobURLMain,
			"air3-link":       domain.FieldJobTitle,
			"air3-line-clamp": domain.FieldJobDescription,
			"text-caption 2":  domain.FieldTimePosted,
			"text-light 2":    domain.FieldHourlyRate,
			"text-light 4":    domain.FieldSkillLevel,
			"text-light 6":    domain.FieldEstimatedTime,
			"text-light 7":    domain.FieldEstimatedBudget,
		},
		TagColumns: []string{
			"air3-token",
			"air3-token 2",
			"air3-token 3",
			"air3-token 4",
			"air3-token 5",
			"air3-token 6",
			"air3-token 7",
			"air3-token 8",
		},
		RawOrder: rawOrder,
		ScoreWeights: map[string]float64{
			WeightTotalSpent:     0.40,
			WeightProposedRate:   0.25,
			WeightRating:         0.15,
			WeightSkillLevel:     0.10,
			WeightTimeCommitment: 0.10,
		},
		CommitmentMarker: CommitmentMarker,
		OutputColumns: []string{
			domain.FieldRating,
			domain.FieldTotalSpentByClient,
			domain.FieldCountry,
			domain.FieldPaymentVerified,
			domain.FieldJobURLMain,
			domain.FieldJobTitle,
			domain.FieldJobDescription,
			domain.FieldTimePosted,
			domain.FieldHourlyRate,
			domain.FieldSkillLevel,
			domain.FieldEstimatedTime,
			domain.FieldEstimatedBudget,
			domain.FieldTags,
			domain.FieldGoldenScore,
		},
	}
}

// RequiredColumns lists every raw column projection needs.
func (s Schema) RequiredColumns() []string {
	out := make([]string, 0, len(s.RawOrder)+len(s.TagColumns))
	out = append(out, s.RawOrder...)
	out = append(out, s.TagColumns...)
	return out
}

func (s Schema) Validate() error {
	if len(s.RawOrder) != len(s.ColumnMap) {
		return fmt.Errorf("schema: raw order has %d columns, column map has %d", len(s.RawOrder), len(s.ColumnMap))
	}
	for _, raw := range s.RawOrder {
		if _, ok := s.ColumnMap[raw]; !ok {
			return fmt.Errorf("schema: raw column %q has no mapping", raw)
		}
	}

	sum := 0.0
	for _, name := range []string{WeightTotalSpent, WeightProposedRate, WeightRating, WeightSkillLevel, WeightTimeCommitment} {
		w, ok := s.ScoreWeights[name]
		if !ok {
			return fmt.Errorf("schema: missing score weight %q", name)
		}
		if w < 0 {
			return fmt.Errorf("schema: score weight %q is negative", name)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("schema: score weights sum to %v, want 1.0", sum)
	}
	if s.CommitmentMarker == "" {
		return fmt.Errorf("schema: commitment marker is empty")
	}
	return nil
}
