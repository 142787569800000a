package clean

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

// Every parser here returns 0 for input it cannot read.

var ratingRegex = regexp.MustCompile(`\d+\.?\d*`)

const budgetMarker = "Est. Budget:"

// ParseRating reads the first number in s, e.g. "4.5 of 5 stars" -> 4.5.
// Values above 5 are not ratings and read as 0.
func ParseRating(s string) float64 {
	match := ratingRegex.FindString(s)
	if match == "" {
		return 0
	}
	v := parseNonNegative(match)
	if v > 5 {
		return 0
	}
	return v
}

// ParseSpend reads client spend like "$5K+", "$1.2M" or "$900".
func ParseSpend(s string) float64 {
	if s == "" || s == "$0" {
		return 0
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	cleaned = strings.TrimRight(cleaned, "+")

	multiplier := 1.0
	switch {
	case strings.Contains(cleaned, "K"):
		multiplier = 1_000
		cleaned = strings.ReplaceAll(cleaned, "K", "")
	case strings.Contains(cleaned, "M"):
		multiplier = 1_000_000
		cleaned = strings.ReplaceAll(cleaned, "M", "")
	}
	return parseNonNegative(cleaned) * multiplier
}

// ParseBudget reads "Est. Budget: $1,500". Anything without the marker is 0.
func ParseBudget(s string) float64 {
	_, after, ok := strings.Cut(s, budgetMarker)
	if !ok {
		return 0
	}
	after = strings.ReplaceAll(after, "$", "")
	after = strings.ReplaceAll(after, ",", "")
	return parseNonNegative(after)
}

// ParseHourlyRate drops "$", "," and "-" before parsing, so a range such as
// "$20-$40" collapses into 2040. Downstream exports rely on that value.
func ParseHourlyRate(s string) float64 {
	if s == "" || s == "$0" {
		return 0
	}
	r := strings.NewReplacer("$", "", "-", "", ",", "")
	return parseNonNegative(r.Replace(s))
}

func parseNonNegative(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Normalize turns projected text into a typed JobRecord.
func Normalize(p domain.ProjectedRecord) domain.JobRecord {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.JobRecord{
		Rating:             ParseRating(p.Value(domain.FieldRating)),
		TotalSpentByClient: ParseSpend(p.Value(domain.FieldTotalSpentByClient)),
		Country:            p.Value(domain.FieldCountry),
		PaymentVerified:    p.Value(domain.FieldPaymentVerified),
		JobURLMain:         p.Value(domain.FieldJobURLMain),
		JobTitle:           p.Value(domain.FieldJobTitle),
		JobDescription:     p.Value(domain.FieldJobDescription),
		TimePosted:         p.Value(domain.FieldTimePosted),
		HourlyRate:         ParseHourlyRate(p.Value(domain.FieldHourlyRate)),
		SkillLevel:         p.Value(domain.FieldSkillLevel),
		EstimatedTime:      p.Value(domain.FieldEstimatedTime),
		EstimatedBudget:    ParseBudget(p.Value(domain.FieldEstimatedBudget)),
		Tags:               tags,
	}
}

func NormalizeAll(in []domain.ProjectedRecord) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(in))
	for _, p := range in {
		out = append(out, Normalize(p))
	}
	return out
}
