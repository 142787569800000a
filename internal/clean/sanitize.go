package clean

import (
	"strings"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

// EscapeQuotes doubles every double quote (RFC 4180). It is not idempotent.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// Sanitize escapes every text field of j, tags included. Apply once.
func Sanitize(j domain.JobRecord) domain.JobRecord {
	j.Country = EscapeQuotes(j.Country)
	j.PaymentVerified = EscapeQuotes(j.PaymentVerified)
	j.JobURLMain = EscapeQuotes(j.JobURLMain)
	j.JobTitle = EscapeQuotes(j.JobTitle)
	j.JobDescription = EscapeQuotes(j.JobDescription)
	j.TimePosted = EscapeQuotes(j.TimePosted)
	j.SkillLevel = EscapeQuotes(j.SkillLevel)
	j.EstimatedTime = EscapeQuotes(j.EstimatedTime)

	tags := make([]string, len(j.Tags))
	for i, t := range j.Tags {
		tags[i] = EscapeQuotes(t)
	}
	j.Tags = tags
	return j
}

func SanitizeAll(jobs []domain.JobRecord) []domain.JobRecord {
	out := make([]domain.JobRecord, len(jobs))
	for i, j := range jobs {
		out[i] = Sanitize(j)
	}
	return out
}
