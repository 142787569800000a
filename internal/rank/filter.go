package rank

import (
	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

const PaymentVerified = "Payment verified"

// Drop reasons reported by ShouldKeepJob.
const (
	ReasonPaymentUnverified = "payment_unverified"
	ReasonNoClientSpend     = "no_client_spend"
)

func ShouldKeepJob(j domain.JobRecord) (keep bool, reason string) {
	if j.PaymentVerified != PaymentVerified {
		return false, ReasonPaymentUnverified
	}
	if !(j.TotalSpentByClient > 0) {
		return false, ReasonNoClientSpend
	}
	return true, ""
}

// Filter returns the jobs to keep, in input order, and drop counts by reason.
func Filter(jobs []domain.JobRecord) ([]domain.JobRecord, map[string]int) {
	kept := make([]domain.JobRecord, 0, len(jobs))
	dropped := map[string]int{}
	for _, j := range jobs {
		keep, why := ShouldKeepJob(j)
		if !keep {
			dropped[why]++
			continue
		}
		kept = append(kept, j)
	}
	return kept, dropped
}
