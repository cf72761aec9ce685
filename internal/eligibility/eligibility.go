// Package eligibility decides whether a roster participant falls below the
// configured performance thresholds. Evaluation is a pure function over
// finalized contest tables; it never touches the network or a store.
package eligibility

import (
	"standings-tracker/internal/domain"
	"strings"
)

// Evaluate applies every contest's individual threshold and the global
// threshold to one handle. Individual thresholds are checked in
// configuration order without short-circuiting, so the decision always
// carries the full per-contest detail. The handle is deleted if it fails any
// individual threshold or its combined total falls below the global
// threshold; either condition alone is sufficient.
func Evaluate(handle string, contests []domain.ContestConfig, counts map[string]map[string]int, globalThreshold int) domain.EligibilityDecision {
	trimmed := strings.TrimSpace(handle)
	if trimmed == "" {
		return domain.EligibilityDecision{
			Handle: handle,
			Delete: true,
			Error:  "empty handle",
		}
	}

	decision := domain.EligibilityDecision{Handle: trimmed}

	for _, contest := range contests {
		solved := counts[contest.Name][trimmed]
		decision.TotalAllContests += solved

		detail := domain.ContestDetail{
			Contest:        contest.Name,
			TotalSolved:    solved,
			Threshold:      contest.Threshold,
			MeetsThreshold: true,
		}
		if contest.Threshold != nil && solved < *contest.Threshold {
			detail.MeetsThreshold = false
			decision.FailedThresholds = append(decision.FailedThresholds, domain.FailedThreshold{
				Contest:     contest.Name,
				TotalSolved: solved,
				Threshold:   *contest.Threshold,
			})
		}
		decision.Contests = append(decision.Contests, detail)
	}

	decision.Delete = len(decision.FailedThresholds) > 0 ||
		decision.TotalAllContests < globalThreshold
	return decision
}
