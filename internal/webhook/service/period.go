package service

import (
	"strings"
	"time"
)

// periodInput is everything the period calculation needs, computed once
// per request so the same invariants are not re-derived in branches.
type periodInput struct {
	companyCreated    bool
	priorWindowActive bool
	trialEndsAt       *time.Time
	periodEndsAt      *time.Time
	planPeriodDays    int
	eventPeriodStart  *time.Time
	intervalType      string
	intervalCount     int
}

// resolvePeriod computes the new subscription validity window.
//
// A renewal processed while the prior window is still valid stacks on
// top of that window's end, never on "now", so early renewals cannot
// shorten the customer's paid time. A conversion from a still-valid
// trial extends from the trial's end. Replaying the same event against
// the same prior state yields the same result.
func resolvePeriod(now time.Time, in periodInput) (start, end time.Time) {
	switch {
	case in.priorWindowActive && in.periodEndsAt != nil:
		start = in.periodEndsAt.UTC()
	case !in.companyCreated && in.trialEndsAt != nil && in.trialEndsAt.After(now):
		start = in.trialEndsAt.UTC()
	case in.eventPeriodStart != nil:
		start = in.eventPeriodStart.UTC()
	default:
		start = now
	}

	days := in.planPeriodDays
	if days <= 0 {
		days = inferPeriodDays(in.intervalType, in.intervalCount)
	}

	return start, start.AddDate(0, 0, days)
}

// inferPeriodDays derives the period length from the event's own
// interval fields when the plan carries none.
func inferPeriodDays(intervalType string, intervalCount int) int {
	if intervalCount <= 0 {
		intervalCount = 1
	}
	if strings.Contains(strings.ToLower(intervalType), "year") {
		return 365 * intervalCount
	}
	return 30 * intervalCount
}
