package service

import (
	"testing"
	"time"
)

func TestResolvePeriodStacksOnActiveWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	priorEnd := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	start, end := resolvePeriod(now, periodInput{
		priorWindowActive: true,
		periodEndsAt:      &priorEnd,
		planPeriodDays:    30,
	})

	if !start.Equal(priorEnd) {
		t.Fatalf("start = %v, want prior window end %v", start, priorEnd)
	}
	if want := priorEnd.AddDate(0, 0, 30); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
}

func TestResolvePeriodExtendsFromValidTrial(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	trialEnd := now.Add(5 * 24 * time.Hour)

	start, _ := resolvePeriod(now, periodInput{
		trialEndsAt:    &trialEnd,
		planPeriodDays: 30,
	})
	if !start.Equal(trialEnd) {
		t.Fatalf("start = %v, want trial end %v", start, trialEnd)
	}

	// An expired trial does not push the start into the past.
	expired := now.Add(-24 * time.Hour)
	start, _ = resolvePeriod(now, periodInput{
		trialEndsAt:    &expired,
		planPeriodDays: 30,
	})
	if !start.Equal(now) {
		t.Fatalf("start = %v, want now %v", start, now)
	}
}

func TestResolvePeriodIgnoresTrialForFreshCompany(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	trialEnd := now.Add(5 * 24 * time.Hour)

	start, _ := resolvePeriod(now, periodInput{
		companyCreated: true,
		trialEndsAt:    &trialEnd,
		planPeriodDays: 30,
	})
	if !start.Equal(now) {
		t.Fatalf("start = %v, want now for company created by this event", start)
	}
}

func TestResolvePeriodUsesEventStart(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	eventStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	start, end := resolvePeriod(now, periodInput{
		eventPeriodStart: &eventStart,
		planPeriodDays:   30,
	})
	if !start.Equal(eventStart) {
		t.Fatalf("start = %v, want event start %v", start, eventStart)
	}
	if want := eventStart.AddDate(0, 0, 30); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
}

func TestResolvePeriodInfersDaysFromInterval(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	_, end := resolvePeriod(now, periodInput{
		intervalType:  "year",
		intervalCount: 1,
	})
	if want := now.AddDate(0, 0, 365); !end.Equal(want) {
		t.Fatalf("yearly end = %v, want %v", end, want)
	}

	_, end = resolvePeriod(now, periodInput{
		intervalType:  "month",
		intervalCount: 3,
	})
	if want := now.AddDate(0, 0, 90); !end.Equal(want) {
		t.Fatalf("quarterly end = %v, want %v", end, want)
	}

	// No interval data at all falls back to one month.
	_, end = resolvePeriod(now, periodInput{})
	if want := now.AddDate(0, 0, 30); !end.Equal(want) {
		t.Fatalf("default end = %v, want %v", end, want)
	}
}

func TestResolvePeriodIsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	priorEnd := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	in := periodInput{
		priorWindowActive: true,
		periodEndsAt:      &priorEnd,
		planPeriodDays:    30,
	}

	s1, e1 := resolvePeriod(now, in)
	s2, e2 := resolvePeriod(now, in)
	if !s1.Equal(s2) || !e1.Equal(e2) {
		t.Fatal("same input produced different windows")
	}
}
