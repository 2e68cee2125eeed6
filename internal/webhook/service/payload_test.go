package service

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestParseEventAliases(t *testing.T) {
	raw := []byte(`{
		"event": "purchase_approved",
		"data": {
			"id": "sub-1",
			"status": "approved",
			"checkoutToken": "chk-1",
			"customer": {"name": "Maria", "email": "MARIA@Example.com", "phone": "+55119999"},
			"offer": {"id": "off-1", "name": "Pro", "price": 99.9, "intervalType": "month", "intervalCount": 3}
		}
	}`)

	ev, _, err := parseEvent(raw)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Name != "purchase_approved" {
		t.Fatalf("Name = %q", ev.Name)
	}
	if ev.Email != "maria@example.com" {
		t.Fatalf("Email = %q, want lowercased", ev.Email)
	}
	if ev.SubscriptionID != "sub-1" {
		t.Fatalf("SubscriptionID = %q", ev.SubscriptionID)
	}
	if ev.CheckoutToken != "chk-1" {
		t.Fatalf("CheckoutToken = %q", ev.CheckoutToken)
	}
	if ev.OfferID != "off-1" || ev.OfferName != "Pro" {
		t.Fatalf("offer = %q / %q", ev.OfferID, ev.OfferName)
	}
	if ev.IntervalType != "month" || ev.IntervalCount != 3 {
		t.Fatalf("interval = %q / %d", ev.IntervalType, ev.IntervalCount)
	}
}

func TestParseEventFlatFallbacks(t *testing.T) {
	raw := []byte(`{
		"type": "payment.approved",
		"status": "paid",
		"email": "joao@example.com",
		"subscription_id": "sub-2"
	}`)

	ev, _, err := parseEvent(raw)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Name != "payment.approved" {
		t.Fatalf("Name = %q", ev.Name)
	}
	if ev.Status != "paid" {
		t.Fatalf("Status = %q", ev.Status)
	}
	if ev.Email != "joao@example.com" {
		t.Fatalf("Email = %q", ev.Email)
	}
	if ev.SubscriptionID != "sub-2" {
		t.Fatalf("SubscriptionID = %q", ev.SubscriptionID)
	}
}

func TestParseEventPeriodStartFormats(t *testing.T) {
	raw := []byte(`{"data": {"current_period_start": "2026-03-01T00:00:00Z"}}`)
	ev, _, err := parseEvent(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if ev.PeriodStart == nil || !ev.PeriodStart.Equal(want) {
		t.Fatalf("PeriodStart = %v, want %v", ev.PeriodStart, want)
	}

	raw = []byte(`{"data": {"current_period_start": 1772323200}}`)
	ev, _, err = parseEvent(raw)
	if err != nil {
		t.Fatal(err)
	}
	if ev.PeriodStart == nil || ev.PeriodStart.Unix() != 1772323200 {
		t.Fatalf("PeriodStart = %v, want unix 1772323200", ev.PeriodStart)
	}
}

func TestResolveEventID(t *testing.T) {
	payload := map[string]any{"id": "evt-1"}
	if got := resolveEventID(payload, nil, nil); got != "evt-1" {
		t.Fatalf("id alias = %q", got)
	}

	headers := http.Header{}
	headers.Set("X-Webhook-Event-Id", "evt-hdr")
	if got := resolveEventID(map[string]any{}, headers, nil); got != "evt-hdr" {
		t.Fatalf("header fallback = %q", got)
	}

	body := []byte(`{"some":"body"}`)
	hashed := resolveEventID(map[string]any{}, nil, body)
	if !strings.HasPrefix(hashed, "sha256:") {
		t.Fatalf("hash fallback = %q", hashed)
	}
	if again := resolveEventID(map[string]any{}, nil, body); again != hashed {
		t.Fatal("hash fallback is not stable for identical bodies")
	}
}
