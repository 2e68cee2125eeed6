package classifier

import "testing"

func TestClassifyEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		outcome Outcome
	}{
		{"purchase approved", "purchase_approved", OutcomeActive},
		{"payment approved dotted", "payment.approved", OutcomeActive},
		{"order paid", "order.paid", OutcomeActive},
		{"subscription renewed", "subscription_renewed", OutcomeActive},
		{"subscription active", "subscription.active", OutcomeActive},
		{"purchase refused", "purchase_refused", OutcomeIgnored},
		{"subscription canceled", "subscription_canceled", OutcomeIgnored},
		{"refund", "refund", OutcomeIgnored},
		{"chargeback", "chargeback", OutcomeIgnored},
		{"empty", "", OutcomeIgnored},
		{"mixed case with spaces", "  Purchase Approved ", OutcomeActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyEvent(tt.event); got != tt.outcome {
				t.Fatalf("ClassifyEvent(%q) = %v, want %v", tt.event, got, tt.outcome)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		outcome Outcome
	}{
		{"active", "active", OutcomeActive},
		{"paid", "paid", OutcomeActive},
		{"approved uppercase", "APPROVED", OutcomeActive},
		{"inactive is not active", "inactive", OutcomeIgnored},
		{"refused", "refused", OutcomeIgnored},
		{"empty", "", OutcomeIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyStatus(tt.status); got != tt.outcome {
				t.Fatalf("ClassifyStatus(%q) = %v, want %v", tt.status, got, tt.outcome)
			}
		})
	}
}

func TestClassifyEitherSignalWins(t *testing.T) {
	// Unknown event name but active status.
	if got := Classify("subscription_updated", "active"); got != OutcomeActive {
		t.Fatalf("Classify with active status = %v, want active", got)
	}
	// Known active event name with empty status.
	if got := Classify("purchase_approved", ""); got != OutcomeActive {
		t.Fatalf("Classify with active event = %v, want active", got)
	}
	if got := Classify("subscription_canceled", "canceled"); got != OutcomeIgnored {
		t.Fatalf("Classify canceled = %v, want ignored", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("Purchase_Approved"); got != "purchase.approved" {
		t.Fatalf("Normalize = %q", got)
	}
	if got := Normalize("  order   paid "); got != "order.paid" {
		t.Fatalf("Normalize = %q", got)
	}
}
