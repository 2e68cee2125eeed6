package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pedidohub/pedidohub/internal/webhook/domain"
)

// gatewayEvent carries the normalized fields extracted from a delivery.
// The gateway's payloads are not stable between event types, so every
// field is read through an ordered alias list.
type gatewayEvent struct {
	Name   string
	Status string

	Email            string
	CustomerName     string
	CustomerPhone    string
	CustomerDocument string

	CheckoutToken  string
	SubscriptionID string
	CompanyID      string
	CompanyName    string

	OfferID       string
	OfferName     string
	OfferPrice    int64
	IntervalType  string
	IntervalCount int

	PeriodStart *time.Time
}

// Authoritative field-fallback lists. Earlier aliases win.
var (
	nameFields     = []string{"event", "type", "event_type"}
	statusFields   = []string{"data.status", "status"}
	eventIDFields  = []string{"id", "event_id", "eventId", "webhook_id"}
	emailFields    = []string{"data.customer.email", "customer.email", "data.email", "email"}
	custNameFields = []string{"data.customer.name", "data.customer.full_name", "customer.name"}
	phoneFields    = []string{"data.customer.phone", "customer.phone"}
	documentFields = []string{"data.customer.docNumber", "data.customer.document", "customer.document"}
	tokenFields    = []string{"data.checkoutToken", "data.checkout_token", "data.short_id", "data.metadata.checkout_token", "metadata.checkout_token"}
	subIDFields    = []string{"data.id", "data.subscription_id", "data.subscriptionId", "subscription_id"}
	companyFields  = []string{"data.company_id", "data.metadata.company_id", "metadata.company_id"}
	compNameFields = []string{"data.company.name", "data.companyName", "company_name"}
	offerIDFields  = []string{"data.offer.id", "data.offer_id", "data.product.id"}
	offerNmFields  = []string{"data.offer.name", "data.product.name"}
	priceFields    = []string{"data.offer.price", "data.amount"}
	intervalFields = []string{"data.offer.intervalType", "data.offer.interval_type", "data.offer.interval", "data.plan.interval"}
	intCountFields = []string{"data.offer.intervalCount", "data.offer.interval_count"}
	startFields    = []string{"data.current_period_start", "data.period_start"}
)

func parseEvent(raw []byte) (*gatewayEvent, map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, domain.ErrInvalidPayload
	}

	ev := &gatewayEvent{
		Name:             lookupString(payload, nameFields),
		Status:           lookupString(payload, statusFields),
		Email:            strings.ToLower(lookupString(payload, emailFields)),
		CustomerName:     lookupString(payload, custNameFields),
		CustomerPhone:    lookupString(payload, phoneFields),
		CustomerDocument: lookupString(payload, documentFields),
		CheckoutToken:    lookupString(payload, tokenFields),
		SubscriptionID:   lookupString(payload, subIDFields),
		CompanyID:        lookupString(payload, companyFields),
		CompanyName:      lookupString(payload, compNameFields),
		OfferID:          lookupString(payload, offerIDFields),
		OfferName:        lookupString(payload, offerNmFields),
		OfferPrice:       int64(lookupNumber(payload, priceFields)),
		IntervalType:     lookupString(payload, intervalFields),
		IntervalCount:    int(lookupNumber(payload, intCountFields)),
		PeriodStart:      lookupTime(payload, startFields),
	}
	return ev, payload, nil
}

const eventIDHeader = "X-Webhook-Event-Id"

// resolveEventID picks the ledger key: payload id aliases, then the
// explicit header, then a content hash of the raw body so a gateway
// that supplies no id still dedups on redelivery of identical bytes.
func resolveEventID(payload map[string]any, headers http.Header, raw []byte) string {
	if id := lookupString(payload, eventIDFields); id != "" {
		return id
	}
	if headers != nil {
		if id := strings.TrimSpace(headers.Get(eventIDHeader)); id != "" {
			return id
		}
	}
	sum := sha256.Sum256(raw)
	return "sha256:" + hex.EncodeToString(sum[:])
}

func lookupString(payload map[string]any, paths []string) string {
	for _, path := range paths {
		if value, ok := lookupPath(payload, path); ok {
			switch v := value.(type) {
			case string:
				if s := strings.TrimSpace(v); s != "" {
					return s
				}
			case float64:
				return strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(jsonNumber(v)), ".0"), ".00")
			}
		}
	}
	return ""
}

func lookupNumber(payload map[string]any, paths []string) float64 {
	for _, path := range paths {
		if value, ok := lookupPath(payload, path); ok {
			switch v := value.(type) {
			case float64:
				return v
			case string:
				var parsed float64
				if err := json.Unmarshal([]byte(strings.TrimSpace(v)), &parsed); err == nil {
					return parsed
				}
			}
		}
	}
	return 0
}

func lookupTime(payload map[string]any, paths []string) *time.Time {
	for _, path := range paths {
		value, ok := lookupPath(payload, path)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case float64:
			if v > 0 {
				t := time.Unix(int64(v), 0).UTC()
				return &t
			}
		case string:
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}

func lookupPath(payload map[string]any, path string) (any, bool) {
	current := any(payload)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func jsonNumber(v float64) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
