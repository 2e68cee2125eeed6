// Package classifier reduces free-form gateway event names to the
// small set of canonical lifecycle outcomes.
package classifier

import "strings"

// Outcome is the canonical lifecycle outcome of a gateway event.
type Outcome string

const (
	OutcomeActive  Outcome = "active"
	OutcomeIgnored Outcome = "ignored"
)

// rule matches a normalized event name when every keyword group has at
// least one keyword present. Kept as data so new gateway event names
// can be added without new branches.
type rule struct {
	groups  [][]string
	outcome Outcome
}

var eventRules = []rule{
	{
		groups:  [][]string{{"purchase", "payment", "order"}, {"approved", "paid"}},
		outcome: OutcomeActive,
	},
	{
		groups:  [][]string{{"subscription"}, {"active", "renewed"}},
		outcome: OutcomeActive,
	},
}

var activeStatuses = []string{"active", "approved", "paid"}

// Classify combines the event-name signal and the status-field signal.
// The two are independent: the gateway's event taxonomy is not
// consistent between calls for the same underlying action, so either
// signal saying active wins.
func Classify(eventName, status string) Outcome {
	if ClassifyEvent(eventName) == OutcomeActive {
		return OutcomeActive
	}
	return ClassifyStatus(status)
}

// ClassifyEvent matches the normalized event name against the rule table.
func ClassifyEvent(eventName string) Outcome {
	name := Normalize(eventName)
	if name == "" {
		return OutcomeIgnored
	}

	for _, r := range eventRules {
		if matches(name, r.groups) {
			return r.outcome
		}
	}
	return OutcomeIgnored
}

// ClassifyStatus classifies from the status field alone. Tokens are
// compared whole so "inactive" does not match "active".
func ClassifyStatus(status string) Outcome {
	normalized := Normalize(status)
	if normalized == "" {
		return OutcomeIgnored
	}
	for _, token := range strings.Split(normalized, ".") {
		for _, keyword := range activeStatuses {
			if token == keyword {
				return OutcomeActive
			}
		}
	}
	return OutcomeIgnored
}

// Normalize lowercases and collapses whitespace and underscores to dots.
func Normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, "_", ".")
	return strings.Join(strings.Fields(value), ".")
}

func matches(name string, groups [][]string) bool {
	for _, group := range groups {
		found := false
		for _, keyword := range group {
			if strings.Contains(name, keyword) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
