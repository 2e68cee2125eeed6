// Package domain contains the dedup ledger model and the webhook
// processing contract.
package domain

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// WebhookEvent is one row of the dedup ledger. A row is created on
// first sight of an event id and marked processed only after every
// side effect succeeded. A row with ProcessedAt set is terminal.
type WebhookEvent struct {
	ID          snowflake.ID   `gorm:"primaryKey"`
	Gateway     string         `gorm:"type:text;not null"`
	EventID     string         `gorm:"type:text;not null"`
	EventType   string         `gorm:"type:text;not null"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	ReceivedAt  time.Time      `gorm:"not null"`
	ProcessedAt *time.Time
	Outcome     string `gorm:"type:text"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }

// Outcomes recorded on a processed ledger row.
const (
	OutcomeActivated = "activated"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
	OutcomeSkipped   = "skipped"
)

const GatewayCakto = "cakto"

// Delivery is one inbound webhook request after transport validation.
type Delivery struct {
	Gateway string
	Payload []byte
	Headers http.Header
}

// Result reports the terminal outcome of a processed delivery.
type Result struct {
	Outcome string
}
