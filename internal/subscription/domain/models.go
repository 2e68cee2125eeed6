// Package domain contains subscription persistence models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusTrial   Status = "trial"
	StatusActive  Status = "active"
)

// Subscription is the company's current billing agreement with the
// gateway. Renewals update the row in place; one logical current row
// is kept per company.
type Subscription struct {
	ID                    snowflake.ID `gorm:"primaryKey"`
	UserID                snowflake.ID `gorm:"not null;index"`
	CompanyID             snowflake.ID `gorm:"not null;index"`
	PlanID                snowflake.ID `gorm:"not null;index"`
	Status                Status       `gorm:"type:text;not null"`
	Gateway               string       `gorm:"type:text;not null"`
	GatewaySubscriptionID string       `gorm:"type:text;not null"`
	CurrentPeriodStartsAt *time.Time
	CurrentPeriodEndsAt   *time.Time
	CustomerName          string    `gorm:"type:text"`
	CustomerEmail         string    `gorm:"type:text"`
	CustomerPhone         string    `gorm:"type:text"`
	CustomerDocument      string    `gorm:"type:text"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

func (Subscription) TableName() string { return "subscriptions" }
