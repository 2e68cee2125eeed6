// Package domain contains the billing plan model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type BillingPeriod string

const (
	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

// Plan is a billable offer. Rows are created lazily on the first
// webhook referencing an unknown gateway offer id.
type Plan struct {
	ID            snowflake.ID  `gorm:"primaryKey"`
	CaktoPlanID   string        `gorm:"type:text;not null;uniqueIndex"`
	Name          string        `gorm:"type:text;not null"`
	Price         int64         `gorm:"not null"`
	BillingPeriod BillingPeriod `gorm:"type:text;not null"`
	PeriodDays    int           `gorm:"not null"`
	CreatedAt     time.Time     `gorm:"not null"`
}

func (Plan) TableName() string { return "plans" }
