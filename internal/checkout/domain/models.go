// Package domain contains the pending-purchase checkout session model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusCreated   Status = "created"
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Terminal reports whether the session has already been consumed.
// A terminal session must never be reprocessed as new.
func (s Status) Terminal() bool {
	return s == StatusActive || s == StatusCompleted
}

// CheckoutSession is created when a purchase flow begins and bound to
// the resulting user and company when the gateway confirms payment.
type CheckoutSession struct {
	ID          snowflake.ID  `gorm:"primaryKey"`
	Token       string        `gorm:"type:text;not null;uniqueIndex"`
	PlanID      *snowflake.ID `gorm:"index"`
	Email       string        `gorm:"type:text;not null;index"`
	FullName    *string       `gorm:"type:text"`
	CompanyName *string       `gorm:"type:text"`
	Status      Status        `gorm:"type:text;not null"`
	UserID      *snowflake.ID
	CompanyID   *snowflake.ID
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (CheckoutSession) TableName() string { return "subscription_checkouts" }
