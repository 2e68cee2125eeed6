// Package domain contains the tenant (company) models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is the paying organization. Rows may pre-exist from other
// flows (e.g. a free trial signup); the webhook processor updates
// them, never destructively replaces them.
type Company struct {
	ID                    snowflake.ID  `gorm:"primaryKey"`
	Name                  string        `gorm:"type:text;not null"`
	Slug                  string        `gorm:"type:text;not null;uniqueIndex"`
	Email                 string        `gorm:"type:text;index"`
	Phone                 string        `gorm:"type:text"`
	OwnerUserID           *snowflake.ID `gorm:"index"`
	PlanID                *snowflake.ID
	SubscriptionStatus    string `gorm:"type:text"`
	TrialEndsAt           *time.Time
	CurrentPeriodStartsAt *time.Time
	CurrentPeriodEndsAt   *time.Time
	OnboardingCompleted   bool      `gorm:"not null;default:false"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

func (Company) TableName() string { return "companies" }

const (
	SubscriptionStatusTrial  = "trial"
	SubscriptionStatusActive = "active"
)

// Member links a user to a company.
type Member struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CompanyID snowflake.ID `gorm:"not null;index"`
	UserID    snowflake.ID `gorm:"not null;index"`
	Role      string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null"`
}

func (Member) TableName() string { return "company_members" }

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// BillingUpdate is the company-side write applied after provisioning.
// PeriodStart is only set when the company was created by this event
// or the prior window was no longer active.
type BillingUpdate struct {
	PlanID             snowflake.ID
	SubscriptionStatus string
	PeriodEndsAt       time.Time
	PeriodStartsAt     *time.Time
	Email              string
	Phone              string
}
