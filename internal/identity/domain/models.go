// Package domain defines the identity provider contract. The webhook
// processor only depends on this interface; the default implementation
// is backed by the application's own profiles table.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type User struct {
	ID        snowflake.ID
	Email     string
	FullName  string
	CompanyID *snowflake.ID
}

// Profile is the locally stored identity row.
type Profile struct {
	ID                  snowflake.ID  `gorm:"primaryKey"`
	Email               string        `gorm:"type:text;not null;uniqueIndex"`
	FullName            string        `gorm:"type:text"`
	PasswordHash        string        `gorm:"type:text;not null"`
	CompanyID           *snowflake.ID `gorm:"index"`
	MustChangePassword  bool          `gorm:"not null;default:false"`
	MustCompleteCompany bool          `gorm:"not null;default:false"`
	CreatedAt           time.Time     `gorm:"not null"`
	UpdatedAt           time.Time     `gorm:"not null"`
}

func (Profile) TableName() string { return "profiles" }

// UserRole is an idempotent role grant keyed unique on (user_id, role).
type UserRole struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	UserID    snowflake.ID `gorm:"not null"`
	Role      string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null"`
}

func (UserRole) TableName() string { return "user_roles" }

type CreateUserRequest struct {
	Email    string
	FullName string
	Password string
}

// Metadata carries partial profile updates; nil fields are left untouched.
type Metadata struct {
	CompanyID           *snowflake.ID
	MustChangePassword  *bool
	MustCompleteCompany *bool
}
