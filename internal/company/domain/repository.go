package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Company, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Company, error)
	FindByOwner(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Company, error)
	FindByMembership(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Company, error)
	SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error)
	// Insert fails with a duplicate key error when the slug is taken.
	Insert(ctx context.Context, db *gorm.DB, company *Company) error
	// AddMember is insert-if-absent on (company_id, user_id).
	AddMember(ctx context.Context, db *gorm.DB, member *Member) error
	UpdateBilling(ctx context.Context, db *gorm.DB, id snowflake.ID, update BillingUpdate) error
}

// Service creates companies with globally unique slugs.
type Service interface {
	CreateWithUniqueSlug(ctx context.Context, req CreateRequest) (*Company, error)
}

type CreateRequest struct {
	NameCandidate string
	Email         string
	Phone         string
	OwnerUserID   *snowflake.ID
}
