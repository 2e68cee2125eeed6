package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, session *CheckoutSession) error
	FindByToken(ctx context.Context, db *gorm.DB, token string) (*CheckoutSession, error)
	// FindLatestOpenByEmailAndPlan returns the most recent non-terminal
	// session for the email and plan.
	FindLatestOpenByEmailAndPlan(ctx context.Context, db *gorm.DB, email string, planID snowflake.ID) (*CheckoutSession, error)
	// FindLatestByEmail returns the most recent session for the email
	// that is either non-terminal or became terminal after since.
	FindLatestByEmail(ctx context.Context, db *gorm.DB, email string, since time.Time) (*CheckoutSession, error)
	// Complete marks the session completed and binds the resolved ids.
	Complete(ctx context.Context, db *gorm.DB, id snowflake.ID, userID, companyID snowflake.ID, completedAt time.Time) error
}
