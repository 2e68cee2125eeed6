package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByGatewayID(ctx context.Context, db *gorm.DB, gateway, gatewaySubscriptionID string) (*Subscription, error)
	FindActiveByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*Subscription, error)
	// CountPaidByCompany counts non-trial rows; used to decide whether
	// this event is the company's first true activation.
	CountPaidByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error)
	Insert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	Update(ctx context.Context, db *gorm.DB, subscription *Subscription) error
}
