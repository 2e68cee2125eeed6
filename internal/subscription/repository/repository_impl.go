package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/pedidohub/pedidohub/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const subscriptionColumns = `id, user_id, company_id, plan_id, status, gateway, gateway_subscription_id,
	current_period_starts_at, current_period_ends_at,
	customer_name, customer_email, customer_phone, customer_document, created_at, updated_at`

func (r *repo) FindByGatewayID(ctx context.Context, db *gorm.DB, gateway, gatewaySubscriptionID string) (*domain.Subscription, error) {
	var item domain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT `+subscriptionColumns+`
		 FROM subscriptions
		 WHERE gateway = ? AND gateway_subscription_id = ?
		 LIMIT 1`,
		gateway,
		gatewaySubscriptionID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindActiveByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*domain.Subscription, error) {
	var item domain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT `+subscriptionColumns+`
		 FROM subscriptions
		 WHERE company_id = ? AND status = ?
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		companyID,
		domain.StatusActive,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) CountPaidByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM subscriptions
		 WHERE company_id = ? AND status != ?`,
		companyID,
		domain.StatusTrial,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, subscription *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (
			id, user_id, company_id, plan_id, status, gateway, gateway_subscription_id,
			current_period_starts_at, current_period_ends_at,
			customer_name, customer_email, customer_phone, customer_document, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		subscription.ID,
		subscription.UserID,
		subscription.CompanyID,
		subscription.PlanID,
		subscription.Status,
		subscription.Gateway,
		subscription.GatewaySubscriptionID,
		subscription.CurrentPeriodStartsAt,
		subscription.CurrentPeriodEndsAt,
		subscription.CustomerName,
		subscription.CustomerEmail,
		subscription.CustomerPhone,
		subscription.CustomerDocument,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, subscription *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET user_id = ?, company_id = ?, plan_id = ?, status = ?, gateway = ?, gateway_subscription_id = ?,
		     current_period_starts_at = ?, current_period_ends_at = ?,
		     customer_name = ?, customer_email = ?, customer_phone = ?, customer_document = ?,
		     updated_at = ?
		 WHERE id = ?`,
		subscription.UserID,
		subscription.CompanyID,
		subscription.PlanID,
		subscription.Status,
		subscription.Gateway,
		subscription.GatewaySubscriptionID,
		subscription.CurrentPeriodStartsAt,
		subscription.CurrentPeriodEndsAt,
		subscription.CustomerName,
		subscription.CustomerEmail,
		subscription.CustomerPhone,
		subscription.CustomerDocument,
		subscription.UpdatedAt,
		subscription.ID,
	).Error
}
