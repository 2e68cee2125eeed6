package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/pedidohub/pedidohub/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, cakto_plan_id, name, price, billing_period, period_days, created_at
		 FROM plans WHERE id = ? LIMIT 1`,
		id,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) FindByCaktoID(ctx context.Context, db *gorm.DB, caktoPlanID string) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, cakto_plan_id, name, price, billing_period, period_days, created_at
		 FROM plans WHERE cakto_plan_id = ? LIMIT 1`,
		caktoPlanID,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO plans (id, cakto_plan_id, name, price, billing_period, period_days, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.ID,
		plan.CaktoPlanID,
		plan.Name,
		plan.Price,
		plan.BillingPeriod,
		plan.PeriodDays,
		plan.CreatedAt,
	).Error
}
