package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/pedidohub/pedidohub/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const companyColumns = `id, name, slug, email, phone, owner_user_id, plan_id, subscription_status,
	trial_ends_at, current_period_starts_at, current_period_ends_at, onboarding_completed,
	created_at, updated_at`

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Company, error) {
	return r.findOne(ctx, db, `id = ?`, id)
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Company, error) {
	return r.findOne(ctx, db, `lower(email) = lower(?)`, email)
}

func (r *repo) FindByOwner(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Company, error) {
	return r.findOne(ctx, db, `owner_user_id = ?`, userID)
}

func (r *repo) FindByMembership(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT c.`+joinColumns()+`
		 FROM companies c
		 JOIN company_members m ON m.company_id = c.id
		 WHERE m.user_id = ?
		 ORDER BY m.created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *repo) SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM companies WHERE slug = ?`,
		slug,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO companies (
			id, name, slug, email, phone, owner_user_id, plan_id, subscription_status,
			trial_ends_at, current_period_starts_at, current_period_ends_at, onboarding_completed,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		company.ID,
		company.Name,
		company.Slug,
		company.Email,
		company.Phone,
		company.OwnerUserID,
		company.PlanID,
		company.SubscriptionStatus,
		company.TrialEndsAt,
		company.CurrentPeriodStartsAt,
		company.CurrentPeriodEndsAt,
		company.OnboardingCompleted,
		company.CreatedAt,
		company.UpdatedAt,
	).Error
}

func (r *repo) AddMember(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO company_members (id, company_id, user_id, role, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (company_id, user_id) DO NOTHING`,
		member.ID,
		member.CompanyID,
		member.UserID,
		member.Role,
		member.CreatedAt,
	).Error
}

func (r *repo) UpdateBilling(ctx context.Context, db *gorm.DB, id snowflake.ID, update domain.BillingUpdate) error {
	res := db.WithContext(ctx).Exec(
		`UPDATE companies
		 SET plan_id = ?,
		     subscription_status = ?,
		     current_period_ends_at = ?,
		     current_period_starts_at = COALESCE(?, current_period_starts_at),
		     email = CASE WHEN ? != '' THEN ? ELSE email END,
		     phone = CASE WHEN ? != '' THEN ? ELSE phone END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		update.PlanID,
		update.SubscriptionStatus,
		update.PeriodEndsAt,
		update.PeriodStartsAt,
		update.Email,
		update.Email,
		update.Phone,
		update.Phone,
		id,
	)
	return res.Error
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, where string, arg any) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT `+companyColumns+`
		 FROM companies WHERE `+where+`
		 ORDER BY created_at DESC
		 LIMIT 1`,
		arg,
	).Scan(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func joinColumns() string {
	return `id, c.name, c.slug, c.email, c.phone, c.owner_user_id, c.plan_id, c.subscription_status,
	c.trial_ends_at, c.current_period_starts_at, c.current_period_ends_at, c.onboarding_completed,
	c.created_at, c.updated_at`
}
