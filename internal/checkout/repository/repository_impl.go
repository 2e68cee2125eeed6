package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pedidohub/pedidohub/internal/checkout/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const sessionColumns = `id, token, plan_id, email, full_name, company_name, status, user_id, company_id, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, session *domain.CheckoutSession) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscription_checkouts (
			id, token, plan_id, email, full_name, company_name, status, user_id, company_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.Token,
		session.PlanID,
		session.Email,
		session.FullName,
		session.CompanyName,
		session.Status,
		session.UserID,
		session.CompanyID,
		session.CreatedAt,
		session.UpdatedAt,
	).Error
}

func (r *repo) FindByToken(ctx context.Context, db *gorm.DB, token string) (*domain.CheckoutSession, error) {
	var session domain.CheckoutSession
	err := db.WithContext(ctx).Raw(
		`SELECT `+sessionColumns+`
		 FROM subscription_checkouts WHERE token = ? LIMIT 1`,
		token,
	).Scan(&session).Error
	if err != nil {
		return nil, err
	}
	if session.ID == 0 {
		return nil, nil
	}
	return &session, nil
}

func (r *repo) FindLatestOpenByEmailAndPlan(ctx context.Context, db *gorm.DB, email string, planID snowflake.ID) (*domain.CheckoutSession, error) {
	var session domain.CheckoutSession
	err := db.WithContext(ctx).Raw(
		`SELECT `+sessionColumns+`
		 FROM subscription_checkouts
		 WHERE lower(email) = lower(?) AND plan_id = ? AND status NOT IN (?, ?)
		 ORDER BY created_at DESC
		 LIMIT 1`,
		email,
		planID,
		domain.StatusActive,
		domain.StatusCompleted,
	).Scan(&session).Error
	if err != nil {
		return nil, err
	}
	if session.ID == 0 {
		return nil, nil
	}
	return &session, nil
}

func (r *repo) FindLatestByEmail(ctx context.Context, db *gorm.DB, email string, since time.Time) (*domain.CheckoutSession, error) {
	var session domain.CheckoutSession
	err := db.WithContext(ctx).Raw(
		`SELECT `+sessionColumns+`
		 FROM subscription_checkouts
		 WHERE lower(email) = lower(?)
		   AND (status NOT IN (?, ?) OR updated_at >= ?)
		 ORDER BY created_at DESC
		 LIMIT 1`,
		email,
		domain.StatusActive,
		domain.StatusCompleted,
		since,
	).Scan(&session).Error
	if err != nil {
		return nil, err
	}
	if session.ID == 0 {
		return nil, nil
	}
	return &session, nil
}

func (r *repo) Complete(ctx context.Context, db *gorm.DB, id snowflake.ID, userID, companyID snowflake.ID, completedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscription_checkouts
		 SET status = ?, user_id = ?, company_id = ?, updated_at = ?
		 WHERE id = ?`,
		domain.StatusCompleted,
		userID,
		companyID,
		completedAt,
		id,
	).Error
}
