// Package local implements the identity provider against the
// application's own profiles table.
package local

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pedidohub/pedidohub/internal/identity/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type provider struct {
	db    *gorm.DB
	genID *snowflake.Node
	log   *zap.Logger
}

func NewProvider(conn *gorm.DB, genID *snowflake.Node, log *zap.Logger) domain.Provider {
	return &provider{
		db:    conn,
		genID: genID,
		log:   log.Named("identity.local"),
	}
}

func (p *provider) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}

	var profile domain.Profile
	err := p.db.WithContext(ctx).Raw(
		`SELECT id, email, full_name, company_id FROM profiles
		 WHERE lower(email) = lower(?)
		 LIMIT 1`,
		email,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &domain.User{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		CompanyID: profile.CompanyID,
	}, nil
}

func (p *provider) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := domain.Profile{
		ID:           p.genID.Generate(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = p.db.WithContext(ctx).Exec(
		`INSERT INTO profiles (
			id, email, full_name, password_hash, company_id,
			must_change_password, must_complete_company, created_at, updated_at
		) VALUES (?, ?, ?, ?, NULL, ?, ?, ?, ?)`,
		profile.ID,
		profile.Email,
		profile.FullName,
		profile.PasswordHash,
		false,
		false,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Error
	if err != nil {
		return nil, err
	}

	p.log.Info("identity created", zap.String("email", email))
	return &domain.User{ID: profile.ID, Email: profile.Email, FullName: profile.FullName}, nil
}

func (p *provider) UpdateMetadata(ctx context.Context, userID snowflake.ID, metadata domain.Metadata) error {
	return p.db.WithContext(ctx).Exec(
		`UPDATE profiles
		 SET company_id = COALESCE(?, company_id),
		     must_change_password = COALESCE(?, must_change_password),
		     must_complete_company = COALESCE(?, must_complete_company),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		metadata.CompanyID,
		metadata.MustChangePassword,
		metadata.MustCompleteCompany,
		userID,
	).Error
}

type roleStore struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewRoleStore(conn *gorm.DB, genID *snowflake.Node) domain.RoleStore {
	return &roleStore{db: conn, genID: genID}
}

func (s *roleStore) Grant(ctx context.Context, userID snowflake.ID, role string) error {
	return s.db.WithContext(ctx).Exec(
		`INSERT INTO user_roles (id, user_id, role, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, role) DO NOTHING`,
		s.genID.Generate(),
		userID,
		role,
		time.Now().UTC(),
	).Error
}
