package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/pedidohub/pedidohub/internal/clock"
	"github.com/pedidohub/pedidohub/internal/company/domain"
	"github.com/pedidohub/pedidohub/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxNumericSlugAttempts = 25

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	clk   clock.Clock
	log   *zap.Logger
}

func NewService(conn *gorm.DB, repo domain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		db:    conn,
		repo:  repo,
		genID: genID,
		clk:   clk,
		log:   log.Named("company.service"),
	}
}

// CreateWithUniqueSlug inserts a company under a slug derived from the
// name candidate. On collision it appends -2 .. -25, then falls back to
// a random suffix so the loop terminates. A concurrent insert racing on
// the same slug surfaces as a duplicate key error and moves to the next
// candidate.
func (s *service) CreateWithUniqueSlug(ctx context.Context, req domain.CreateRequest) (*domain.Company, error) {
	name := strings.TrimSpace(req.NameCandidate)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	base := slug.Make(name)
	if base == "" {
		base = "empresa"
	}

	now := s.clk.Now().UTC()
	for attempt := 1; attempt <= maxNumericSlugAttempts+1; attempt++ {
		candidate := base
		switch {
		case attempt == 1:
		case attempt <= maxNumericSlugAttempts:
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		default:
			candidate = fmt.Sprintf("%s-%s", base, randomSuffix())
		}

		exists, err := s.repo.SlugExists(ctx, s.db, candidate)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		company := &domain.Company{
			ID:          s.genID.Generate(),
			Name:        name,
			Slug:        candidate,
			Email:       strings.TrimSpace(req.Email),
			Phone:       strings.TrimSpace(req.Phone),
			OwnerUserID: req.OwnerUserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.Insert(ctx, s.db, company); err != nil {
			if db.IsDuplicateKeyErr(err) {
				s.log.Debug("slug taken by concurrent insert", zap.String("slug", candidate))
				continue
			}
			return nil, err
		}
		return company, nil
	}

	return nil, domain.ErrSlugExhausted
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano()%100000)
	}
	return hex.EncodeToString(buf)
}
