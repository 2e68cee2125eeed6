package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/pedidohub/pedidohub/internal/clock"
	"github.com/pedidohub/pedidohub/internal/company/domain"
	"github.com/pedidohub/pedidohub/internal/company/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	err = conn.Exec(`CREATE TABLE companies (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		email TEXT,
		phone TEXT,
		owner_user_id INTEGER,
		plan_id INTEGER,
		subscription_status TEXT,
		trial_ends_at DATETIME,
		current_period_starts_at DATETIME,
		current_period_ends_at DATETIME,
		onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error
	if err != nil {
		t.Fatal(err)
	}
	return conn
}

func newService(t *testing.T, conn *gorm.DB) (domain.Service, *clock.FakeClock) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewService(conn, repository.Provide(), node, clk, zap.NewNop()), clk
}

func TestCreateWithUniqueSlug(t *testing.T) {
	conn := newTestDB(t)
	svc, clk := newService(t, conn)
	ctx := context.Background()

	company, err := svc.CreateWithUniqueSlug(ctx, domain.CreateRequest{
		NameCandidate: "Padaria da Maria",
		Email:         "maria@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "padaria-da-maria", company.Slug)
	require.Equal(t, "Padaria da Maria", company.Name)
	require.Equal(t, clk.Now(), company.CreatedAt)
	require.Equal(t, clk.Now(), company.UpdatedAt)
}

func TestCreateWithUniqueSlugCollisions(t *testing.T) {
	conn := newTestDB(t)
	svc, _ := newService(t, conn)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		company, err := svc.CreateWithUniqueSlug(ctx, domain.CreateRequest{
			NameCandidate: "Padaria da Maria",
		})
		require.NoError(t, err)
		require.False(t, seen[company.Slug], "slug %q assigned twice", company.Slug)
		seen[company.Slug] = true
	}
	require.True(t, seen["padaria-da-maria"])
	require.True(t, seen["padaria-da-maria-2"])
}

func TestCreateWithUniqueSlugRejectsEmptyName(t *testing.T) {
	conn := newTestDB(t)
	svc, _ := newService(t, conn)

	_, err := svc.CreateWithUniqueSlug(context.Background(), domain.CreateRequest{NameCandidate: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreateWithUniqueSlugNonAsciiName(t *testing.T) {
	conn := newTestDB(t)
	svc, _ := newService(t, conn)

	company, err := svc.CreateWithUniqueSlug(context.Background(), domain.CreateRequest{
		NameCandidate: "Açaí & Cia",
	})
	require.NoError(t, err)
	require.NotEmpty(t, company.Slug)
	require.NotContains(t, company.Slug, " ")
}
