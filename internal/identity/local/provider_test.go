package local

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/pedidohub/pedidohub/internal/identity/domain"
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
	err = conn.Exec(`CREATE TABLE profiles (
		id INTEGER PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT,
		password_hash TEXT NOT NULL,
		company_id INTEGER,
		must_change_password BOOLEAN NOT NULL DEFAULT FALSE,
		must_complete_company BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error
	require.NoError(t, err)
	err = conn.Exec(`CREATE TABLE user_roles (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (user_id, role)
	)`).Error
	require.NoError(t, err)
	return conn
}

func TestCreateAndFindUser(t *testing.T) {
	conn := newTestDB(t)
	node, _ := snowflake.NewNode(1)
	p := NewProvider(conn, node, zap.NewNop())
	ctx := context.Background()

	user, err := p.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "Maria@Example.com",
		FullName: "Maria Silva",
		Password: "temp-Pass1",
	})
	require.NoError(t, err)
	require.Equal(t, "maria@example.com", user.Email)

	found, err := p.FindByEmail(ctx, "MARIA@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, user.ID, found.ID)
	require.Nil(t, found.CompanyID)

	var hash string
	require.NoError(t, conn.Raw(`SELECT password_hash FROM profiles WHERE id = ?`, user.ID).Scan(&hash).Error)
	require.True(t, VerifyPassword("temp-Pass1", hash))

	missing, err := p.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	conn := newTestDB(t)
	node, _ := snowflake.NewNode(1)
	p := NewProvider(conn, node, zap.NewNop())
	ctx := context.Background()

	_, err := p.CreateUser(ctx, domain.CreateUserRequest{Email: "maria@example.com", Password: "x"})
	require.NoError(t, err)

	_, err = p.CreateUser(ctx, domain.CreateUserRequest{Email: "maria@example.com", Password: "y"})
	require.Error(t, err)
}

func TestUpdateMetadataPartial(t *testing.T) {
	conn := newTestDB(t)
	node, _ := snowflake.NewNode(1)
	p := NewProvider(conn, node, zap.NewNop())
	ctx := context.Background()

	user, err := p.CreateUser(ctx, domain.CreateUserRequest{Email: "maria@example.com", Password: "x"})
	require.NoError(t, err)

	companyID := node.Generate()
	mustChange := true
	require.NoError(t, p.UpdateMetadata(ctx, user.ID, domain.Metadata{
		CompanyID:          &companyID,
		MustChangePassword: &mustChange,
	}))

	// A nil field leaves the stored value alone.
	require.NoError(t, p.UpdateMetadata(ctx, user.ID, domain.Metadata{}))

	found, err := p.FindByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	require.NotNil(t, found.CompanyID)
	require.Equal(t, companyID, *found.CompanyID)

	var stillSet bool
	require.NoError(t, conn.Raw(`SELECT must_change_password FROM profiles WHERE id = ?`, user.ID).Scan(&stillSet).Error)
	require.True(t, stillSet)
}

func TestRoleGrantIsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	node, _ := snowflake.NewNode(1)
	store := NewRoleStore(conn, node)
	ctx := context.Background()

	userID := node.Generate()
	require.NoError(t, store.Grant(ctx, userID, "owner"))
	require.NoError(t, store.Grant(ctx, userID, "owner"))

	var count int64
	require.NoError(t, conn.Raw(`SELECT COUNT(1) FROM user_roles WHERE user_id = ?`, userID).Scan(&count).Error)
	require.EqualValues(t, 1, count)
}
