package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/pedidohub/pedidohub/internal/webhook/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	err = conn.Exec(`CREATE TABLE webhook_events (
		id INTEGER PRIMARY KEY,
		gateway TEXT NOT NULL,
		event_id TEXT NOT NULL,
		event_type TEXT,
		payload BLOB,
		received_at DATETIME NOT NULL,
		processed_at DATETIME,
		outcome TEXT,
		UNIQUE (gateway, event_id)
	)`).Error
	require.NoError(t, err)
	return conn
}

func TestInsertIfNew(t *testing.T) {
	conn := newTestDB(t)
	repo := Provide()
	ctx := context.Background()
	node, _ := snowflake.NewNode(1)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := &domain.WebhookEvent{
		ID:         node.Generate(),
		Gateway:    domain.GatewayCakto,
		EventID:    "evt-1",
		EventType:  "purchase_approved",
		Payload:    datatypes.JSON(`{"event":"purchase_approved"}`),
		ReceivedAt: now,
	}
	inserted, err := repo.InsertIfNew(ctx, conn, first)
	require.NoError(t, err)
	require.True(t, inserted)

	// Same gateway and event id conflicts silently.
	dup := &domain.WebhookEvent{
		ID:         node.Generate(),
		Gateway:    domain.GatewayCakto,
		EventID:    "evt-1",
		EventType:  "purchase_approved",
		Payload:    datatypes.JSON(`{"event":"purchase_approved"}`),
		ReceivedAt: now.Add(time.Minute),
	}
	inserted, err = repo.InsertIfNew(ctx, conn, dup)
	require.NoError(t, err)
	require.False(t, inserted)

	// Same event id on another gateway is a different event.
	other := &domain.WebhookEvent{
		ID:         node.Generate(),
		Gateway:    "stripe",
		EventID:    "evt-1",
		ReceivedAt: now,
	}
	inserted, err = repo.InsertIfNew(ctx, conn, other)
	require.NoError(t, err)
	require.True(t, inserted)
}

func TestFindByEventIDAndMarkProcessed(t *testing.T) {
	conn := newTestDB(t)
	repo := Provide()
	ctx := context.Background()
	node, _ := snowflake.NewNode(1)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	event := &domain.WebhookEvent{
		ID:         node.Generate(),
		Gateway:    domain.GatewayCakto,
		EventID:    "evt-2",
		EventType:  "subscription_renewed",
		Payload:    datatypes.JSON(`{}`),
		ReceivedAt: now,
	}
	_, err := repo.InsertIfNew(ctx, conn, event)
	require.NoError(t, err)

	stored, err := repo.FindByEventID(ctx, conn, domain.GatewayCakto, "evt-2")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Nil(t, stored.ProcessedAt)
	require.Equal(t, event.ID, stored.ID)

	missing, err := repo.FindByEventID(ctx, conn, domain.GatewayCakto, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, repo.MarkProcessed(ctx, conn, event.ID, now.Add(time.Second), domain.OutcomeActivated))

	stored, err = repo.FindByEventID(ctx, conn, domain.GatewayCakto, "evt-2")
	require.NoError(t, err)
	require.NotNil(t, stored.ProcessedAt)
	require.Equal(t, domain.OutcomeActivated, stored.Outcome)
}
