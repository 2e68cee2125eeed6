package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertIfNew records the event in unprocessed state. It returns
	// false without error when a row for (gateway, event_id) already
	// exists; the unique index is the serialization point between
	// concurrent deliveries of the same event.
	InsertIfNew(ctx context.Context, db *gorm.DB, event *WebhookEvent) (bool, error)
	FindByEventID(ctx context.Context, db *gorm.DB, gateway, eventID string) (*WebhookEvent, error)
	MarkProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID, processedAt time.Time, outcome string) error
}
