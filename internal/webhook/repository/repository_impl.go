package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pedidohub/pedidohub/internal/webhook/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertIfNew(ctx context.Context, db *gorm.DB, event *domain.WebhookEvent) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO webhook_events (
			id, gateway, event_id, event_type, payload, received_at, processed_at, outcome
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (gateway, event_id) DO NOTHING`,
		event.ID,
		event.Gateway,
		event.EventID,
		event.EventType,
		event.Payload,
		event.ReceivedAt,
		event.ProcessedAt,
		event.Outcome,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByEventID(ctx context.Context, db *gorm.DB, gateway, eventID string) (*domain.WebhookEvent, error) {
	var item domain.WebhookEvent
	err := db.WithContext(ctx).Raw(
		`SELECT id, gateway, event_id, event_type, payload, received_at, processed_at, outcome
		 FROM webhook_events
		 WHERE gateway = ? AND event_id = ?
		 LIMIT 1`,
		gateway,
		eventID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) MarkProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID, processedAt time.Time, outcome string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE webhook_events
		 SET processed_at = ?, outcome = ?
		 WHERE id = ?`,
		processedAt,
		outcome,
		id,
	).Error
}
