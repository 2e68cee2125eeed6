package domain

import "context"

// Service processes gateway deliveries into durable side effects.
type Service interface {
	Process(ctx context.Context, delivery Delivery) (Result, error)
	GetEvent(ctx context.Context, gateway, eventID string) (*WebhookEvent, error)
}
