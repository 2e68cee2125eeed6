package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var ErrInvalidEmail = errors.New("invalid_email")

// Provider is the identity collaborator: lookup by email, create with
// password, update metadata. Lookups are case-insensitive on email.
type Provider interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	UpdateMetadata(ctx context.Context, userID snowflake.ID, metadata Metadata) error
}

// RoleStore grants application roles, insert-or-ignore on (user, role).
type RoleStore interface {
	Grant(ctx context.Context, userID snowflake.ID, role string) error
}
