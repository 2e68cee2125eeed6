package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Plan, error)
	FindByCaktoID(ctx context.Context, db *gorm.DB, caktoPlanID string) (*Plan, error)
	Insert(ctx context.Context, db *gorm.DB, plan *Plan) error
}
