package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pedidohub/pedidohub/internal/checkout"
	"github.com/pedidohub/pedidohub/internal/clock"
	"github.com/pedidohub/pedidohub/internal/company"
	"github.com/pedidohub/pedidohub/internal/config"
	"github.com/pedidohub/pedidohub/internal/gateway/cakto"
	"github.com/pedidohub/pedidohub/internal/identity"
	"github.com/pedidohub/pedidohub/internal/logger"
	"github.com/pedidohub/pedidohub/internal/metrics"
	"github.com/pedidohub/pedidohub/internal/migration"
	"github.com/pedidohub/pedidohub/internal/notifier"
	"github.com/pedidohub/pedidohub/internal/plan"
	"github.com/pedidohub/pedidohub/internal/providers/email"
	"github.com/pedidohub/pedidohub/internal/server"
	"github.com/pedidohub/pedidohub/internal/subscription"
	"github.com/pedidohub/pedidohub/internal/webhook"
	"github.com/pedidohub/pedidohub/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		migration.Module,

		// Functional domains
		identity.Module,
		company.Module,
		plan.Module,
		checkout.Module,
		subscription.Module,
		email.Module,
		notifier.Module,
		cakto.Module,
		webhook.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
