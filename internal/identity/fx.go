package identity

import (
	"github.com/pedidohub/pedidohub/internal/identity/local"
	"go.uber.org/fx"
)

var Module = fx.Module("identity",
	fx.Provide(local.NewProvider),
	fx.Provide(local.NewRoleStore),
)
