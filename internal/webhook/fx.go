package webhook

import (
	"github.com/pedidohub/pedidohub/internal/config"
	"github.com/pedidohub/pedidohub/internal/webhook/repository"
	"github.com/pedidohub/pedidohub/internal/webhook/service"
	"github.com/pedidohub/pedidohub/internal/webhook/signature"
	"go.uber.org/fx"
)

var Module = fx.Module("webhook",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(func(cfg config.Config) *signature.Verifier {
		return signature.NewVerifier(cfg.Cakto.WebhookSecret)
	}),
)
