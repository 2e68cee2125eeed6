package company

import (
	"github.com/pedidohub/pedidohub/internal/company/repository"
	"github.com/pedidohub/pedidohub/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
