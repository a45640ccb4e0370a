package invoice

import (
	"github.com/smallbooks/smallbooks/internal/invoice/repository"
	"github.com/smallbooks/smallbooks/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
