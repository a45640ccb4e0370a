package voucher

import (
	"github.com/smallbooks/smallbooks/internal/voucher/repository"
	"github.com/smallbooks/smallbooks/internal/voucher/service"
	"go.uber.org/fx"
)

var Module = fx.Module("voucher.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
