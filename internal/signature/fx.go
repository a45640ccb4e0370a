package signature

import (
	"github.com/smallbooks/smallbooks/internal/signature/repository"
	"github.com/smallbooks/smallbooks/internal/signature/service"
	"go.uber.org/fx"
)

var Module = fx.Module("signature.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
