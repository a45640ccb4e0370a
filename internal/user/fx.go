package user

import (
	"github.com/smallbooks/smallbooks/internal/user/repository"
	"github.com/smallbooks/smallbooks/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
