package auth

import (
	"github.com/smallbooks/smallbooks/internal/auth/repository"
	"github.com/smallbooks/smallbooks/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
