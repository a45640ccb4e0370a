package client

import (
	"github.com/smallbooks/smallbooks/internal/client/repository"
	"github.com/smallbooks/smallbooks/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
