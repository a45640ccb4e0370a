package bankaccount

import (
	"github.com/smallbooks/smallbooks/internal/bankaccount/repository"
	"github.com/smallbooks/smallbooks/internal/bankaccount/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bankaccount.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
