package journal

import (
	"github.com/smallbooks/smallbooks/internal/journal/repository"
	"github.com/smallbooks/smallbooks/internal/journal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("journal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
