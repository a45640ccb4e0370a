// Package observability bundles the logging and metrics modules.
package observability

import (
	"github.com/smallbooks/smallbooks/internal/observability/logger"
	"github.com/smallbooks/smallbooks/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Options(
	logger.Module,
	logger.GormModule,
	metrics.Module,
)
