package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/clock"
	"github.com/smallbooks/smallbooks/internal/config"
	"github.com/smallbooks/smallbooks/internal/migration"
	"github.com/smallbooks/smallbooks/internal/observability"
	"github.com/smallbooks/smallbooks/internal/server"
	"github.com/smallbooks/smallbooks/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
