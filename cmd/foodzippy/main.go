package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/imigpt/foodzippy-backend/internal/clock"
	"github.com/imigpt/foodzippy-backend/internal/migration"
	"github.com/imigpt/foodzippy-backend/internal/observability"
	"github.com/imigpt/foodzippy-backend/internal/server"
	"github.com/imigpt/foodzippy-backend/pkg/db"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		server.Module,
		migration.Module,
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
