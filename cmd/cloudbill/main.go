package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cloudbill/internal/billing"
	"github.com/smallbiznis/cloudbill/internal/clock"
	"github.com/smallbiznis/cloudbill/internal/config"
	"github.com/smallbiznis/cloudbill/internal/migration"
	"github.com/smallbiznis/cloudbill/internal/observability"
	"github.com/smallbiznis/cloudbill/internal/price"
	"github.com/smallbiznis/cloudbill/internal/record"
	"github.com/smallbiznis/cloudbill/internal/reslock"
	"github.com/smallbiznis/cloudbill/internal/resource"
	"github.com/smallbiznis/cloudbill/internal/server"
	"github.com/smallbiznis/cloudbill/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		reslock.Module,

		// Domains
		price.Module,
		resource.Module,
		record.Module,
		billing.Module,

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
