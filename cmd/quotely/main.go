// @title           Quotely API
// @version         1.0
// @description     Quotation pricing and rendering API

// @BasePath  /api
// @Schemes   http https

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/config"
	"github.com/smallbiznis/quotely/internal/events"
	"github.com/smallbiznis/quotely/internal/followup"
	"github.com/smallbiznis/quotely/internal/lead"
	"github.com/smallbiznis/quotely/internal/migration"
	"github.com/smallbiznis/quotely/internal/observability"
	"github.com/smallbiznis/quotely/internal/organization"
	"github.com/smallbiznis/quotely/internal/product"
	"github.com/smallbiznis/quotely/internal/quotation"
	"github.com/smallbiznis/quotely/internal/quotetemplate"
	"github.com/smallbiznis/quotely/internal/render"
	"github.com/smallbiznis/quotely/internal/scheduler"
	"github.com/smallbiznis/quotely/internal/seed"
	"github.com/smallbiznis/quotely/internal/server"
	"github.com/smallbiznis/quotely/internal/storage"
	"github.com/smallbiznis/quotely/pkg/db"
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

		organization.Module,
		lead.Module,
		product.Module,
		followup.Module,
		quotetemplate.Module,
		quotation.Module,
		events.Module,
		storage.Module,
		render.Module,
		seed.Module,
		scheduler.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(cfg.SnowflakeID)
	if err != nil {
		panic(err)
	}
	return node
}
