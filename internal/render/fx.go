package render

import "go.uber.org/fx"

var Module = fx.Module("render.service",
	fx.Provide(NewService),
)
