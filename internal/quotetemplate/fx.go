package quotetemplate

import (
	"github.com/smallbiznis/quotely/internal/quotetemplate/repository"
	"github.com/smallbiznis/quotely/internal/quotetemplate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quotetemplate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
