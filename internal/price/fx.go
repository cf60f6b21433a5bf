package price

import (
	"github.com/smallbiznis/cloudbill/internal/price/repository"
	"github.com/smallbiznis/cloudbill/internal/price/service"
	"go.uber.org/fx"
)

var Module = fx.Module("price.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
