package resource

import (
	"github.com/smallbiznis/cloudbill/internal/resource/repository"
	"github.com/smallbiznis/cloudbill/internal/resource/service"
	"go.uber.org/fx"
)

var Module = fx.Module("resource.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
