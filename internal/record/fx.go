package record

import (
	"github.com/smallbiznis/cloudbill/internal/record/repository"
	"github.com/smallbiznis/cloudbill/internal/record/service"
	"go.uber.org/fx"
)

var Module = fx.Module("record.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
