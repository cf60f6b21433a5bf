package billing

import (
	"github.com/smallbiznis/cloudbill/internal/billing/kind"
	"github.com/smallbiznis/cloudbill/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.engine",
	fx.Provide(kind.Default),
	fx.Provide(service.New),
)
