package migration

import (
	"github.com/smallbiznis/cloudbill/internal/config"
	pricedomain "github.com/smallbiznis/cloudbill/internal/price/domain"
	recorddomain "github.com/smallbiznis/cloudbill/internal/record/domain"
	resourcedomain "github.com/smallbiznis/cloudbill/internal/resource/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// sqlite and mysql serve local and self-hosted setups; let gorm
		// derive the schema there.
		return conn.AutoMigrate(
			&pricedomain.Price{},
			&resourcedomain.Resource{},
			&recorddomain.BillingRecord{},
		)
	}),
)
