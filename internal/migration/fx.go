package migration

import (
	"github.com/pulsefit/pulsefit/internal/config"
	directorydomain "github.com/pulsefit/pulsefit/internal/directory/domain"
	earningsdomain "github.com/pulsefit/pulsefit/internal/earnings/domain"
	payoutdomain "github.com/pulsefit/pulsefit/internal/payout/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// sqlite is a dev/test convenience path; gorm keeps it in sync.
			return conn.AutoMigrate(
				&directorydomain.CreatorProfile{},
				&earningsdomain.PaymentRecord{},
				&earningsdomain.PrizeRecord{},
				&payoutdomain.Record{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
