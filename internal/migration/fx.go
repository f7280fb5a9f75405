package migration

import (
	auditdomain "github.com/imigpt/foodzippy-backend/internal/audit/domain"
	authdomain "github.com/imigpt/foodzippy-backend/internal/auth/domain"
	"github.com/imigpt/foodzippy-backend/internal/config"
	notificationdomain "github.com/imigpt/foodzippy-backend/internal/notification/domain"
	paymentdomain "github.com/imigpt/foodzippy-backend/internal/payment/domain"
	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	"github.com/imigpt/foodzippy-backend/internal/seed"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
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
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql/sqlite deployments bootstrap from the models.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&ratedomain.PaymentRate{},
				&vendordomain.Vendor{},
				&vendordomain.FollowUpEntry{},
				&paymentdomain.Payment{},
				&notificationdomain.Notification{},
				&auditdomain.AuditLog{},
			); err != nil {
				return err
			}
		}
		return seed.EnsureDefaultAdmin(conn)
	}),
)
