package session

import (
	"github.com/OliveroJ16/inventory-system-api/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideSessionService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

var Options = fx.Options(
	fx.Provide(ProvideSessionService),
)
