package catalog

import (
	"github.com/OliveroJ16/inventory-system-api/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideCatalogService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

var Options = fx.Options(
	fx.Provide(ProvideCatalogService),
)
