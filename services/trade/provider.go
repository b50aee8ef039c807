package trade

import (
	"github.com/OliveroJ16/inventory-system-api/services/catalog"
	"github.com/OliveroJ16/inventory-system-api/services/logging"
	"github.com/OliveroJ16/inventory-system-api/services/partners"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideTradeService(db *gorm.DB, catalogService *catalog.Service, userService *users.Service, partnerService *partners.Service, logger *logging.Service) *Service {
	return NewService(db, catalogService, userService, partnerService, logger)
}

var Options = fx.Options(
	fx.Provide(ProvideTradeService),
)
