package auth

import (
	"github.com/OliveroJ16/inventory-system-api/config"
	"github.com/OliveroJ16/inventory-system-api/services/logging"
	"github.com/OliveroJ16/inventory-system-api/services/session"
	"github.com/OliveroJ16/inventory-system-api/services/token"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"go.uber.org/fx"
)

func ProvideAuthService(cfg *config.Config, userSvc *users.Service, sessionSvc *session.Service, tokenSvc *token.Service, logger *logging.Service) *Service {
	return NewService(cfg, userSvc, sessionSvc, tokenSvc, logger)
}

var Options = fx.Options(
	fx.Provide(ProvideAuthService),
)
