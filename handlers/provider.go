package handlers

import (
	"go.uber.org/fx"
)

var Options = fx.Options(
	fx.Provide(
		NewAuthHandler,
		NewUserHandler,
		NewCatalogHandler,
		NewPartnerHandler,
		NewTradeHandler,
	),
	fx.Invoke(RegisterRoutes),
)
