package openapi

import (
	"github.com/OliveroJ16/inventory-system-api/config"
	"github.com/OliveroJ16/inventory-system-api/server"
	"go.uber.org/fx"
)

func ProvideDocument(cfg *config.Config) *Document {
	return New(cfg.App.Name, "1.0.0", cfg.App.URL)
}

func RegisterRoutes(srv *server.Server, doc *Document) {
	srv.Get("/openapi.json", doc.JSONHandler())
	srv.Get("/openapi.yaml", doc.YAMLHandler())
}

var Options = fx.Options(
	fx.Provide(ProvideDocument),
	fx.Invoke(RegisterRoutes),
)
