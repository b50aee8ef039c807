package handlers

import (
	"net/http"

	"github.com/OliveroJ16/inventory-system-api/middleware/jwt"
	"github.com/OliveroJ16/inventory-system-api/server"
	"github.com/OliveroJ16/inventory-system-api/services/token"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires every HTTP endpoint. User administration is gated to
// the admin role; everything else only needs a valid access token.
func RegisterRoutes(
	srv *server.Server,
	tokenService *token.Service,
	userService *users.Service,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	catalogHandler *CatalogHandler,
	partnerHandler *PartnerHandler,
	tradeHandler *TradeHandler,
) {
	srv.Get("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	authGroup := srv.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)

	api := srv.Group("/api", jwt.RequireJWT(tokenService))

	api.GET("/me", userHandler.Me)

	admin := jwt.RequireRole(userService, users.RoleAdmin)
	api.GET("/users", userHandler.List, admin)
	api.GET("/users/:id", userHandler.Get, admin)
	api.PATCH("/users/:id", userHandler.Update, admin)

	api.GET("/categories", catalogHandler.ListCategories)
	api.POST("/categories", catalogHandler.CreateCategory)
	api.GET("/categories/:id", catalogHandler.GetCategory)
	api.PATCH("/categories/:id", catalogHandler.UpdateCategory)

	api.GET("/articles", catalogHandler.ListArticles)
	api.POST("/articles", catalogHandler.CreateArticle)
	api.GET("/articles/:id", catalogHandler.GetArticle)
	api.PATCH("/articles/:id", catalogHandler.UpdateArticle)

	api.GET("/customers", partnerHandler.ListCustomers)
	api.POST("/customers", partnerHandler.CreateCustomer)
	api.GET("/customers/:id", partnerHandler.GetCustomer)
	api.PATCH("/customers/:id", partnerHandler.UpdateCustomer)

	api.GET("/suppliers", partnerHandler.ListSuppliers)
	api.POST("/suppliers", partnerHandler.CreateSupplier, admin)
	api.GET("/suppliers/:id", partnerHandler.GetSupplier)
	api.PATCH("/suppliers/:id", partnerHandler.UpdateSupplier, admin)

	api.GET("/sales", tradeHandler.ListSales)
	api.POST("/sales", tradeHandler.CreateSale)
	api.GET("/sales/:id", tradeHandler.GetSale)
	api.POST("/sales/:id/payments", tradeHandler.AddSalePayment)

	api.GET("/purchases", tradeHandler.ListPurchases)
	api.POST("/purchases", tradeHandler.CreatePurchase)
	api.GET("/purchases/:id", tradeHandler.GetPurchase)
	api.POST("/purchases/:id/payments", tradeHandler.AddPurchasePayment)
}
