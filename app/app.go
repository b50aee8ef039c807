package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OliveroJ16/inventory-system-api/config"
	"github.com/OliveroJ16/inventory-system-api/database"
	"github.com/OliveroJ16/inventory-system-api/handlers"
	"github.com/OliveroJ16/inventory-system-api/openapi"
	"github.com/OliveroJ16/inventory-system-api/server"
	"github.com/OliveroJ16/inventory-system-api/services/auth"
	"github.com/OliveroJ16/inventory-system-api/services/catalog"
	"github.com/OliveroJ16/inventory-system-api/services/logging"
	"github.com/OliveroJ16/inventory-system-api/services/partners"
	"github.com/OliveroJ16/inventory-system-api/services/session"
	"github.com/OliveroJ16/inventory-system-api/services/token"
	"github.com/OliveroJ16/inventory-system-api/services/trade"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// App owns the fx container and the process lifecycle.
type App struct {
	fx     *fx.App
	logger *logging.Service
}

// Models returns every persistent model, in migration order.
func Models() []any {
	return []any{
		&users.User{},
		&session.Session{},
		&catalog.Category{},
		&catalog.Article{},
		&partners.Customer{},
		&partners.Supplier{},
		&trade.Sale{},
		&trade.SaleDetail{},
		&trade.SalePayment{},
		&trade.Purchase{},
		&trade.PurchaseDetail{},
		&trade.PurchasePayment{},
	}
}

// New composes the full application. A non-nil cfg overrides environment
// loading, which tests use to inject fixtures.
func New(cfg *config.Config, extra ...fx.Option) *App {
	app := &App{}

	options := []fx.Option{
		config.NewProvider(cfg),
		logging.Module,
		fx.Supply(database.WithModels(Models()...)),
		database.Module,
		server.NewProvider(),
		token.Options,
		users.Options,
		session.Options,
		auth.Options,
		catalog.Options,
		partners.Options,
		trade.Options,
		handlers.Options,
		openapi.Options,
		fx.Populate(&app.logger),
		fx.WithLogger(func(logger *logging.Service) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Logger()}
		}),
	}
	options = append(options, extra...)

	app.fx = fx.New(options...)
	return app
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.fx.Stop(ctx); err != nil {
		if a.logger != nil {
			a.logger.Error("failed to stop application gracefully", zap.Error(err))
		} else {
			log.Printf("Failed to stop application gracefully: %v", err)
		}
	}
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() {
	if err := a.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	if a.logger != nil {
		a.logger.Info("received shutdown signal, stopping gracefully", zap.String("signal", sig.String()))
	} else {
		log.Printf("Received signal %v, shutting down gracefully...", sig)
	}

	a.Stop()
}
