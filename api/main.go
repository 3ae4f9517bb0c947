package api

import (
	"context"
	"fmt"

	"github.com/integrada/portal/catalog"
	"github.com/integrada/portal/config"
	"github.com/integrada/portal/links"
	"github.com/integrada/portal/logger"
	"github.com/integrada/portal/patients"
	"github.com/integrada/portal/respondents"
	"github.com/integrada/portal/session"
	"github.com/integrada/portal/status"
	"github.com/integrada/portal/store"
	"github.com/integrada/portal/tokens"
	"github.com/integrada/portal/view"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Start(e *echo.Echo, cfg *config.Config, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			address := fmt.Sprintf(":%d", cfg.HttpPort)
			go func() {
				if err := e.Start(address); err != nil {
					logger.Infow("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

// SetReady warms the catalog cache before reporting ready. A failing store does
// not prevent startup; pages will report it to visitors.
func SetReady(healthCheck *HealthCheck, loader catalog.Loader, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if definitions, err := loader.Catalog(ctx); err != nil {
				logger.Warnw("unable to load catalog", zap.Error(err))
			} else {
				logger.Infow("catalog loaded", "tests", len(definitions))
			}

			healthCheck.SetReady(true)
			return nil
		},
	})
}

// Dependencies is the provider graph of the portal shared by the server and the command line tools.
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			logger.NewProductionLogger,
			logger.Suggar,
			config.NewFromEnv,
			store.NewConfig,
			store.NewStore,
			store.NewCollections,
			tokens.NewResolver,
			patients.NewRepository,
			catalog.NewConfig,
			catalog.NewLoader,
			status.NewConfig,
			status.NewEngine,
			respondents.NewClassifier,
			links.NewConfig,
			links.NewResolver,
			session.NewConfig,
			session.NewManager,
			view.NewBuilder,
			view.NewRenderer,
			NewHealthCheck,
			NewHandler,
			NewServer,
		),
	}
}

func MainLoop() {
	deps := append(Dependencies(), fx.Invoke(SetReady), fx.Invoke(Start))
	fx.New(deps...).Run()
}
