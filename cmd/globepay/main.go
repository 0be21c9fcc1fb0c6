package main

import (
	"net/http"

	_ "github.com/AlexZinkM/globepay/docs"
	"github.com/AlexZinkM/globepay/internal/config"
	"github.com/AlexZinkM/globepay/internal/handler"
	"github.com/AlexZinkM/globepay/internal/metrics"

	"github.com/madflojo/tasks"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// @title						GlobePay API
// @version					1.0
// @description				Solana wallet service with transfers, currency swaps and payroll.
// @BasePath					/
func main() {
	fx.New(
		fx.Provide(
			config.Load,
			NewLogger,
			NewPassphrase,
			metrics.New,
			NewSolanaClient,
			NewFallbackClient,
			NewCoinGeckoClient,
			NewReconciler,
			NewKeystore,
			tasks.New,
			NewWalletStore,
			NewRecordStore,
			NewSubmitter,
			NewSwapEngine,
			NewPayrollService,
			NewHistoryService,
			NewHealth,
			NewHttpServer,
			fx.Annotate(
				NewServeMux,
				fx.ParamTags(`group:"handlers"`),
			),
			fx.Annotate(
				NewWalletHandler,
				fx.As(new(handler.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				NewNetworkHandler,
				fx.As(new(handler.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				NewTransactionHandler,
				fx.As(new(handler.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				NewSwapHandler,
				fx.As(new(handler.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				NewPayrollHandler,
				fx.As(new(handler.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(AutoConnect),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}
