package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/AlexZinkM/globepay/internal/api"
	"github.com/AlexZinkM/globepay/internal/client"
	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/config"
	"github.com/AlexZinkM/globepay/internal/crypto"
	"github.com/AlexZinkM/globepay/internal/handler"
	"github.com/AlexZinkM/globepay/internal/history"
	"github.com/AlexZinkM/globepay/internal/ledger"
	"github.com/AlexZinkM/globepay/internal/metrics"
	"github.com/AlexZinkM/globepay/internal/payroll"
	"github.com/AlexZinkM/globepay/internal/store"
	"github.com/AlexZinkM/globepay/internal/swap"
	"github.com/AlexZinkM/globepay/internal/transfer"
	"github.com/AlexZinkM/globepay/internal/wallet"

	"github.com/madflojo/tasks"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// NewPassphrase prompts once at startup; the password is wiped on shutdown.
func NewPassphrase(lc fx.Lifecycle) (*config.Passphrase, error) {
	pass, err := config.PromptForPassword("Enter wallet password: ")
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pass.Wipe()
			return nil
		},
	})
	return pass, nil
}

func NewSolanaClient(cfg *config.Config, log *zap.Logger) (*client.SolanaClient, error) {
	ep, err := cfg.Cluster(cfg.Network)
	if err != nil {
		return nil, err
	}
	return client.NewSolanaClient(cfg.Network, ep, log)
}

func NewFallbackClient(cfg *config.Config, log *zap.Logger) (*client.FallbackClient, error) {
	ep, err := cfg.Cluster(cfg.Network)
	if err != nil {
		return nil, err
	}
	return client.NewFallbackClient(ep, log), nil
}

func NewCoinGeckoClient(cfg *config.Config) *client.CoinGeckoClient {
	return client.NewCoinGeckoClient(cfg.CoinGeckoURL)
}

func NewReconciler(cfg *config.Config, primary *client.SolanaClient, fallback *client.FallbackClient, m *metrics.Metrics, log *zap.Logger) *ledger.Reconciler {
	policy := ledger.Policy{
		Attempts:    cfg.RetryAttempts,
		Initial:     cfg.RetryInitial,
		MaxInterval: ledger.DefaultPolicy.MaxInterval,
	}
	return ledger.NewReconciler(primary, fallback, policy, log, m)
}

func NewKeystore(cfg *config.Config) *crypto.Keystore {
	return crypto.NewKeystore(cfg.WalletFilePath, crypto.WithNetwork(cfg.Network))
}

// NewWalletStore builds the store around the shared scheduler, which is stopped on shutdown.
func NewWalletStore(lc fx.Lifecycle, cfg *config.Config, ks *crypto.Keystore, pass *config.Passphrase, rec *ledger.Reconciler, sol *client.SolanaClient, scheduler *tasks.Scheduler, m *metrics.Metrics, log *zap.Logger) *wallet.Store {
	s := wallet.NewStore(ks, pass, rec, wallet.Options{
		Asset:           common.AssetSOL,
		RefreshInterval: cfg.RefreshInterval,
		Network:         sol.Network,
		Scheduler:       scheduler,
		Observer:        m,
	}, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			s.Disconnect()
			scheduler.Stop()
			return nil
		},
	})
	return s
}

// NewRecordStore uses MySQL when DATABASE_DSN is set and memory otherwise.
func NewRecordStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	if cfg.DatabaseDSN == "" {
		log.Info("DATABASE_DSN not set, records are kept in memory")
		return store.NewMemory(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := store.OpenMySQL(ctx, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

func NewSubmitter(cfg *config.Config, w *wallet.Store, sol *client.SolanaClient, rec *ledger.Reconciler, records store.Store, m *metrics.Metrics, log *zap.Logger) *transfer.Submitter {
	return transfer.NewSubmitter(w, sol, rec, records, transfer.Options{
		Cooldown:       cfg.PayCooldown,
		ConfirmTimeout: cfg.ConfirmTimeout,
		Observer:       m,
	}, log)
}

func NewSwapEngine(cfg *config.Config, w *wallet.Store, sub *transfer.Submitter, records store.Store, m *metrics.Metrics, log *zap.Logger) (*swap.Engine, error) {
	rates := swap.NewRateTable(cfg.SwapRateJitter)
	if cfg.SwapRatesFile != "" {
		if err := rates.LoadFile(cfg.SwapRatesFile); err != nil {
			return nil, err
		}
	}
	return swap.NewEngine(rates, w, sub, records, swap.Options{Mode: cfg.SwapMode, Observer: m}, log), nil
}

func NewPayrollService(records store.Store, sub *transfer.Submitter, m *metrics.Metrics, log *zap.Logger) *payroll.Service {
	return payroll.NewService(records, sub, m, log)
}

func NewHistoryService(sol *client.SolanaClient, w *wallet.Store) *history.Service {
	return history.NewService(sol, w)
}

func NewWalletHandler(cfg *config.Config, w *wallet.Store, rec *ledger.Reconciler, prices *client.CoinGeckoClient, sol *client.SolanaClient, log *zap.Logger) *handler.WalletHandler {
	return handler.NewWalletHandler(w, rec, prices, sol, cfg.FiatCurrency, log)
}

func NewNetworkHandler(cfg *config.Config, sol *client.SolanaClient, fallback *client.FallbackClient, w *wallet.Store, m *metrics.Metrics, log *zap.Logger) *handler.NetworkHandler {
	return handler.NewNetworkHandler(cfg, sol, fallback, w, m, log)
}

func NewTransactionHandler(h *history.Service, sub *transfer.Submitter, records store.Store, log *zap.Logger) *handler.TransactionHandler {
	return handler.NewTransactionHandler(h, sub, records, log)
}

func NewSwapHandler(engine *swap.Engine, records store.Store, log *zap.Logger) *handler.SwapHandler {
	return handler.NewSwapHandler(engine, records, log)
}

func NewPayrollHandler(svc *payroll.Service, log *zap.Logger) *handler.PayrollHandler {
	return handler.NewPayrollHandler(svc, log)
}

type health struct {
	sol    *client.SolanaClient
	wallet *wallet.Store
}

func (h health) Network() string { return h.sol.Network() }
func (h health) Connected() bool { return h.wallet.State().Connected }

func NewHealth(sol *client.SolanaClient, w *wallet.Store) api.Health {
	return health{sol: sol, wallet: w}
}

func NewServeMux(routes []handler.Handler, h api.Health, m *metrics.Metrics, log *zap.Logger) *http.ServeMux {
	return api.NewServeMux(routes, h, m, log)
}

func NewHttpServer(lc fx.Lifecycle, cfg *config.Config, mux *http.ServeMux, m *metrics.Metrics, log *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: api.SetupRouter(mux, api.Options{
			CORSOrigins:    cfg.CORSOrigins,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
			TrustProxy:     cfg.TrustProxy,
		}, m, log),
		ReadTimeout: time.Second * 15,
		// transfers with wait=true block until finality
		WriteTimeout: cfg.ConfirmTimeout + time.Second*30,
		IdleTimeout:  time.Second * 60,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr), zap.String("network", cfg.Network))
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

// AutoConnect restores an existing wallet on startup. Failures leave the service disconnected.
func AutoConnect(lc fx.Lifecycle, ks *crypto.Keystore, w *wallet.Store, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !ks.Exists() {
				log.Info("no wallet file yet, connect to create one", zap.String("path", ks.Path()))
				return nil
			}
			resp, err := w.Connect(ctx)
			if err != nil {
				log.Warn("failed to restore wallet", zap.Error(err))
				return nil
			}
			log.Info("wallet restored", zap.String("address", resp.State.Address))
			return nil
		},
	})
}
