package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/vansh-choudhary01/CashPay/internal/config"
	"github.com/vansh-choudhary01/CashPay/internal/domain/repository"
	"github.com/vansh-choudhary01/CashPay/internal/pkg/signature"
	"github.com/vansh-choudhary01/CashPay/internal/usecase"
	"github.com/vansh-choudhary01/CashPay/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newPaymentUseCase,
		NewMarketplaceFacade,
		newHTTPServer,
		newSettlementPoller,
	),
	fx.Invoke(registerLifecycle),
)

type paymentParams struct {
	fx.In

	Orders   *usecase.OrderUseCase
	Repo     repository.OrderRepository
	Provider usecase.PaymentProvider
	Signer   *signature.Signer
	Guard    usecase.ReplayGuard
	Config   *config.Config
	Logger   *slog.Logger
}

func newPaymentUseCase(p paymentParams) *usecase.PaymentUseCase {
	return usecase.NewPaymentUseCase(p.Orders, p.Repo, p.Provider, p.Signer, p.Guard, p.Config.ProviderTimeout, p.Logger)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *MarketplaceFacade
	Config *config.Config
	Logger *slog.Logger
}

func newSettlementPoller(p workerParams) *worker.SettlementPoller {
	return worker.NewSettlementPoller(
		p.Facade,
		p.Config.SettleInterval,
		p.Config.SettleAfter,
		p.Config.SettleBatchSize,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.SettlementPoller
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting cashpay", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("cashpay stopped")
			return nil
		},
	})
}
