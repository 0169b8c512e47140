package di

import (
	"go.uber.org/fx"

	"github.com/vansh-choudhary01/CashPay/internal/adapter/catalog"
	"github.com/vansh-choudhary01/CashPay/internal/adapter/razorpay"
	"github.com/vansh-choudhary01/CashPay/internal/adapter/replay"
	"github.com/vansh-choudhary01/CashPay/internal/app"
	"github.com/vansh-choudhary01/CashPay/internal/config"
	"github.com/vansh-choudhary01/CashPay/internal/logger"
	"github.com/vansh-choudhary01/CashPay/internal/pkg/signature"
	"github.com/vansh-choudhary01/CashPay/internal/pkg/subject"
	"github.com/vansh-choudhary01/CashPay/internal/pricing"
	"github.com/vansh-choudhary01/CashPay/internal/server/http/handlers"
	"github.com/vansh-choudhary01/CashPay/internal/server/http/router"
	"github.com/vansh-choudhary01/CashPay/internal/storage/postgres"
	"github.com/vansh-choudhary01/CashPay/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		subject.Module,
		signature.Module,
		pricing.Module,
		postgres.Module,
		razorpay.Module,
		replay.Module,
		catalog.Module,
		usecase.Module,
		fx.Provide(func(client razorpay.Client) usecase.PaymentProvider { return client }),
		fx.Provide(func(guard replay.Guard) usecase.ReplayGuard { return guard }),
		fx.Provide(func(source catalog.PriceSource) usecase.CatalogGateway { return source }),
		fx.Provide(func(storage *postgres.Storage) app.HealthChecker { return storage }),
		fx.Provide(func(facade *app.MarketplaceFacade) handlers.MarketplaceFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
