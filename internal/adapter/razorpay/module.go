package razorpay

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/vansh-choudhary01/CashPay/internal/config"
)

// Module exposes the provider client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.ProviderBaseURL, p.Config.ProviderKeyID, p.Config.ProviderKeySecret, p.Logger)
}
