package signature

import (
	"go.uber.org/fx"

	"github.com/vansh-choudhary01/CashPay/internal/config"
)

// Module provides the payment callback signer via fx.
var Module = fx.Provide(newSigner)

func newSigner(cfg *config.Config) *Signer {
	return NewSigner(cfg.WebhookSecret)
}
