package subject

import (
	"go.uber.org/fx"

	"github.com/vansh-choudhary01/CashPay/internal/config"
)

// Module provides the subject token parser via fx.
var Module = fx.Provide(newParser)

func newParser(cfg *config.Config) *Parser {
	return NewParser(cfg.TokenSecret, Options{})
}
