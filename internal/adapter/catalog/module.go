package catalog

import (
	"go.uber.org/fx"

	"github.com/vansh-choudhary01/CashPay/internal/config"
)

// Module provides the catalog price source.
var Module = fx.Provide(func(cfg *config.Config) (PriceSource, error) {
	return LoadStatic(cfg.CatalogFile)
})
