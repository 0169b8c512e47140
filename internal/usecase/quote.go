package usecase

import (
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
	"github.com/vansh-choudhary01/CashPay/internal/pricing"
)

// QuoteUseCase exposes instant quotes and the attribute vocabulary the
// quote form is built from.
type QuoteUseCase struct {
	engine *pricing.Engine
}

// NewQuoteUseCase constructs QuoteUseCase.
func NewQuoteUseCase(engine *pricing.Engine) *QuoteUseCase {
	return &QuoteUseCase{engine: engine}
}

// Quote prices a device from its base price and attributes.
func (u *QuoteUseCase) Quote(basePrice int64, condition, storage string) (model.Quote, error) {
	return u.engine.Quote(basePrice, condition, storage)
}

// Attributes returns the accepted condition and storage values, sorted.
func (u *QuoteUseCase) Attributes() (conditions, storages []string) {
	return u.engine.Conditions(), u.engine.Storages()
}
