package model

import "github.com/shopspring/decimal"

// Quote is a computed trade-in price, immutable once produced.
// It is not persisted on its own; the computed price is embedded
// into an order at creation time.
type Quote struct {
	BasePrice           int64
	ConditionMultiplier decimal.Decimal
	StorageMultiplier   decimal.Decimal
	ComputedPrice       int64
}
