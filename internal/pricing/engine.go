package pricing

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
)

// Tables holds the read-only condition and storage multipliers.
// Shared safely across concurrent callers; never mutated after construction.
type Tables struct {
	Condition map[string]decimal.Decimal
	Storage   map[string]decimal.Decimal
}

// DefaultTables returns the marketplace multiplier tables.
func DefaultTables() Tables {
	return Tables{
		Condition: map[string]decimal.Decimal{
			"Like New":     decimal.NewFromFloat(1.0),
			"Good":         decimal.NewFromFloat(0.85),
			"Fair":         decimal.NewFromFloat(0.7),
			"Needs Repair": decimal.NewFromFloat(0.45),
		},
		Storage: map[string]decimal.Decimal{
			"64 GB":  decimal.NewFromFloat(0.9),
			"128 GB": decimal.NewFromFloat(1.0),
			"256 GB": decimal.NewFromFloat(1.1),
			"512 GB": decimal.NewFromFloat(1.25),
			"1 TB":   decimal.NewFromFloat(1.4),
		},
	}
}

// Engine computes trade-in quotes. Pure computation, no hidden state.
type Engine struct {
	tables Tables
}

// NewEngine constructs Engine over the provided multiplier tables.
func NewEngine(tables Tables) *Engine {
	return &Engine{tables: tables}
}

// Quote computes the offered price for a device. The result is deterministic:
// price = round-half-up(basePrice * conditionMultiplier * storageMultiplier),
// in whole minor currency units.
func (e *Engine) Quote(basePrice int64, condition, storage string) (model.Quote, error) {
	if basePrice <= 0 {
		return model.Quote{}, fmt.Errorf("base price must be positive: %w", domainErrors.ErrValidation)
	}

	conditionMul, ok := e.tables.Condition[condition]
	if !ok {
		return model.Quote{}, fmt.Errorf("condition %q: %w", condition, domainErrors.ErrUnknownAttribute)
	}

	storageMul, ok := e.tables.Storage[storage]
	if !ok {
		return model.Quote{}, fmt.Errorf("storage %q: %w", storage, domainErrors.ErrUnknownAttribute)
	}

	// Round is half away from zero, which is half-up for non-negative amounts.
	computed := decimal.NewFromInt(basePrice).
		Mul(conditionMul).
		Mul(storageMul).
		Round(0).
		IntPart()

	return model.Quote{
		BasePrice:           basePrice,
		ConditionMultiplier: conditionMul,
		StorageMultiplier:   storageMul,
		ComputedPrice:       computed,
	}, nil
}

// Conditions lists the known condition keys in stable order.
func (e *Engine) Conditions() []string {
	keys := lo.Keys(e.tables.Condition)
	sort.Strings(keys)
	return keys
}

// Storages lists the known storage keys in stable order.
func (e *Engine) Storages() []string {
	keys := lo.Keys(e.tables.Storage)
	sort.Strings(keys)
	return keys
}
