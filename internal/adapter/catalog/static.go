package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
)

// PriceSource resolves accessory unit prices. The catalog itself is an
// external collaborator; only this lookup contract is consumed here.
type PriceSource interface {
	UnitPrice(ctx context.Context, productID string) (int64, error)
}

// Static serves prices from an in-memory table, optionally loaded from a
// JSON file of productID -> minor-unit price.
type Static struct {
	prices map[string]int64
}

// NewStatic builds Static over the given table. The table is read-only
// after construction.
func NewStatic(prices map[string]int64) *Static {
	if prices == nil {
		prices = map[string]int64{}
	}
	return &Static{prices: prices}
}

// LoadStatic reads a JSON price table from path. An empty path yields an
// empty catalog.
func LoadStatic(path string) (*Static, error) {
	if path == "" {
		return NewStatic(nil), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var prices map[string]int64
	if err := json.Unmarshal(content, &prices); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return NewStatic(prices), nil
}

func (s *Static) UnitPrice(_ context.Context, productID string) (int64, error) {
	price, ok := s.prices[productID]
	if !ok {
		return 0, fmt.Errorf("product %q: %w", productID, domainErrors.ErrNotFound)
	}
	return price, nil
}
