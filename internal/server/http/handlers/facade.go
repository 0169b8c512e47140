package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
)

// QuoteFacade exposes instant quote operations.
type QuoteFacade interface {
	Quote(basePrice int64, condition, storage string) (model.Quote, error)
	QuoteAttributes() (conditions, storages []string)
}

// OrderFacade encapsulates order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	CreateSellOrder(ctx context.Context, ownerRef *string, device model.SellDetails, basePrice int64) (*model.Order, error)
	CreatePurchaseOrder(ctx context.Context, ownerRef *string, productID string, quantity int) (*model.Order, error)
	Order(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Orders(ctx context.Context, ownerRef string) ([]model.Order, error)
	SchedulePickup(ctx context.Context, id uuid.UUID, pickupAt time.Time, address string) (*model.Order, error)
	MarkPickedUp(ctx context.Context, id uuid.UUID) (*model.Order, error)
	RecordInspection(ctx context.Context, id uuid.UUID, finalPrice *int64) (*model.Order, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error)
}

// PaymentFacade provides payment intent and verification operations.
type PaymentFacade interface {
	CreatePaymentIntent(ctx context.Context, orderID string, amount int64, currencyCode string) (*model.PaymentIntent, error)
	VerifyPayment(ctx context.Context, intentRef, paymentRef, claimedSignature string) (*model.VerificationResult, error)
}

// AuthFacade resolves subject tokens.
type AuthFacade interface {
	ParseToken(token string) (string, error)
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// MarketplaceFacade aggregates the full set of operations used across handlers.
type MarketplaceFacade interface {
	QuoteFacade
	OrderFacade
	PaymentFacade
	AuthFacade
	HealthFacade
}
