package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
	"github.com/vansh-choudhary01/CashPay/internal/pkg/subject"
	"github.com/vansh-choudhary01/CashPay/internal/usecase"
)

// HealthChecker reports storage availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MarketplaceFacade aggregates the application use cases behind a single
// surface consumed by the HTTP layer and the settlement worker.
type MarketplaceFacade struct {
	quotes   *usecase.QuoteUseCase
	orders   *usecase.OrderUseCase
	payments *usecase.PaymentUseCase
	subjects *subject.Parser
	health   HealthChecker
}

// NewMarketplaceFacade constructs MarketplaceFacade.
func NewMarketplaceFacade(
	quotes *usecase.QuoteUseCase,
	orders *usecase.OrderUseCase,
	payments *usecase.PaymentUseCase,
	subjects *subject.Parser,
	health HealthChecker,
) *MarketplaceFacade {
	return &MarketplaceFacade{
		quotes:   quotes,
		orders:   orders,
		payments: payments,
		subjects: subjects,
		health:   health,
	}
}

func (f *MarketplaceFacade) Quote(basePrice int64, condition, storage string) (model.Quote, error) {
	return f.quotes.Quote(basePrice, condition, storage)
}

func (f *MarketplaceFacade) QuoteAttributes() (conditions, storages []string) {
	return f.quotes.Attributes()
}

func (f *MarketplaceFacade) CreateSellOrder(ctx context.Context, ownerRef *string, device model.SellDetails, basePrice int64) (*model.Order, error) {
	return f.orders.CreateSell(ctx, ownerRef, device, basePrice)
}

func (f *MarketplaceFacade) CreatePurchaseOrder(ctx context.Context, ownerRef *string, productID string, quantity int) (*model.Order, error) {
	return f.orders.CreatePurchase(ctx, ownerRef, productID, quantity)
}

func (f *MarketplaceFacade) Order(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *MarketplaceFacade) Orders(ctx context.Context, ownerRef string) ([]model.Order, error) {
	return f.orders.ListByOwner(ctx, ownerRef)
}

func (f *MarketplaceFacade) SchedulePickup(ctx context.Context, id uuid.UUID, pickupAt time.Time, address string) (*model.Order, error) {
	return f.orders.SchedulePickup(ctx, id, pickupAt, address)
}

func (f *MarketplaceFacade) MarkPickedUp(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return f.orders.MarkPickedUp(ctx, id)
}

func (f *MarketplaceFacade) RecordInspection(ctx context.Context, id uuid.UUID, finalPrice *int64) (*model.Order, error) {
	return f.orders.RecordInspection(ctx, id, finalPrice)
}

func (f *MarketplaceFacade) MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return f.orders.MarkDelivered(ctx, id)
}

func (f *MarketplaceFacade) CancelOrder(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error) {
	return f.orders.Cancel(ctx, id, reason)
}

func (f *MarketplaceFacade) CreatePaymentIntent(ctx context.Context, orderID string, amount int64, currencyCode string) (*model.PaymentIntent, error) {
	return f.payments.CreateIntent(ctx, orderID, amount, currencyCode)
}

func (f *MarketplaceFacade) VerifyPayment(ctx context.Context, intentRef, paymentRef, claimedSignature string) (*model.VerificationResult, error) {
	return f.payments.Verify(ctx, intentRef, paymentRef, claimedSignature)
}

func (f *MarketplaceFacade) UnsettledOrders(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	return f.orders.UnsettledOrders(ctx, olderThan, limit)
}

func (f *MarketplaceFacade) SettleOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	return f.payments.Settle(ctx, order)
}

func (f *MarketplaceFacade) ParseToken(token string) (string, error) {
	return f.subjects.Parse(token)
}

func (f *MarketplaceFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
