package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
)

// QuoteFacadeStub provides controllable behaviour for quote endpoints.
type QuoteFacadeStub struct {
	QuoteFn      func(int64, string, string) (model.Quote, error)
	AttributesFn func() ([]string, []string)
}

// Quote delegates to the provided function or returns a pass-through quote.
func (s QuoteFacadeStub) Quote(basePrice int64, condition, storage string) (model.Quote, error) {
	if s.QuoteFn != nil {
		return s.QuoteFn(basePrice, condition, storage)
	}
	return model.Quote{BasePrice: basePrice, ComputedPrice: basePrice}, nil
}

// QuoteAttributes returns configured attribute lists or defaults.
func (s QuoteFacadeStub) QuoteAttributes() ([]string, []string) {
	if s.AttributesFn != nil {
		return s.AttributesFn()
	}
	return []string{"Good"}, []string{"128 GB"}
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateSellFn     func(context.Context, *string, model.SellDetails, int64) (*model.Order, error)
	CreatePurchaseFn func(context.Context, *string, string, int) (*model.Order, error)
	OrderFn          func(context.Context, uuid.UUID) (*model.Order, error)
	OrdersFn         func(context.Context, string) ([]model.Order, error)
	ScheduleFn       func(context.Context, uuid.UUID, time.Time, string) (*model.Order, error)
	PickupFn         func(context.Context, uuid.UUID) (*model.Order, error)
	InspectionFn     func(context.Context, uuid.UUID, *int64) (*model.Order, error)
	DeliverFn        func(context.Context, uuid.UUID) (*model.Order, error)
	CancelFn         func(context.Context, uuid.UUID, string) (*model.Order, error)
}

func defaultOrder(id uuid.UUID, status model.OrderStatus) *model.Order {
	return &model.Order{ID: id, Type: model.OrderTypeSell, Status: status}
}

// CreateSellOrder delegates to the configured function or returns a created order.
func (s OrderFacadeStub) CreateSellOrder(ctx context.Context, ownerRef *string, device model.SellDetails, basePrice int64) (*model.Order, error) {
	if s.CreateSellFn != nil {
		return s.CreateSellFn(ctx, ownerRef, device, basePrice)
	}
	order := defaultOrder(uuid.New(), model.OrderStatusCreated)
	order.OwnerRef = ownerRef
	order.Sell = &device
	order.Price = basePrice
	order.QuotedPrice = basePrice
	return order, nil
}

// CreatePurchaseOrder delegates to the configured function or returns a created order.
func (s OrderFacadeStub) CreatePurchaseOrder(ctx context.Context, ownerRef *string, productID string, quantity int) (*model.Order, error) {
	if s.CreatePurchaseFn != nil {
		return s.CreatePurchaseFn(ctx, ownerRef, productID, quantity)
	}
	order := defaultOrder(uuid.New(), model.OrderStatusCreated)
	order.Type = model.OrderTypePurchase
	order.OwnerRef = ownerRef
	order.Purchase = &model.PurchaseDetails{ProductID: productID, Quantity: quantity}
	return order, nil
}

// Order returns the configured order or a default created one.
func (s OrderFacadeStub) Order(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return defaultOrder(id, model.OrderStatusCreated), nil
}

// Orders returns the configured list.
func (s OrderFacadeStub) Orders(ctx context.Context, ownerRef string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, ownerRef)
	}
	return []model.Order{*defaultOrder(uuid.New(), model.OrderStatusCreated)}, nil
}

// SchedulePickup delegates or returns a scheduled order.
func (s OrderFacadeStub) SchedulePickup(ctx context.Context, id uuid.UUID, pickupAt time.Time, address string) (*model.Order, error) {
	if s.ScheduleFn != nil {
		return s.ScheduleFn(ctx, id, pickupAt, address)
	}
	order := defaultOrder(id, model.OrderStatusScheduled)
	order.PickupAt = &pickupAt
	order.Address = &address
	return order, nil
}

// MarkPickedUp delegates or returns a picked up order.
func (s OrderFacadeStub) MarkPickedUp(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.PickupFn != nil {
		return s.PickupFn(ctx, id)
	}
	return defaultOrder(id, model.OrderStatusPickedUp), nil
}

// RecordInspection delegates or returns an inspected order.
func (s OrderFacadeStub) RecordInspection(ctx context.Context, id uuid.UUID, finalPrice *int64) (*model.Order, error) {
	if s.InspectionFn != nil {
		return s.InspectionFn(ctx, id, finalPrice)
	}
	order := defaultOrder(id, model.OrderStatusInspected)
	if finalPrice != nil {
		order.Price = *finalPrice
	}
	return order, nil
}

// MarkDelivered delegates or returns a delivered order.
func (s OrderFacadeStub) MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, id)
	}
	return defaultOrder(id, model.OrderStatusDelivered), nil
}

// CancelOrder delegates or returns a cancelled order.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id, reason)
	}
	order := defaultOrder(id, model.OrderStatusCancelled)
	if reason != "" {
		order.CancelReason = &reason
	}
	return order, nil
}

// PaymentFacadeStub simulates payment operations.
type PaymentFacadeStub struct {
	IntentFn func(context.Context, string, int64, string) (*model.PaymentIntent, error)
	VerifyFn func(context.Context, string, string, string) (*model.VerificationResult, error)
}

// CreatePaymentIntent delegates or returns a default intent.
func (s PaymentFacadeStub) CreatePaymentIntent(ctx context.Context, orderID string, amount int64, currencyCode string) (*model.PaymentIntent, error) {
	if s.IntentFn != nil {
		return s.IntentFn(ctx, orderID, amount, currencyCode)
	}
	return &model.PaymentIntent{IntentRef: "order_test", ProviderAmount: amount, ProviderCurrency: currencyCode}, nil
}

// VerifyPayment delegates or reports a valid settled payment.
func (s PaymentFacadeStub) VerifyPayment(ctx context.Context, intentRef, paymentRef, claimedSignature string) (*model.VerificationResult, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, intentRef, paymentRef, claimedSignature)
	}
	ref := paymentRef
	return &model.VerificationResult{Valid: true, Order: &model.Order{ID: uuid.New(), Status: model.OrderStatusPaid, PaymentRef: &ref}}, nil
}

// AuthFacadeStub resolves tokens for tests.
type AuthFacadeStub struct {
	ParseFn func(string) (string, error)
}

// ParseToken delegates or echoes a fixed subject.
func (s AuthFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "subject-1", nil
}

// HealthFacadeStub reports configured readiness.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// MarketplaceFacadeStub aggregates all facade stubs for router level tests.
type MarketplaceFacadeStub struct {
	QuoteFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
	AuthFacadeStub
	HealthFacadeStub
}

// SettlementCall records a settlement attempt made by the worker.
type SettlementCall struct {
	OrderID uuid.UUID
}

// WorkerFacadeStub mimics worker interactions with the marketplace facade.
type WorkerFacadeStub struct {
	Batches       [][]model.Order
	UnsettledFn   func(context.Context, time.Time, int) ([]model.Order, error)
	SettleFn      func(context.Context, *model.Order) (*model.Order, error)
	Settled       []SettlementCall
	mu            sync.Mutex
	batchesPolled int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// UnsettledOrders returns batches from the configured queue.
func (s *WorkerFacadeStub) UnsettledOrders(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	if s.UnsettledFn != nil {
		return s.UnsettledFn(ctx, olderThan, limit)
	}
	call := atomic.AddInt32(&s.batchesPolled, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// SettleOrder records the attempt and marks the order paid.
func (s *WorkerFacadeStub) SettleOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.SettleFn != nil {
		return s.SettleFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Settled = append(s.Settled, SettlementCall{OrderID: order.ID})
	settled := *order
	settled.Status = model.OrderStatusPaid
	ref := "pay_settled"
	settled.PaymentRef = &ref
	return &settled, nil
}
