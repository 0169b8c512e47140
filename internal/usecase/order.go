package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
	"github.com/vansh-choudhary01/CashPay/internal/domain/repository"
	"github.com/vansh-choudhary01/CashPay/internal/pricing"
)

// CatalogGateway resolves accessory unit prices from the catalog collaborator.
type CatalogGateway interface {
	UnitPrice(ctx context.Context, productID string) (int64, error)
}

// paymentSources returns the states confirmPayment may move from. Trade-ins
// are paid out after inspection; accessory purchases are prepaid.
func paymentSources(orderType model.OrderType) []model.OrderStatus {
	if orderType == model.OrderTypePurchase {
		return []model.OrderStatus{model.OrderStatusCreated, model.OrderStatusScheduled}
	}
	return []model.OrderStatus{model.OrderStatusInspected}
}

var cancellableStates = []model.OrderStatus{
	model.OrderStatusCreated,
	model.OrderStatusScheduled,
	model.OrderStatusPickedUp,
	model.OrderStatusInspected,
}

// OrderUseCase owns the order lifecycle. It is the sole writer of order
// status and payment references; every transition funnels through the
// repository's compare-and-set.
type OrderUseCase struct {
	orders  repository.OrderRepository
	quotes  *pricing.Engine
	catalog CatalogGateway
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, quotes *pricing.Engine, catalog CatalogGateway) *OrderUseCase {
	return &OrderUseCase{orders: orders, quotes: quotes, catalog: catalog}
}

// CreateSell quotes the device and persists a trade-in order at the quoted
// price. OwnerRef may be nil for anonymous sell-in flows.
func (u *OrderUseCase) CreateSell(ctx context.Context, ownerRef *string, device model.SellDetails, basePrice int64) (*model.Order, error) {
	quote, err := u.quotes.Quote(basePrice, device.Condition, device.Storage)
	if err != nil {
		return nil, err
	}

	return u.orders.Create(ctx, repository.OrderDraft{
		Type:     model.OrderTypeSell,
		OwnerRef: ownerRef,
		Sell:     &device,
		Price:    quote.ComputedPrice,
	})
}

// CreatePurchase persists an accessory order priced from the catalog.
func (u *OrderUseCase) CreatePurchase(ctx context.Context, ownerRef *string, productID string, quantity int) (*model.Order, error) {
	if productID == "" || quantity <= 0 {
		return nil, fmt.Errorf("product id and positive quantity required: %w", domainErrors.ErrValidation)
	}

	unitPrice, err := u.catalog.UnitPrice(ctx, productID)
	if err != nil {
		return nil, err
	}

	return u.orders.Create(ctx, repository.OrderDraft{
		Type:     model.OrderTypePurchase,
		OwnerRef: ownerRef,
		Purchase: &model.PurchaseDetails{ProductID: productID, Quantity: quantity},
		Price:    unitPrice * int64(quantity),
	})
}

// Get returns the order by id.
func (u *OrderUseCase) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return u.orders.Get(ctx, id)
}

// ListByOwner returns the subject's orders, newest first.
func (u *OrderUseCase) ListByOwner(ctx context.Context, ownerRef string) ([]model.Order, error) {
	if ownerRef == "" {
		return nil, fmt.Errorf("owner ref required: %w", domainErrors.ErrValidation)
	}
	return u.orders.List(ctx, repository.OrderFilter{OwnerRef: &ownerRef})
}

// SchedulePickup books the doorstep pickup slot. Allowed from created only.
func (u *OrderUseCase) SchedulePickup(ctx context.Context, id uuid.UUID, pickupAt time.Time, address string) (*model.Order, error) {
	if pickupAt.IsZero() || address == "" {
		return nil, fmt.Errorf("pickup time and address required: %w", domainErrors.ErrValidation)
	}
	return u.transition(ctx, id,
		[]model.OrderStatus{model.OrderStatusCreated},
		model.OrderStatusScheduled,
		repository.StatusPatch{PickupAt: &pickupAt, Address: &address},
	)
}

// MarkPickedUp records that the courier collected the device.
func (u *OrderUseCase) MarkPickedUp(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return u.transition(ctx, id,
		[]model.OrderStatus{model.OrderStatusScheduled},
		model.OrderStatusPickedUp,
		repository.StatusPatch{},
	)
}

// RecordInspection finalizes the physical inspection. A final price may
// lower the payout for condition discrepancies, but never raise it above
// the originally quoted price.
func (u *OrderUseCase) RecordInspection(ctx context.Context, id uuid.UUID, finalPrice *int64) (*model.Order, error) {
	patch := repository.StatusPatch{}
	if finalPrice != nil {
		order, err := u.orders.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if *finalPrice < 0 {
			return nil, fmt.Errorf("final price must be non-negative: %w", domainErrors.ErrValidation)
		}
		if *finalPrice > order.QuotedPrice {
			return nil, fmt.Errorf("final price %d exceeds quoted %d: %w", *finalPrice, order.QuotedPrice, domainErrors.ErrValidation)
		}
		patch.Price = finalPrice
	}
	return u.transition(ctx, id,
		[]model.OrderStatus{model.OrderStatusPickedUp},
		model.OrderStatusInspected,
		patch,
	)
}

// ConfirmPayment settles the order with the verified payment reference.
// Idempotent: repeating a reference already stored on the order succeeds
// without a second transition, whatever the current status; a different
// reference once one is stored is a mismatch.
func (u *OrderUseCase) ConfirmPayment(ctx context.Context, id uuid.UUID, paymentRef string) (*model.Order, error) {
	if paymentRef == "" {
		return nil, fmt.Errorf("payment ref required: %w", domainErrors.ErrValidation)
	}

	order, err := u.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.confirmPayment(ctx, order, paymentRef, true)
}

func (u *OrderUseCase) confirmPayment(ctx context.Context, order *model.Order, paymentRef string, retryOnce bool) (*model.Order, error) {
	if stored := lo.FromPtr(order.PaymentRef); stored != "" {
		if stored == paymentRef {
			return order, nil
		}
		return nil, fmt.Errorf("order %s already paid with %s: %w", order.ID, stored, domainErrors.ErrPaymentMismatch)
	}

	allowed := paymentSources(order.Type)
	if !lo.Contains(allowed, order.Status) {
		return nil, fmt.Errorf("confirm payment from %s: %w", order.Status, domainErrors.ErrInvalidTransition)
	}

	updated, err := u.orders.UpdateStatus(ctx, order.ID, order.Status, model.OrderStatusPaid, repository.StatusPatch{
		PaymentRef: &paymentRef,
	})
	if err != nil {
		// The race may have been the same payment landing twice; one re-read
		// settles whether this call is the idempotent duplicate.
		if errors.Is(err, domainErrors.ErrConflict) && retryOnce {
			fresh, getErr := u.orders.Get(ctx, order.ID)
			if getErr != nil {
				return nil, getErr
			}
			return u.confirmPayment(ctx, fresh, paymentRef, false)
		}
		return nil, err
	}
	return updated, nil
}

// MarkDelivered closes a paid order.
func (u *OrderUseCase) MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return u.transition(ctx, id,
		[]model.OrderStatus{model.OrderStatusPaid},
		model.OrderStatusDelivered,
		repository.StatusPatch{},
	)
}

// Cancel aborts the order. Rejected once money has moved; paid orders are
// resolved forward or through a refund process outside this engine.
func (u *OrderUseCase) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error) {
	patch := repository.StatusPatch{}
	if reason != "" {
		patch.CancelReason = &reason
	}
	return u.transition(ctx, id, cancellableStates, model.OrderStatusCancelled, patch)
}

// UnsettledOrders lists orders with a payment intent still awaiting settlement.
func (u *OrderUseCase) UnsettledOrders(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	return u.orders.SelectUnsettled(ctx, olderThan, limit)
}

func parseOrderID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("order id %q: %w", raw, domainErrors.ErrValidation)
	}
	return id, nil
}

func (u *OrderUseCase) transition(ctx context.Context, id uuid.UUID, allowed []model.OrderStatus, next model.OrderStatus, patch repository.StatusPatch) (*model.Order, error) {
	order, err := u.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(allowed, order.Status) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, next, domainErrors.ErrInvalidTransition)
	}
	return u.orders.UpdateStatus(ctx, id, order.Status, next, patch)
}
