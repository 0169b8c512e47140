package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
)

// OrderDraft carries everything needed to persist a new order.
// Exactly one of Sell/Purchase must be set, matching Type.
type OrderDraft struct {
	Type     model.OrderType
	OwnerRef *string
	Sell     *model.SellDetails
	Purchase *model.PurchaseDetails
	Price    int64
}

// StatusPatch carries the optional field updates applied together with a
// status transition. Nil fields are left untouched.
type StatusPatch struct {
	Price        *int64
	PickupAt     *time.Time
	Address      *string
	PaymentRef   *string
	CancelReason *string
}

// OrderFilter narrows List results. AND semantics across fields,
// OR semantics within each slice.
type OrderFilter struct {
	OwnerRef *string
	Types    []model.OrderType
	Statuses []model.OrderStatus
}

// OrderRepository describes persistence operations with orders. It is the
// only path through which order state is read or written; UpdateStatus is
// the single concurrency-safety primitive the lifecycle depends on.
type OrderRepository interface {
	// Create persists a draft with a fresh ID, createdAt and status created.
	Create(ctx context.Context, draft OrderDraft) (*model.Order, error)

	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetByIntentRef(ctx context.Context, intentRef string) (*model.Order, error)

	// UpdateStatus performs an atomic compare-and-set: the write succeeds only
	// if the stored status still equals expected. A lost race yields ErrConflict
	// and leaves the row unchanged.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next model.OrderStatus, patch StatusPatch) (*model.Order, error)

	// SetPaymentIntent records the provider intent reference. Plain field
	// update, not a lifecycle transition.
	SetPaymentIntent(ctx context.Context, id uuid.UUID, intentRef string) (*model.Order, error)

	List(ctx context.Context, filter OrderFilter) ([]model.Order, error)

	// SelectUnsettled returns orders holding a payment intent that are still in
	// a pre-paid state and have not been touched since olderThan.
	SelectUnsettled(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error)
}
