package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderType discriminates the two order shapes handled by the marketplace.
type OrderType string

const (
	OrderTypeSell     OrderType = "sell"
	OrderTypePurchase OrderType = "purchase"
)

// OrderStatus describes the settlement lifecycle of an order.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusScheduled OrderStatus = "scheduled"
	OrderStatusPickedUp  OrderStatus = "picked_up"
	OrderStatusInspected OrderStatus = "inspected"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusCreated:   {},
	OrderStatusScheduled: {},
	OrderStatusPickedUp:  {},
	OrderStatusInspected: {},
	OrderStatusPaid:      {},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ToOrderStatus converts a stored string into a known status.
func ToOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := validOrderStatuses[status]
	return status, ok
}

// Terminal reports whether no further lifecycle event is permitted.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// SellDetails carries the device attributes of a trade-in order.
type SellDetails struct {
	Category  string
	Brand     string
	Model     string
	Storage   string
	Condition string
}

// PurchaseDetails carries the accessory attributes of a purchase order.
type PurchaseDetails struct {
	ProductID string
	Quantity  int
}

// Order represents a trade-in or a purchase advancing through the settlement lifecycle.
// Exactly one of Sell/Purchase is set, matching Type. Prices are integer minor
// currency units. Status and PaymentRef are written only by the lifecycle manager.
type Order struct {
	ID       uuid.UUID
	Type     OrderType
	OwnerRef *string

	Sell     *SellDetails
	Purchase *PurchaseDetails

	Price       int64
	QuotedPrice int64

	Status   OrderStatus
	PickupAt *time.Time
	Address  *string

	PaymentIntentRef *string
	PaymentRef       *string
	CancelReason     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
