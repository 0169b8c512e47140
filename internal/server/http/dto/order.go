package dto

import "time"

// SellOrderRequest describes a device trade-in submission.
type SellOrderRequest struct {
	Category  string `json:"category"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Storage   string `json:"storage"`
	Condition string `json:"condition"`
	BasePrice int64  `json:"base_price"`
}

// PurchaseOrderRequest describes an accessory order submission.
type PurchaseOrderRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ScheduleRequest books the doorstep pickup slot.
type ScheduleRequest struct {
	PickupAt time.Time `json:"pickup_at"`
	Address  string    `json:"address"`
}

// InspectionRequest records the inspection outcome. FinalPrice is optional;
// when absent the quoted price stands.
type InspectionRequest struct {
	FinalPrice *int64 `json:"final_price,omitempty"`
}

// CancelRequest carries an optional cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// SellDetailsResponse echoes the traded device attributes.
type SellDetailsResponse struct {
	Category  string `json:"category"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Storage   string `json:"storage"`
	Condition string `json:"condition"`
}

// PurchaseDetailsResponse echoes the purchased accessory line.
type PurchaseDetailsResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID               string                   `json:"id"`
	Type             string                   `json:"type"`
	Status           string                   `json:"status"`
	Price            int64                    `json:"price"`
	QuotedPrice      int64                    `json:"quoted_price"`
	Sell             *SellDetailsResponse     `json:"sell,omitempty"`
	Purchase         *PurchaseDetailsResponse `json:"purchase,omitempty"`
	PickupAt         *time.Time               `json:"pickup_at,omitempty"`
	Address          *string                  `json:"address,omitempty"`
	PaymentIntentRef *string                  `json:"payment_intent_ref,omitempty"`
	PaymentRef       *string                  `json:"payment_ref,omitempty"`
	CancelReason     *string                  `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}
