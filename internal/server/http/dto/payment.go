package dto

// PaymentIntentRequest asks the provider to open a payment intent for an
// order. Amount restates what the client showed the customer, in minor units.
type PaymentIntentRequest struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentIntentResponse returns the provider intent reference.
type PaymentIntentResponse struct {
	IntentRef string `json:"intent_ref"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// PaymentVerifyRequest carries the signed provider callback. Field names
// follow the provider checkout payload.
type PaymentVerifyRequest struct {
	IntentRef  string `json:"razorpay_order_id"`
	PaymentRef string `json:"razorpay_payment_id"`
	Signature  string `json:"razorpay_signature"`
}

// PaymentVerifyResponse reports the verification outcome.
type PaymentVerifyResponse struct {
	Valid bool           `json:"valid"`
	Order *OrderResponse `json:"order,omitempty"`
}
