package model

// PaymentIntentRequest describes a provider-side reservation to create.
type PaymentIntentRequest struct {
	Amount   int64
	Currency string
	Receipt  string
}

// PaymentIntent is a provider-side reservation of an expected payment.
type PaymentIntent struct {
	IntentRef        string
	ProviderAmount   int64
	ProviderCurrency string
}

// VerificationResult is the outcome of validating a payment callback.
// Valid reflects the signature check only; Order is populated when the
// settlement reached (or already had reached) the order.
type VerificationResult struct {
	Valid bool
	Order *Order
}
