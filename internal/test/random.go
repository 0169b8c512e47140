package test

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

// RandomOwnerRef returns a pseudo-random subject reference.
func RandomOwnerRef() string {
	return fmt.Sprintf("user-%s", gofakeit.UUID())
}

// RandomPaymentRef returns a provider-shaped payment reference.
func RandomPaymentRef() string {
	return "pay_" + gofakeit.LetterN(14)
}

// RandomIntentRef returns a provider-shaped intent reference.
func RandomIntentRef() string {
	return "order_" + gofakeit.LetterN(14)
}

// RandomAddress returns a plausible pickup address.
func RandomAddress() string {
	return gofakeit.Street() + ", " + gofakeit.City()
}
