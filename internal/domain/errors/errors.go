package errors

import "errors"

var (
	// ErrNotFound indicates the requested order does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or missing input; local failure, not retried.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownAttribute indicates a condition or storage key absent from the multiplier tables.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrInvalidTransition indicates an illegal lifecycle move; surfaced to the caller, never auto-retried.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrConflict indicates a lost compare-and-set race; the caller may re-read and retry.
	ErrConflict = errors.New("conflicting concurrent update")
	// ErrPaymentMismatch indicates a conflicting payment reference; fatal for the order, needs manual review.
	ErrPaymentMismatch = errors.New("payment reference mismatch")
	// ErrAmountMismatch indicates a client-supplied amount that does not match the order price.
	ErrAmountMismatch = errors.New("amount mismatch")
	// ErrProviderUnavailable indicates a transient payment provider failure; retryable with backoff.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	// ErrVerificationTimeout indicates a timed out verification call; the provider side may still have landed.
	ErrVerificationTimeout = errors.New("verification timed out")
	// ErrOrderStateConflict indicates an accepted payment for an order that can no longer take it.
	// Must be escalated for reconciliation, never dropped.
	ErrOrderStateConflict = errors.New("order cannot accept settled payment")
)
