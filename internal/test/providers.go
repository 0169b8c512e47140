package test

import (
	"context"

	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
)

// PaymentProviderStub fakes the payment provider for tests.
type PaymentProviderStub struct {
	CreateFn func(context.Context, model.PaymentIntentRequest) (*model.PaymentIntent, error)
	FetchFn  func(context.Context, string) (string, error)
	Intent   *model.PaymentIntent
	Captured string
	Err      error
}

// CreateIntent returns the configured intent or a deterministic default.
func (s PaymentProviderStub) CreateIntent(ctx context.Context, req model.PaymentIntentRequest) (*model.PaymentIntent, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Intent != nil {
		return s.Intent, nil
	}
	return &model.PaymentIntent{IntentRef: "order_" + req.Receipt, ProviderAmount: req.Amount, ProviderCurrency: req.Currency}, nil
}

// FetchSettledPayment returns the configured captured payment reference.
func (s PaymentProviderStub) FetchSettledPayment(ctx context.Context, intentRef string) (string, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, intentRef)
	}
	if s.Err != nil {
		return "", s.Err
	}
	if s.Captured != "" {
		return s.Captured, nil
	}
	return "pay_captured", nil
}

// ReplayGuardStub records processed payment references in-memory.
type ReplayGuardStub struct {
	Seen map[string]bool
	Err  error
}

// MarkProcessed reports first sight of the reference.
func (s *ReplayGuardStub) MarkProcessed(ctx context.Context, paymentRef string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	if s.Seen == nil {
		s.Seen = make(map[string]bool)
	}
	if s.Seen[paymentRef] {
		return false, nil
	}
	s.Seen[paymentRef] = true
	return true, nil
}

// HealthCheckerStub reports configured storage readiness.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}
