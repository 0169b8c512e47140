package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/currency"

	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
	"github.com/vansh-choudhary01/CashPay/internal/domain/repository"
	"github.com/vansh-choudhary01/CashPay/internal/pkg/signature"
)

// PaymentProvider is the outbound provider surface the payment flow needs.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, req model.PaymentIntentRequest) (*model.PaymentIntent, error)
	FetchSettledPayment(ctx context.Context, intentRef string) (string, error)
}

// ReplayGuard records processed payment references. MarkProcessed reports
// whether the reference was seen for the first time.
type ReplayGuard interface {
	MarkProcessed(ctx context.Context, paymentRef string) (bool, error)
}

// PaymentUseCase drives intent creation and callback verification. All money
// amounts are integer minor units and must match the order price exactly.
type PaymentUseCase struct {
	orders          *OrderUseCase
	repo            repository.OrderRepository
	provider        PaymentProvider
	signer          *signature.Signer
	guard           ReplayGuard
	providerTimeout time.Duration
	logger          *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(
	orders *OrderUseCase,
	repo repository.OrderRepository,
	provider PaymentProvider,
	signer *signature.Signer,
	guard ReplayGuard,
	providerTimeout time.Duration,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		orders:          orders,
		repo:            repo,
		provider:        provider,
		signer:          signer,
		guard:           guard,
		providerTimeout: providerTimeout,
		logger:          logger,
	}
}

// CreateIntent registers a payment intent with the provider for the order.
// The client restates the amount it showed the customer; any disagreement
// with the order price aborts the call.
func (u *PaymentUseCase) CreateIntent(ctx context.Context, orderID string, amount int64, currencyCode string) (*model.PaymentIntent, error) {
	if _, err := currency.ParseISO(currencyCode); err != nil {
		return nil, fmt.Errorf("currency %q: %w", currencyCode, domainErrors.ErrValidation)
	}

	id, err := parseOrderID(orderID)
	if err != nil {
		return nil, err
	}
	order, err := u.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == model.OrderStatusPaid || order.Status.Terminal() {
		return nil, fmt.Errorf("create intent for %s order: %w", order.Status, domainErrors.ErrInvalidTransition)
	}
	if amount != order.Price {
		return nil, fmt.Errorf("client amount %d, order price %d: %w", amount, order.Price, domainErrors.ErrAmountMismatch)
	}

	callCtx, cancel := context.WithTimeout(ctx, u.providerTimeout)
	defer cancel()

	intent, err := u.provider.CreateIntent(callCtx, model.PaymentIntentRequest{
		Amount:   order.Price,
		Currency: currencyCode,
		Receipt:  order.ID.String(),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("intent creation timed out: %w", domainErrors.ErrProviderUnavailable)
		}
		return nil, err
	}

	if _, err := u.repo.SetPaymentIntent(ctx, order.ID, intent.IntentRef); err != nil {
		return nil, err
	}
	return intent, nil
}

// Verify checks a signed payment callback and settles the matching order.
// The signature decides validity on its own: a valid payment against an
// order that cannot settle is escalated as a state conflict rather than
// rejected, so the money is never silently dropped.
func (u *PaymentUseCase) Verify(ctx context.Context, intentRef, paymentRef, claimedSignature string) (*model.VerificationResult, error) {
	if intentRef == "" || paymentRef == "" || claimedSignature == "" {
		return nil, fmt.Errorf("intent ref, payment ref and signature required: %w", domainErrors.ErrValidation)
	}

	if !u.signer.Verify(intentRef, paymentRef, claimedSignature) {
		return &model.VerificationResult{Valid: false}, nil
	}

	// Advisory only. The reference may reappear legitimately on retries and
	// idempotence is enforced by the order itself; a replay hit is a signal
	// worth logging, not a reason to reject.
	if firstSeen, err := u.guard.MarkProcessed(ctx, paymentRef); err != nil {
		u.logger.Warn("replay guard unavailable", slog.String("error", err.Error()))
	} else if !firstSeen {
		u.logger.Info("payment reference seen before", slog.String("payment_ref", paymentRef))
	}

	order, err := u.repo.GetByIntentRef(ctx, intentRef)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Error("valid payment for unknown intent",
				slog.String("intent_ref", intentRef),
				slog.String("payment_ref", paymentRef))
			return &model.VerificationResult{Valid: true}, fmt.Errorf("intent %s: %w", intentRef, domainErrors.ErrOrderStateConflict)
		}
		return nil, err
	}

	settled, err := u.orders.confirmPayment(ctx, order, paymentRef, true)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidTransition) {
			u.logger.Error("valid payment for untransitionable order",
				slog.String("order_id", order.ID.String()),
				slog.String("status", string(order.Status)),
				slog.String("payment_ref", paymentRef))
			return &model.VerificationResult{Valid: true, Order: order}, fmt.Errorf("order %s in %s: %w", order.ID, order.Status, domainErrors.ErrOrderStateConflict)
		}
		return nil, err
	}

	return &model.VerificationResult{Valid: true, Order: settled}, nil
}

// Settle asks the provider for a captured payment on the intent and, when
// one exists, confirms it on the order. Used by the settlement poller for
// orders whose callback never arrived.
func (u *PaymentUseCase) Settle(ctx context.Context, order *model.Order) (*model.Order, error) {
	if order.PaymentIntentRef == nil {
		return nil, fmt.Errorf("order %s has no payment intent: %w", order.ID, domainErrors.ErrValidation)
	}

	callCtx, cancel := context.WithTimeout(ctx, u.providerTimeout)
	defer cancel()

	paymentRef, err := u.provider.FetchSettledPayment(callCtx, *order.PaymentIntentRef)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("settlement lookup timed out: %w", domainErrors.ErrVerificationTimeout)
		}
		return nil, err
	}

	return u.orders.confirmPayment(ctx, order, paymentRef, true)
}
