package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/vansh-choudhary01/CashPay/internal/adapter/razorpay"
	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
)

// SettlementFacade exposes the subset of application functionality required by the poller.
type SettlementFacade interface {
	UnsettledOrders(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error)
	SettleOrder(ctx context.Context, order *model.Order) (*model.Order, error)
}

// SettlementPoller periodically reconciles orders whose payment callback
// never arrived by asking the provider for captured payments directly.
type SettlementPoller struct {
	facade       SettlementFacade
	pollInterval time.Duration
	settleAfter  time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSettlementPoller constructs the settlement worker pool.
func NewSettlementPoller(facade SettlementFacade, pollInterval, settleAfter time.Duration, batchSize, workers int, logger *slog.Logger) *SettlementPoller {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &SettlementPoller{
		facade:       facade,
		pollInterval: pollInterval,
		settleAfter:  settleAfter,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background reconciliation.
func (p *SettlementPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *SettlementPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *SettlementPoller) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *SettlementPoller) fetchAndDispatch(ctx context.Context) {
	cutoff := time.Now().Add(-p.settleAfter)
	orders, err := p.facade.UnsettledOrders(ctx, cutoff, p.batchSize)
	if err != nil {
		p.logger.Error("fetch unsettled orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *SettlementPoller) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleOrder(ctx, order)
		}
	}
}

func (p *SettlementPoller) handleOrder(ctx context.Context, order model.Order) {
	settled, err := p.facade.SettleOrder(ctx, &order)
	if err != nil {
		var rateLimited razorpay.RateLimitError
		switch {
		case errors.As(err, &rateLimited):
			p.logger.Warn("provider rate limited", slog.Duration("retry_after", rateLimited.RetryAfter))
			time.Sleep(rateLimited.RetryAfter)
		case errors.Is(err, razorpay.ErrNoSettledPayment):
			// Nothing captured yet; the next poll will retry.
		case errors.Is(err, domainErrors.ErrConflict), errors.Is(err, domainErrors.ErrPaymentMismatch):
			p.logger.Error("settlement conflict", slog.String("order_id", order.ID.String()), slog.String("error", err.Error()))
		default:
			p.logger.Error("settlement failed", slog.String("order_id", order.ID.String()), slog.String("error", err.Error()))
		}
		return
	}
	p.logger.Info("order settled by reconciliation",
		slog.String("order_id", settled.ID.String()),
		slog.String("payment_ref", lo.FromPtr(settled.PaymentRef)))
}
