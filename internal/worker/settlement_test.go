package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/vansh-choudhary01/CashPay/internal/adapter/razorpay"
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
	testhelpers "github.com/vansh-choudhary01/CashPay/internal/test"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func unsettledOrder() model.Order {
	intent := "order_" + uuid.NewString()
	return model.Order{
		ID:               uuid.New(),
		Type:             model.OrderTypeSell,
		Status:           model.OrderStatusInspected,
		PaymentIntentRef: &intent,
	}
}

func TestNewSettlementPollerDefaults(t *testing.T) {
	poller := NewSettlementPoller(&testhelpers.WorkerFacadeStub{}, time.Second, time.Minute, 0, 0, testLogger())
	if poller.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", poller.batchSize)
	}
	if poller.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", poller.workers)
	}
}

func TestSettlementPollerSettlesOrders(t *testing.T) {
	order := unsettledOrder()
	facade := &testhelpers.WorkerFacadeStub{Batches: [][]model.Order{{order}}}
	poller := NewSettlementPoller(facade, 10*time.Millisecond, time.Minute, 1, 1, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		settled := len(facade.Settled) > 0
		facade.Unlock()
		if settled {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for settlement")
		case <-time.After(10 * time.Millisecond):
		}
	}

	poller.Stop()
	facade.Lock()
	defer facade.Unlock()
	if facade.Settled[0].OrderID != order.ID {
		t.Fatalf("settled unexpected order %s", facade.Settled[0].OrderID)
	}
}

func TestSettlementPollerRespectsCutoff(t *testing.T) {
	settleAfter := 5 * time.Minute
	var gotCutoff atomic.Value
	facade := &testhelpers.WorkerFacadeStub{
		UnsettledFn: func(_ context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
			gotCutoff.Store(olderThan)
			return nil, nil
		},
	}
	poller := NewSettlementPoller(facade, 10*time.Millisecond, settleAfter, 1, 1, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for gotCutoff.Load() == nil {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for poll")
		case <-time.After(10 * time.Millisecond):
		}
	}
	poller.Stop()

	cutoff := gotCutoff.Load().(time.Time)
	if time.Since(cutoff) < settleAfter-time.Second {
		t.Fatalf("cutoff %s not far enough in the past", cutoff)
	}
}

func TestSettlementPollerHandlesRateLimiting(t *testing.T) {
	order := unsettledOrder()
	attempts := int32(0)
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.Order{{order}, {order}},
		SettleFn: func(_ context.Context, o *model.Order) (*model.Order, error) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return nil, razorpay.RateLimitError{RetryAfter: 10 * time.Millisecond}
			}
			settled := *o
			settled.Status = model.OrderStatusPaid
			return &settled, nil
		},
	}

	poller := NewSettlementPoller(facade, 5*time.Millisecond, time.Minute, 1, 1, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&attempts) < 2 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for retry")
		case <-time.After(10 * time.Millisecond):
		}
	}
	poller.Stop()
}

func TestSettlementPollerSkipsUncapturedPayments(t *testing.T) {
	order := unsettledOrder()
	attempts := int32(0)
	facade := &testhelpers.WorkerFacadeStub{
		Batches: [][]model.Order{{order}},
		SettleFn: func(context.Context, *model.Order) (*model.Order, error) {
			atomic.AddInt32(&attempts, 1)
			return nil, razorpay.ErrNoSettledPayment
		},
	}

	poller := NewSettlementPoller(facade, 5*time.Millisecond, time.Minute, 1, 1, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&attempts) == 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for settlement attempt")
		case <-time.After(10 * time.Millisecond):
		}
	}
	poller.Stop()
}

func TestSettlementPollerStopWithoutStart(t *testing.T) {
	poller := NewSettlementPoller(&testhelpers.WorkerFacadeStub{}, time.Second, time.Minute, 1, 1, testLogger())
	poller.Stop()
}
