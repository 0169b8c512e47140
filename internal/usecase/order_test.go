package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
	"github.com/vansh-choudhary01/CashPay/internal/domain/repository"
	"github.com/vansh-choudhary01/CashPay/internal/pricing"
	testhelpers "github.com/vansh-choudhary01/CashPay/internal/test"
)

type stubOrderRepository struct {
	createFn       func(context.Context, repository.OrderDraft) (*model.Order, error)
	getFn          func(context.Context, uuid.UUID) (*model.Order, error)
	getByIntentFn  func(context.Context, string) (*model.Order, error)
	updateStatusFn func(context.Context, uuid.UUID, model.OrderStatus, model.OrderStatus, repository.StatusPatch) (*model.Order, error)
	setIntentFn    func(context.Context, uuid.UUID, string) (*model.Order, error)
	listFn         func(context.Context, repository.OrderFilter) ([]model.Order, error)
	unsettledFn    func(context.Context, time.Time, int) ([]model.Order, error)
}

func (s stubOrderRepository) Create(ctx context.Context, draft repository.OrderDraft) (*model.Order, error) {
	if s.createFn == nil {
		panic("not implemented")
	}
	return s.createFn(ctx, draft)
}

func (s stubOrderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.getFn == nil {
		panic("not implemented")
	}
	return s.getFn(ctx, id)
}

func (s stubOrderRepository) GetByIntentRef(ctx context.Context, intentRef string) (*model.Order, error) {
	if s.getByIntentFn == nil {
		panic("not implemented")
	}
	return s.getByIntentFn(ctx, intentRef)
}

func (s stubOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next model.OrderStatus, patch repository.StatusPatch) (*model.Order, error) {
	if s.updateStatusFn == nil {
		panic("not implemented")
	}
	return s.updateStatusFn(ctx, id, expected, next, patch)
}

func (s stubOrderRepository) SetPaymentIntent(ctx context.Context, id uuid.UUID, intentRef string) (*model.Order, error) {
	if s.setIntentFn == nil {
		panic("not implemented")
	}
	return s.setIntentFn(ctx, id, intentRef)
}

func (s stubOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	if s.listFn == nil {
		panic("not implemented")
	}
	return s.listFn(ctx, filter)
}

func (s stubOrderRepository) SelectUnsettled(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	if s.unsettledFn == nil {
		panic("not implemented")
	}
	return s.unsettledFn(ctx, olderThan, limit)
}

type stubCatalog struct {
	priceFn func(context.Context, string) (int64, error)
}

func (s stubCatalog) UnitPrice(ctx context.Context, productID string) (int64, error) {
	return s.priceFn(ctx, productID)
}

func newTestEngine(t *testing.T) *pricing.Engine {
	t.Helper()
	return pricing.NewEngine(pricing.DefaultTables())
}

func sellDevice() model.SellDetails {
	return model.SellDetails{
		Category:  "smartphone",
		Brand:     "Samsung",
		Model:     "Galaxy S22",
		Storage:   "256 GB",
		Condition: "Good",
	}
}

func TestOrderUseCaseCreateSellPersistsQuotedPrice(t *testing.T) {
	var gotDraft repository.OrderDraft
	repo := stubOrderRepository{createFn: func(_ context.Context, draft repository.OrderDraft) (*model.Order, error) {
		gotDraft = draft
		return &model.Order{
			ID:          uuid.New(),
			Type:        draft.Type,
			Sell:        draft.Sell,
			Price:       draft.Price,
			QuotedPrice: draft.Price,
			Status:      model.OrderStatusCreated,
		}, nil
	}}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	owner := "user-1"
	order, err := uc.CreateSell(context.Background(), &owner, sellDevice(), 20000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDraft.Type != model.OrderTypeSell {
		t.Fatalf("expected sell draft, got %s", gotDraft.Type)
	}
	// 20000 * 0.85 (Good) * 1.1 (256 GB)
	if gotDraft.Price != 18700 {
		t.Fatalf("unexpected draft price %d", gotDraft.Price)
	}
	if order.Status != model.OrderStatusCreated {
		t.Fatalf("unexpected status %s", order.Status)
	}
}

func TestOrderUseCaseCreateSellRejectsUnknownAttribute(t *testing.T) {
	repo := stubOrderRepository{createFn: func(context.Context, repository.OrderDraft) (*model.Order, error) {
		t.Fatal("create should not be called for an unquotable device")
		return nil, nil
	}}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	device := sellDevice()
	device.Condition = "Mint"
	if _, err := uc.CreateSell(context.Background(), nil, device, 20000); !errors.Is(err, domainErrors.ErrUnknownAttribute) {
		t.Fatalf("expected unknown attribute error, got %v", err)
	}
}

func TestOrderUseCaseCreatePurchasePricesFromCatalog(t *testing.T) {
	repo := stubOrderRepository{createFn: func(_ context.Context, draft repository.OrderDraft) (*model.Order, error) {
		if draft.Type != model.OrderTypePurchase {
			t.Fatalf("expected purchase draft, got %s", draft.Type)
		}
		if draft.Purchase == nil || draft.Purchase.ProductID != "case-01" || draft.Purchase.Quantity != 3 {
			t.Fatalf("unexpected purchase details %+v", draft.Purchase)
		}
		if draft.Price != 3*49900 {
			t.Fatalf("unexpected price %d", draft.Price)
		}
		return &model.Order{ID: uuid.New(), Type: draft.Type, Purchase: draft.Purchase, Price: draft.Price, Status: model.OrderStatusCreated}, nil
	}}
	catalog := stubCatalog{priceFn: func(_ context.Context, productID string) (int64, error) {
		if productID != "case-01" {
			t.Fatalf("unexpected product id %s", productID)
		}
		return 49900, nil
	}}

	uc := NewOrderUseCase(repo, newTestEngine(t), catalog)
	if _, err := uc.CreatePurchase(context.Background(), nil, "case-01", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOrderUseCaseCreatePurchaseValidatesInput(t *testing.T) {
	uc := NewOrderUseCase(stubOrderRepository{}, newTestEngine(t), stubCatalog{priceFn: func(context.Context, string) (int64, error) {
		t.Fatal("catalog should not be consulted for invalid input")
		return 0, nil
	}})

	if _, err := uc.CreatePurchase(context.Background(), nil, "", 1); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for empty product, got %v", err)
	}
	if _, err := uc.CreatePurchase(context.Background(), nil, "case-01", 0); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
}

func TestOrderUseCaseSchedulePickup(t *testing.T) {
	id := uuid.New()
	pickupAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	repo := stubOrderRepository{
		getFn: func(_ context.Context, gotID uuid.UUID) (*model.Order, error) {
			if gotID != id {
				t.Fatalf("unexpected id %s", gotID)
			}
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusCreated}, nil
		},
		updateStatusFn: func(_ context.Context, gotID uuid.UUID, expected, next model.OrderStatus, patch repository.StatusPatch) (*model.Order, error) {
			if expected != model.OrderStatusCreated || next != model.OrderStatusScheduled {
				t.Fatalf("unexpected transition %s -> %s", expected, next)
			}
			if patch.PickupAt == nil || !patch.PickupAt.Equal(pickupAt) {
				t.Fatalf("pickup time not patched: %+v", patch.PickupAt)
			}
			if lo.FromPtr(patch.Address) != "14 MG Road" {
				t.Fatalf("address not patched: %+v", patch.Address)
			}
			return &model.Order{ID: gotID, Status: next, PickupAt: patch.PickupAt, Address: patch.Address}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	order, err := uc.SchedulePickup(context.Background(), id, pickupAt, "14 MG Road")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusScheduled {
		t.Fatalf("unexpected status %s", order.Status)
	}
}

func TestOrderUseCaseSchedulePickupRejectsWrongState(t *testing.T) {
	id := uuid.New()
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusPickedUp}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	_, err := uc.SchedulePickup(context.Background(), id, time.Now().Add(time.Hour), "14 MG Road")
	if !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestOrderUseCaseRecordInspectionCapsFinalPrice(t *testing.T) {
	id := uuid.New()
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusPickedUp, Price: 18700, QuotedPrice: 18700}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	above := int64(19000)
	if _, err := uc.RecordInspection(context.Background(), id, &above); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error above quoted price, got %v", err)
	}
	negative := int64(-1)
	if _, err := uc.RecordInspection(context.Background(), id, &negative); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestOrderUseCaseRecordInspectionLowersPrice(t *testing.T) {
	id := uuid.New()
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusPickedUp, Price: 18700, QuotedPrice: 18700}, nil
		},
		updateStatusFn: func(_ context.Context, gotID uuid.UUID, expected, next model.OrderStatus, patch repository.StatusPatch) (*model.Order, error) {
			if expected != model.OrderStatusPickedUp || next != model.OrderStatusInspected {
				t.Fatalf("unexpected transition %s -> %s", expected, next)
			}
			if lo.FromPtr(patch.Price) != 15000 {
				t.Fatalf("final price not patched: %+v", patch.Price)
			}
			return &model.Order{ID: gotID, Status: next, Price: 15000, QuotedPrice: 18700}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	final := int64(15000)
	order, err := uc.RecordInspection(context.Background(), id, &final)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Price != 15000 || order.QuotedPrice != 18700 {
		t.Fatalf("unexpected prices: %d quoted %d", order.Price, order.QuotedPrice)
	}
}

func TestOrderUseCaseConfirmPaymentSellFromInspected(t *testing.T) {
	id := uuid.New()
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusInspected}, nil
		},
		updateStatusFn: func(_ context.Context, gotID uuid.UUID, expected, next model.OrderStatus, patch repository.StatusPatch) (*model.Order, error) {
			if expected != model.OrderStatusInspected || next != model.OrderStatusPaid {
				t.Fatalf("unexpected transition %s -> %s", expected, next)
			}
			if lo.FromPtr(patch.PaymentRef) != "pay_123" {
				t.Fatalf("payment ref not patched: %+v", patch.PaymentRef)
			}
			return &model.Order{ID: gotID, Status: next, PaymentRef: patch.PaymentRef}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	order, err := uc.ConfirmPayment(context.Background(), id, "pay_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusPaid {
		t.Fatalf("unexpected status %s", order.Status)
	}
}

func TestOrderUseCaseConfirmPaymentPurchaseFromCreated(t *testing.T) {
	id := uuid.New()
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypePurchase, Status: model.OrderStatusCreated}, nil
		},
		updateStatusFn: func(_ context.Context, gotID uuid.UUID, expected, next model.OrderStatus, patch repository.StatusPatch) (*model.Order, error) {
			if expected != model.OrderStatusCreated || next != model.OrderStatusPaid {
				t.Fatalf("unexpected transition %s -> %s", expected, next)
			}
			return &model.Order{ID: gotID, Status: next, PaymentRef: patch.PaymentRef}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	if _, err := uc.ConfirmPayment(context.Background(), id, "pay_9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOrderUseCaseConfirmPaymentRejectsEarlySellPayout(t *testing.T) {
	id := uuid.New()
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusPickedUp}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	if _, err := uc.ConfirmPayment(context.Background(), id, "pay_9"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestOrderUseCaseConfirmPaymentIdempotent(t *testing.T) {
	id := uuid.New()
	ref := "pay_123"
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusPaid, PaymentRef: &ref}, nil
		},
		updateStatusFn: func(context.Context, uuid.UUID, model.OrderStatus, model.OrderStatus, repository.StatusPatch) (*model.Order, error) {
			t.Fatal("no transition expected for a repeated confirmation")
			return nil, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	order, err := uc.ConfirmPayment(context.Background(), id, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lo.FromPtr(order.PaymentRef) != ref {
		t.Fatalf("unexpected payment ref %v", order.PaymentRef)
	}
}

func TestOrderUseCaseConfirmPaymentMismatch(t *testing.T) {
	id := uuid.New()
	ref := "pay_123"
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusPaid, PaymentRef: &ref}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	if _, err := uc.ConfirmPayment(context.Background(), id, "pay_other"); !errors.Is(err, domainErrors.ErrPaymentMismatch) {
		t.Fatalf("expected payment mismatch, got %v", err)
	}
}

func TestOrderUseCaseConfirmPaymentIdempotentAfterDelivery(t *testing.T) {
	id := uuid.New()
	ref := "pay_123"
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusDelivered, PaymentRef: &ref}, nil
		},
		updateStatusFn: func(context.Context, uuid.UUID, model.OrderStatus, model.OrderStatus, repository.StatusPatch) (*model.Order, error) {
			t.Fatal("no transition expected for a repeated confirmation")
			return nil, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	order, err := uc.ConfirmPayment(context.Background(), id, ref)
	if err != nil {
		t.Fatalf("late provider retry must stay idempotent, got %v", err)
	}
	if order.Status != model.OrderStatusDelivered {
		t.Fatalf("unexpected status %s", order.Status)
	}

	if _, err := uc.ConfirmPayment(context.Background(), id, "pay_other"); !errors.Is(err, domainErrors.ErrPaymentMismatch) {
		t.Fatalf("expected payment mismatch, got %v", err)
	}
}

func TestConcurrentStatusUpdateSingleWinner(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub()
	order := &model.Order{
		ID:     uuid.New(),
		Type:   model.OrderTypeSell,
		Sell:   lo.ToPtr(sellDevice()),
		Status: model.OrderStatusCreated,
	}
	repo.Seed(order)

	pickupAt := time.Now().Add(24 * time.Hour)
	patch := repository.StatusPatch{PickupAt: &pickupAt}

	const writers = 2
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.UpdateStatus(context.Background(), order.ID, model.OrderStatusCreated, model.OrderStatusScheduled, patch)
		}(i)
	}
	wg.Wait()

	winners, losers := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, domainErrors.ErrConflict):
			losers++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 || losers != 1 {
		t.Fatalf("expected one winner and one conflict, got %d winners and %d losers", winners, losers)
	}

	stored, err := repo.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != model.OrderStatusScheduled {
		t.Fatalf("unexpected status %s", stored.Status)
	}
}

func TestOrderUseCaseConfirmPaymentRetriesLostRace(t *testing.T) {
	id := uuid.New()
	ref := "pay_123"
	reads := 0
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			reads++
			if reads == 1 {
				return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusInspected}, nil
			}
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusPaid, PaymentRef: &ref}, nil
		},
		updateStatusFn: func(context.Context, uuid.UUID, model.OrderStatus, model.OrderStatus, repository.StatusPatch) (*model.Order, error) {
			return nil, domainErrors.ErrConflict
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	order, err := uc.ConfirmPayment(context.Background(), id, ref)
	if err != nil {
		t.Fatalf("expected the retry to resolve the race, got %v", err)
	}
	if order.Status != model.OrderStatusPaid {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if reads != 2 {
		t.Fatalf("expected exactly one re-read, got %d reads", reads)
	}
}

func TestOrderUseCaseConfirmPaymentRetryIsBounded(t *testing.T) {
	id := uuid.New()
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusInspected}, nil
		},
		updateStatusFn: func(context.Context, uuid.UUID, model.OrderStatus, model.OrderStatus, repository.StatusPatch) (*model.Order, error) {
			return nil, domainErrors.ErrConflict
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	if _, err := uc.ConfirmPayment(context.Background(), id, "pay_123"); !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected conflict after bounded retry, got %v", err)
	}
}

func TestOrderUseCaseCancel(t *testing.T) {
	id := uuid.New()
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypeSell, Status: model.OrderStatusScheduled}, nil
		},
		updateStatusFn: func(_ context.Context, gotID uuid.UUID, expected, next model.OrderStatus, patch repository.StatusPatch) (*model.Order, error) {
			if expected != model.OrderStatusScheduled || next != model.OrderStatusCancelled {
				t.Fatalf("unexpected transition %s -> %s", expected, next)
			}
			if lo.FromPtr(patch.CancelReason) != "changed my mind" {
				t.Fatalf("cancel reason not patched: %+v", patch.CancelReason)
			}
			return &model.Order{ID: gotID, Status: next, CancelReason: patch.CancelReason}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	order, err := uc.Cancel(context.Background(), id, "changed my mind")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusCancelled {
		t.Fatalf("unexpected status %s", order.Status)
	}
}

func TestOrderUseCaseCancelRejectsPaid(t *testing.T) {
	id := uuid.New()
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypePurchase, Status: model.OrderStatusPaid}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	if _, err := uc.Cancel(context.Background(), id, ""); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestOrderUseCaseMarkDelivered(t *testing.T) {
	id := uuid.New()
	repo := stubOrderRepository{
		getFn: func(context.Context, uuid.UUID) (*model.Order, error) {
			return &model.Order{ID: id, Type: model.OrderTypePurchase, Status: model.OrderStatusPaid}, nil
		},
		updateStatusFn: func(_ context.Context, gotID uuid.UUID, expected, next model.OrderStatus, _ repository.StatusPatch) (*model.Order, error) {
			if expected != model.OrderStatusPaid || next != model.OrderStatusDelivered {
				t.Fatalf("unexpected transition %s -> %s", expected, next)
			}
			return &model.Order{ID: gotID, Status: next}, nil
		},
	}

	uc := NewOrderUseCase(repo, newTestEngine(t), nil)
	order, err := uc.MarkDelivered(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusDelivered {
		t.Fatalf("unexpected status %s", order.Status)
	}
}

func TestOrderUseCaseListByOwnerRequiresOwner(t *testing.T) {
	uc := NewOrderUseCase(stubOrderRepository{}, newTestEngine(t), nil)
	if _, err := uc.ListByOwner(context.Background(), ""); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
