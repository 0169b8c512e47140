package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
	"github.com/vansh-choudhary01/CashPay/internal/domain/repository"
)

// OrderRepositoryStub stores orders in-memory for tests. Status updates use
// the same compare-and-set contract as the real repository.
type OrderRepositoryStub struct {
	mu       sync.Mutex
	ByID     map[uuid.UUID]*model.Order
	ByIntent map[string]uuid.UUID
	Err      error
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		ByID:     make(map[uuid.UUID]*model.Order),
		ByIntent: make(map[string]uuid.UUID),
	}
}

// Seed inserts an order directly, bypassing draft validation.
func (s *OrderRepositoryStub) Seed(order *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ByID[order.ID] = order
	if order.PaymentIntentRef != nil {
		s.ByIntent[*order.PaymentIntentRef] = order.ID
	}
}

// Create persists a draft as a fresh order in the created state.
func (s *OrderRepositoryStub) Create(ctx context.Context, draft repository.OrderDraft) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	order := &model.Order{
		ID:          uuid.New(),
		Type:        draft.Type,
		OwnerRef:    draft.OwnerRef,
		Sell:        draft.Sell,
		Purchase:    draft.Purchase,
		Price:       draft.Price,
		QuotedPrice: draft.Price,
		Status:      model.OrderStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.ByID[order.ID] = order
	return cloneOrder(order), nil
}

// Get fetches an order by id or returns not found.
func (s *OrderRepositoryStub) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneOrder(order), nil
}

// GetByIntentRef fetches an order by payment intent reference.
func (s *OrderRepositoryStub) GetByIntentRef(ctx context.Context, intentRef string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.ByIntent[intentRef]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneOrder(s.ByID[id]), nil
}

// UpdateStatus applies the transition only when the stored status matches.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next model.OrderStatus, patch repository.StatusPatch) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if order.Status != expected {
		return nil, domainErrors.ErrConflict
	}

	order.Status = next
	if patch.Price != nil {
		order.Price = *patch.Price
	}
	if patch.PickupAt != nil {
		order.PickupAt = patch.PickupAt
	}
	if patch.Address != nil {
		order.Address = patch.Address
	}
	if patch.PaymentRef != nil {
		order.PaymentRef = patch.PaymentRef
	}
	if patch.CancelReason != nil {
		order.CancelReason = patch.CancelReason
	}
	order.UpdatedAt = time.Now()
	return cloneOrder(order), nil
}

// SetPaymentIntent attaches the provider intent reference.
func (s *OrderRepositoryStub) SetPaymentIntent(ctx context.Context, id uuid.UUID, intentRef string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	order.PaymentIntentRef = &intentRef
	s.ByIntent[intentRef] = id
	return cloneOrder(order), nil
}

// List returns orders matching the filter, unordered.
func (s *OrderRepositoryStub) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Order
	for _, order := range s.ByID {
		if filter.OwnerRef != nil && lo.FromPtr(order.OwnerRef) != *filter.OwnerRef {
			continue
		}
		if len(filter.Types) > 0 && !lo.Contains(filter.Types, order.Type) {
			continue
		}
		if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, order.Status) {
			continue
		}
		result = append(result, *cloneOrder(order))
	}
	return result, nil
}

// SelectUnsettled returns orders holding an intent but no payment reference.
func (s *OrderRepositoryStub) SelectUnsettled(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	settleable := []model.OrderStatus{model.OrderStatusCreated, model.OrderStatusScheduled, model.OrderStatusInspected}
	var result []model.Order
	for _, order := range s.ByID {
		if len(result) >= limit {
			break
		}
		if order.PaymentIntentRef == nil || order.PaymentRef != nil {
			continue
		}
		if !lo.Contains(settleable, order.Status) || !order.UpdatedAt.Before(olderThan) {
			continue
		}
		result = append(result, *cloneOrder(order))
	}
	return result, nil
}

func cloneOrder(order *model.Order) *model.Order {
	clone := *order
	if order.Sell != nil {
		sell := *order.Sell
		clone.Sell = &sell
	}
	if order.Purchase != nil {
		purchase := *order.Purchase
		clone.Purchase = &purchase
	}
	return &clone
}
