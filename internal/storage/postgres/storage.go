package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
	"github.com/vansh-choudhary01/CashPay/internal/domain/repository"
)

// pgxPool abstracts the pgx pool so tests can substitute a mock.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage is the order store adapter backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Orders exposes the order repository backed by this storage.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            order_type TEXT NOT NULL,
            owner_ref TEXT,
            category TEXT,
            brand TEXT,
            model TEXT,
            storage TEXT,
            condition TEXT,
            product_id TEXT,
            quantity INT,
            price BIGINT NOT NULL CHECK (price >= 0),
            quoted_price BIGINT NOT NULL,
            status TEXT NOT NULL,
            pickup_at TIMESTAMPTZ,
            address TEXT,
            payment_intent_ref TEXT,
            payment_ref TEXT,
            cancel_reason TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_owner ON orders(owner_ref, created_at DESC)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_intent ON orders(payment_intent_ref) WHERE payment_intent_ref IS NOT NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, order_type, owner_ref, category, brand, model, storage, condition,
       product_id, quantity, price, quoted_price, status, pickup_at, address,
       payment_intent_ref, payment_ref, cancel_reason, created_at, updated_at`

type orderRepository struct {
	storage *Storage
}

func validateDraft(draft repository.OrderDraft) error {
	if draft.Price < 0 {
		return fmt.Errorf("negative price: %w", domainErrors.ErrValidation)
	}
	switch draft.Type {
	case model.OrderTypeSell:
		d := draft.Sell
		if d == nil || draft.Purchase != nil {
			return fmt.Errorf("sell order requires sell payload only: %w", domainErrors.ErrValidation)
		}
		if d.Category == "" || d.Brand == "" || d.Model == "" || d.Storage == "" || d.Condition == "" {
			return fmt.Errorf("incomplete device attributes: %w", domainErrors.ErrValidation)
		}
	case model.OrderTypePurchase:
		d := draft.Purchase
		if d == nil || draft.Sell != nil {
			return fmt.Errorf("purchase order requires purchase payload only: %w", domainErrors.ErrValidation)
		}
		if d.ProductID == "" || d.Quantity <= 0 {
			return fmt.Errorf("incomplete product attributes: %w", domainErrors.ErrValidation)
		}
	default:
		return fmt.Errorf("unknown order type %q: %w", draft.Type, domainErrors.ErrValidation)
	}
	return nil
}

func (r *orderRepository) Create(ctx context.Context, draft repository.OrderDraft) (*model.Order, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	query := `INSERT INTO orders (id, order_type, owner_ref, category, brand, model, storage, condition,
                                  product_id, quantity, price, quoted_price, status)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
              RETURNING created_at, updated_at`

	order := &model.Order{
		ID:          uuid.New(),
		Type:        draft.Type,
		OwnerRef:    draft.OwnerRef,
		Price:       draft.Price,
		QuotedPrice: draft.Price,
		Status:      model.OrderStatusCreated,
	}

	var (
		category, brand, deviceModel, storageKey, condition *string
		productID                                           *string
		quantity                                            *int
	)
	if draft.Type == model.OrderTypeSell {
		d := *draft.Sell
		order.Sell = &d
		category, brand, deviceModel = &d.Category, &d.Brand, &d.Model
		storageKey, condition = &d.Storage, &d.Condition
	} else {
		d := *draft.Purchase
		order.Purchase = &d
		productID = &d.ProductID
		quantity = &d.Quantity
	}

	err := r.storage.pool.QueryRow(ctx, query,
		order.ID, order.Type, order.OwnerRef,
		category, brand, deviceModel, storageKey, condition,
		productID, quantity,
		order.Price, order.QuotedPrice, order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return r.scanOne(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetByIntentRef(ctx context.Context, intentRef string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_intent_ref=$1`
	return r.scanOne(r.storage.pool.QueryRow(ctx, query, intentRef))
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next model.OrderStatus, patch repository.StatusPatch) (*model.Order, error) {
	query := `UPDATE orders
              SET status=$3,
                  price=COALESCE($4, price),
                  pickup_at=COALESCE($5, pickup_at),
                  address=COALESCE($6, address),
                  payment_ref=COALESCE($7, payment_ref),
                  cancel_reason=COALESCE($8, cancel_reason),
                  updated_at=NOW()
              WHERE id=$1 AND status=$2
              RETURNING ` + orderColumns

	order, err := r.scanOne(r.storage.pool.QueryRow(ctx, query,
		id, expected, next,
		patch.Price, patch.PickupAt, patch.Address, patch.PaymentRef, patch.CancelReason,
	))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	// No row matched: either the order is gone or another writer raced us.
	if _, getErr := r.Get(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domainErrors.ErrConflict
}

func (r *orderRepository) SetPaymentIntent(ctx context.Context, id uuid.UUID, intentRef string) (*model.Order, error) {
	query := `UPDATE orders SET payment_intent_ref=$2, updated_at=NOW()
              WHERE id=$1
              RETURNING ` + orderColumns
	return r.scanOne(r.storage.pool.QueryRow(ctx, query, id, intentRef))
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE ($1::TEXT IS NULL OR owner_ref=$1)
                AND ($2::TEXT[] IS NULL OR order_type = ANY($2))
                AND ($3::TEXT[] IS NULL OR status = ANY($3))
              ORDER BY created_at DESC`

	var types, statuses []string
	if len(filter.Types) > 0 {
		types = lo.Map(filter.Types, func(t model.OrderType, _ int) string { return string(t) })
	}
	if len(filter.Statuses) > 0 {
		statuses = lo.Map(filter.Statuses, func(s model.OrderStatus, _ int) string { return string(s) })
	}

	rows, err := r.storage.pool.Query(ctx, query, filter.OwnerRef, types, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *orderRepository) SelectUnsettled(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE payment_intent_ref IS NOT NULL
                AND payment_ref IS NULL
                AND status IN ('created', 'scheduled', 'inspected')
                AND updated_at < $1
              ORDER BY updated_at
              LIMIT $2`

	rows, err := r.storage.pool.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *orderRepository) scanRow(row rowScanner) (*model.Order, error) {
	var (
		o                                                   model.Order
		orderType, status                                   string
		category, brand, deviceModel, storageKey, condition *string
		productID                                           *string
		quantity                                            *int
	)

	err := row.Scan(
		&o.ID, &orderType, &o.OwnerRef,
		&category, &brand, &deviceModel, &storageKey, &condition,
		&productID, &quantity,
		&o.Price, &o.QuotedPrice, &status,
		&o.PickupAt, &o.Address,
		&o.PaymentIntentRef, &o.PaymentRef, &o.CancelReason,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Type = model.OrderType(orderType)
	parsed, ok := model.ToOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("stored order %s has unknown status %q", o.ID, status)
	}
	o.Status = parsed

	switch o.Type {
	case model.OrderTypeSell:
		o.Sell = &model.SellDetails{
			Category:  lo.FromPtr(category),
			Brand:     lo.FromPtr(brand),
			Model:     lo.FromPtr(deviceModel),
			Storage:   lo.FromPtr(storageKey),
			Condition: lo.FromPtr(condition),
		}
	case model.OrderTypePurchase:
		o.Purchase = &model.PurchaseDetails{
			ProductID: lo.FromPtr(productID),
			Quantity:  lo.FromPtr(quantity),
		}
	}

	return &o, nil
}

func (r *orderRepository) scanOne(row pgx.Row) (*model.Order, error) {
	order, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) scanMany(rows pgx.Rows) ([]model.Order, error) {
	var result []model.Order
	for rows.Next() {
		order, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
