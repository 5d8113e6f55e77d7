package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/scanorder-pos/api/internal/database"
	"github.com/scanorder-pos/api/internal/enum"
)

const maxOrderIDRetries = 3

// Errors returned by the order service.
var (
	ErrEmptyItems      = errors.New("items are required")
	ErrEmptyTable      = errors.New("table_no is required")
	ErrInvalidTotal    = errors.New("total must be >= 0")
	ErrStoreNotFound   = errors.New("store not found")
	ErrStoreInactive   = errors.New("store is not active")
	ErrOrderNotFound   = errors.New("order not found")
	ErrAlreadyStarted  = errors.New("order is no longer pending")
	ErrInvalidQuantity = errors.New("quantity must be > 0")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order lifecycle.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetStore(ctx context.Context, id string) (database.Store, error)
	ListMenuItemsByStore(ctx context.Context, storeID string) ([]database.MenuItem, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	MarkOrderPreparing(ctx context.Context, arg database.MarkOrderPreparingParams) (database.Order, error)
	CompleteOrder(ctx context.Context, arg database.CompleteOrderParams) (database.Order, error)
	AddToDailySales(ctx context.Context, arg database.AddToDailySalesParams) (database.DailySale, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// SubmitOrderRequest is the validated input for a customer order.
type SubmitOrderRequest struct {
	StoreID string
	TableNo string
	Items   string // joined "Name xQty | ..." string from the cart
	Total   int64  // client-computed cart total, stored as-is
}

// OrderService owns the order lifecycle: submission, the two staff
// transitions, and the daily-sales booking that completion triggers.
// store is pool-backed for the single-statement paths; pool + newStore
// provide the transactional path completion needs.
type OrderService struct {
	store    OrderStore
	pool     TxBeginner
	newStore NewOrderStore
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(store OrderStore, pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{store: store, pool: pool, newStore: newStore, now: time.Now}
}

// Submit creates an order in the pending state with a fresh 8-char id and a
// snapshot of the live menu prices for every line in the cart. The client
// total is trusted at this stage (the original workflow never re-prices the
// cart server-side); the snapshot exists so a later unavailability
// adjustment subtracts the price the customer actually saw.
//
// Retries on order id collisions: ids are short for QR-friendly display, so
// uniqueness is per store and best-effort plus a retry loop.
func (s *OrderService) Submit(ctx context.Context, req SubmitOrderRequest) (database.Order, error) {
	if strings.TrimSpace(req.TableNo) == "" {
		return database.Order{}, ErrEmptyTable
	}
	if len(ParseOrderItems(req.Items)) == 0 {
		return database.Order{}, ErrEmptyItems
	}
	if req.Total < 0 {
		return database.Order{}, ErrInvalidTotal
	}

	store := s.store

	st, err := store.GetStore(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrStoreNotFound
		}
		return database.Order{}, fmt.Errorf("get store: %w", err)
	}
	if !st.IsActive {
		return database.Order{}, ErrStoreInactive
	}

	snapshot, err := s.priceSnapshot(ctx, store, req.StoreID, req.Items)
	if err != nil {
		return database.Order{}, err
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderIDRetries; attempt++ {
		order, err := store.CreateOrder(ctx, database.CreateOrderParams{
			StoreID:       req.StoreID,
			ID:            newOrderID(),
			TableNo:       req.TableNo,
			Items:         req.Items,
			Total:         req.Total,
			PriceSnapshot: snapshot,
		})
		if err == nil {
			return order, nil
		}
		if isOrderIDConflict(err) {
			lastErr = err
			continue
		}
		return database.Order{}, fmt.Errorf("create order: %w", err)
	}
	return database.Order{}, fmt.Errorf("create order: %w", lastErr)
}

// MarkPreparing moves a pending order to preparing, optionally subtracting
// staff-selected unavailable items from the total. Prices come from the
// order's submit-time snapshot, falling back to the live menu for names the
// snapshot does not cover; a name on neither prices at 0. The transition is
// a compare-and-set on status = pending, so a raced or repeated click
// surfaces ErrAlreadyStarted instead of re-adjusting.
func (s *OrderService) MarkPreparing(ctx context.Context, storeID, orderID string, unavailable []UnavailableItem) (database.Order, error) {
	store := s.store

	params := database.MarkOrderPreparingParams{
		StoreID:          storeID,
		ID:               orderID,
		UnavailableItems: pgtype.Text{String: "", Valid: true},
	}

	if len(unavailable) > 0 {
		for _, u := range unavailable {
			if u.Qty <= 0 {
				return database.Order{}, ErrInvalidQuantity
			}
		}

		order, err := store.GetOrder(ctx, database.GetOrderParams{StoreID: storeID, ID: orderID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return database.Order{}, ErrOrderNotFound
			}
			return database.Order{}, fmt.Errorf("get order: %w", err)
		}

		menu, err := store.ListMenuItemsByStore(ctx, storeID)
		if err != nil {
			return database.Order{}, fmt.Errorf("list menu items: %w", err)
		}
		prices := MenuPriceIndex(menu)
		overlaySnapshot(prices, order.PriceSnapshot)

		adjusted, _ := ComputeAdjustedTotal(order.Total, prices, unavailable)

		names := make([]string, len(unavailable))
		for i, u := range unavailable {
			names[i] = u.Name
		}
		params.UnavailableItems = pgtype.Text{String: strings.Join(names, ", "), Valid: true}
		params.AdjustedTotal = pgtype.Int8{Int64: adjusted, Valid: true}
	}

	order, err := store.MarkOrderPreparing(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, s.classifyTransitionConflict(ctx, store, storeID, orderID)
		}
		return database.Order{}, fmt.Errorf("mark preparing: %w", err)
	}
	return order, nil
}

// CompleteResult reports the terminal transition. Booked is false when the
// order was already completed and the call was an idempotent no-op.
type CompleteResult struct {
	Order  database.Order
	Booked bool
}

// MarkCompleted finishes an order and books its effective total — the
// adjusted total when an adjustment was applied, otherwise the original —
// into today's daily sales. The status CAS and the sales increment share one
// transaction, so the booking happens exactly once per order no matter how
// often completion is retried.
func (s *OrderService) MarkCompleted(ctx context.Context, storeID, orderID string) (*CompleteResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.CompleteOrder(ctx, database.CompleteOrderParams{StoreID: storeID, ID: orderID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already completed, or gone. Re-read outside the failed CAS.
			existing, getErr := store.GetOrder(ctx, database.GetOrderParams{StoreID: storeID, ID: orderID})
			if getErr != nil {
				if errors.Is(getErr, pgx.ErrNoRows) {
					return nil, ErrOrderNotFound
				}
				return nil, fmt.Errorf("get order: %w", getErr)
			}
			return &CompleteResult{Order: existing, Booked: false}, nil
		}
		return nil, fmt.Errorf("complete order: %w", err)
	}

	effective := order.Total
	if order.AdjustedTotal.Valid {
		effective = order.AdjustedTotal.Int64
	}

	today := s.now()
	if _, err := store.AddToDailySales(ctx, database.AddToDailySalesParams{
		StoreID:   storeID,
		SalesDate: pgtype.Date{Time: today, Valid: true},
		Amount:    effective,
	}); err != nil {
		return nil, fmt.Errorf("add to daily sales: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &CompleteResult{Order: order, Booked: true}, nil
}

// --- Helpers ---

func (s *OrderService) classifyTransitionConflict(ctx context.Context, store OrderStore, storeID, orderID string) error {
	_, err := store.GetOrder(ctx, database.GetOrderParams{StoreID: storeID, ID: orderID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("get order: %w", err)
	}
	return ErrAlreadyStarted
}

// priceSnapshot records the parsed live-menu price of every item name in the
// submitted cart, serialized as a JSON object for the order row.
func (s *OrderService) priceSnapshot(ctx context.Context, store OrderStore, storeID, items string) ([]byte, error) {
	menu, err := store.ListMenuItemsByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	index := MenuPriceIndex(menu)

	snapshot := make(map[string]int64)
	for _, line := range ParseOrderItems(items) {
		if p, ok := index[line.Name]; ok {
			snapshot[line.Name] = p
		}
	}
	if len(snapshot) == 0 {
		return nil, nil
	}
	return json.Marshal(snapshot)
}

func overlaySnapshot(prices map[string]int64, snapshot []byte) {
	if len(snapshot) == 0 {
		return
	}
	var snap map[string]int64
	if err := json.Unmarshal(snapshot, &snap); err != nil {
		return // malformed snapshot degrades to live prices
	}
	for name, p := range snap {
		prices[name] = p
	}
}

func newOrderID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// isOrderIDConflict checks for a unique violation on the orders primary key
// (pgconn error code 23505).
func isOrderIDConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_pkey"
	}
	return false
}

// EffectiveTotal is the amount a completed order contributes to daily sales.
func EffectiveTotal(o database.Order) int64 {
	if o.AdjustedTotal.Valid {
		return o.AdjustedTotal.Int64
	}
	return o.Total
}

// StatusRank orders the lifecycle states for monotonicity checks; higher
// never goes back to lower.
func StatusRank(status string) int {
	switch status {
	case enum.OrderStatusPending:
		return 0
	case enum.OrderStatusPreparing:
		return 1
	case enum.OrderStatusCompleted:
		return 2
	}
	return -1
}
