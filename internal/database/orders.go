package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const createOrder = `
INSERT INTO orders (store_id, id, table_no, items, total, price_snapshot)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING store_id, id, table_no, items, total, status, unavailable_items,
          adjusted_total, price_snapshot, created_at, updated_at
`

type CreateOrderParams struct {
	StoreID       string
	ID            string
	TableNo       string
	Items         string
	Total         int64
	PriceSnapshot []byte
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.StoreID, arg.ID, arg.TableNo, arg.Items, arg.Total, arg.PriceSnapshot)
	return scanOrder(row)
}

const getOrder = `
SELECT store_id, id, table_no, items, total, status, unavailable_items,
       adjusted_total, price_snapshot, created_at, updated_at
FROM orders
WHERE store_id = $1 AND id = $2
`

type GetOrderParams struct {
	StoreID string
	ID      string
}

func (q *Queries) GetOrder(ctx context.Context, arg GetOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, arg.StoreID, arg.ID)
	return scanOrder(row)
}

const listOrders = `
SELECT store_id, id, table_no, items, total, status, unavailable_items,
       adjusted_total, price_snapshot, created_at, updated_at
FROM orders
WHERE store_id = $1
  AND ($2::text IS NULL OR status = $2)
ORDER BY created_at DESC
`

type ListOrdersParams struct {
	StoreID string
	Status  pgtype.Text
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.StoreID, arg.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MarkOrderPreparing moves a pending order to preparing, recording the
// staff-selected unavailable items and the adjusted total. The status
// predicate makes the transition a compare-and-set: a concurrent or repeated
// click matches zero rows instead of re-adjusting a started order.
const markOrderPreparing = `
UPDATE orders
SET status = 'preparing', unavailable_items = $3, adjusted_total = $4, updated_at = now()
WHERE store_id = $1 AND id = $2 AND status = 'pending'
RETURNING store_id, id, table_no, items, total, status, unavailable_items,
          adjusted_total, price_snapshot, created_at, updated_at
`

type MarkOrderPreparingParams struct {
	StoreID          string
	ID               string
	UnavailableItems pgtype.Text
	AdjustedTotal    pgtype.Int8
}

func (q *Queries) MarkOrderPreparing(ctx context.Context, arg MarkOrderPreparingParams) (Order, error) {
	row := q.db.QueryRow(ctx, markOrderPreparing,
		arg.StoreID, arg.ID, arg.UnavailableItems, arg.AdjustedTotal)
	return scanOrder(row)
}

// CompleteOrder is the terminal transition. The status <> 'completed'
// predicate is the idempotency guard: the caller books daily sales only when
// this returns a row, so a retry can never double-book.
const completeOrder = `
UPDATE orders
SET status = 'completed', updated_at = now()
WHERE store_id = $1 AND id = $2 AND status <> 'completed'
RETURNING store_id, id, table_no, items, total, status, unavailable_items,
          adjusted_total, price_snapshot, created_at, updated_at
`

type CompleteOrderParams struct {
	StoreID string
	ID      string
}

func (q *Queries) CompleteOrder(ctx context.Context, arg CompleteOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, completeOrder, arg.StoreID, arg.ID)
	return scanOrder(row)
}

const deleteCompletedOrdersBefore = `
DELETE FROM orders
WHERE store_id = $1 AND status = 'completed' AND created_at < $2
`

type DeleteCompletedOrdersBeforeParams struct {
	StoreID string
	Cutoff  time.Time
}

func (q *Queries) DeleteCompletedOrdersBefore(ctx context.Context, arg DeleteCompletedOrdersBeforeParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteCompletedOrdersBefore, arg.StoreID, arg.Cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanOrder(row scannable) (Order, error) {
	var o Order
	err := row.Scan(&o.StoreID, &o.ID, &o.TableNo, &o.Items, &o.Total, &o.Status,
		&o.UnavailableItems, &o.AdjustedTotal, &o.PriceSnapshot, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
