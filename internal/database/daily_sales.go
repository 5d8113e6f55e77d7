package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// AddToDailySales books a completed order into the per-store per-day
// aggregate. The increment happens server-side in the upsert, so two
// completions landing on the same day cannot lose an update the way a
// read-then-write would.
const addToDailySales = `
INSERT INTO daily_sales (store_id, sales_date, total, order_count)
VALUES ($1, $2, $3, 1)
ON CONFLICT (store_id, sales_date)
DO UPDATE SET total = daily_sales.total + EXCLUDED.total,
              order_count = daily_sales.order_count + 1
RETURNING store_id, sales_date, total, order_count, created_at
`

type AddToDailySalesParams struct {
	StoreID   string
	SalesDate pgtype.Date
	Amount    int64
}

func (q *Queries) AddToDailySales(ctx context.Context, arg AddToDailySalesParams) (DailySale, error) {
	row := q.db.QueryRow(ctx, addToDailySales, arg.StoreID, arg.SalesDate, arg.Amount)
	var d DailySale
	err := row.Scan(&d.StoreID, &d.SalesDate, &d.Total, &d.OrderCount, &d.CreatedAt)
	return d, err
}

const getDailySales = `
SELECT store_id, sales_date, total, order_count, created_at
FROM daily_sales
WHERE store_id = $1 AND sales_date = $2
`

type GetDailySalesParams struct {
	StoreID   string
	SalesDate pgtype.Date
}

func (q *Queries) GetDailySales(ctx context.Context, arg GetDailySalesParams) (DailySale, error) {
	row := q.db.QueryRow(ctx, getDailySales, arg.StoreID, arg.SalesDate)
	var d DailySale
	err := row.Scan(&d.StoreID, &d.SalesDate, &d.Total, &d.OrderCount, &d.CreatedAt)
	return d, err
}

const listDailySalesSince = `
SELECT store_id, sales_date, total, order_count, created_at
FROM daily_sales
WHERE store_id = $1 AND sales_date >= $2
ORDER BY sales_date DESC
`

type ListDailySalesSinceParams struct {
	StoreID string
	Since   pgtype.Date
}

func (q *Queries) ListDailySalesSince(ctx context.Context, arg ListDailySalesSinceParams) ([]DailySale, error) {
	rows, err := q.db.Query(ctx, listDailySalesSince, arg.StoreID, arg.Since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailySale
	for rows.Next() {
		var d DailySale
		if err := rows.Scan(&d.StoreID, &d.SalesDate, &d.Total, &d.OrderCount, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const deleteDailySalesBefore = `
DELETE FROM daily_sales
WHERE store_id = $1 AND sales_date < $2
`

type DeleteDailySalesBeforeParams struct {
	StoreID string
	Cutoff  pgtype.Date
}

func (q *Queries) DeleteDailySalesBefore(ctx context.Context, arg DeleteDailySalesBeforeParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteDailySalesBefore, arg.StoreID, arg.Cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
