package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createMenuItem = `
INSERT INTO menu_items (store_id, category_id, name, price)
VALUES ($1, $2, $3, $4)
RETURNING id, store_id, category_id, name, price, created_at, updated_at
`

type CreateMenuItemParams struct {
	StoreID    string
	CategoryID pgtype.UUID
	Name       string
	Price      string
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, createMenuItem, arg.StoreID, arg.CategoryID, arg.Name, arg.Price)
	var m MenuItem
	err := row.Scan(&m.ID, &m.StoreID, &m.CategoryID, &m.Name, &m.Price, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const getMenuItem = `
SELECT id, store_id, category_id, name, price, created_at, updated_at
FROM menu_items
WHERE id = $1 AND store_id = $2
`

type GetMenuItemParams struct {
	ID      uuid.UUID
	StoreID string
}

func (q *Queries) GetMenuItem(ctx context.Context, arg GetMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, getMenuItem, arg.ID, arg.StoreID)
	var m MenuItem
	err := row.Scan(&m.ID, &m.StoreID, &m.CategoryID, &m.Name, &m.Price, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const listMenuItemsByStore = `
SELECT id, store_id, category_id, name, price, created_at, updated_at
FROM menu_items
WHERE store_id = $1
ORDER BY name
`

func (q *Queries) ListMenuItemsByStore(ctx context.Context, storeID string) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItemsByStore, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.StoreID, &m.CategoryID, &m.Name, &m.Price,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const updateMenuItem = `
UPDATE menu_items
SET category_id = $3, name = $4, price = $5, updated_at = now()
WHERE id = $1 AND store_id = $2
RETURNING id, store_id, category_id, name, price, created_at, updated_at
`

type UpdateMenuItemParams struct {
	ID         uuid.UUID
	StoreID    string
	CategoryID pgtype.UUID
	Name       string
	Price      string
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, updateMenuItem,
		arg.ID, arg.StoreID, arg.CategoryID, arg.Name, arg.Price)
	var m MenuItem
	err := row.Scan(&m.ID, &m.StoreID, &m.CategoryID, &m.Name, &m.Price, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const deleteMenuItem = `
DELETE FROM menu_items
WHERE id = $1 AND store_id = $2
`

type DeleteMenuItemParams struct {
	ID      uuid.UUID
	StoreID string
}

func (q *Queries) DeleteMenuItem(ctx context.Context, arg DeleteMenuItemParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteMenuItem, arg.ID, arg.StoreID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
