package database

import (
	"context"

	"github.com/google/uuid"
)

const createCategory = `
INSERT INTO categories (store_id, name, sort_order)
VALUES ($1, $2, $3)
RETURNING id, store_id, name, sort_order, created_at
`

type CreateCategoryParams struct {
	StoreID   string
	Name      string
	SortOrder int32
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, createCategory, arg.StoreID, arg.Name, arg.SortOrder)
	var c Category
	err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.SortOrder, &c.CreatedAt)
	return c, err
}

const listCategoriesByStore = `
SELECT id, store_id, name, sort_order, created_at
FROM categories
WHERE store_id = $1
ORDER BY sort_order, name
`

func (q *Queries) ListCategoriesByStore(ctx context.Context, storeID string) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategoriesByStore, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Renaming a category does not touch its menu items: items reference the
// category by id, so the name is a mutable display attribute.
const updateCategory = `
UPDATE categories
SET name = $3, sort_order = $4
WHERE id = $1 AND store_id = $2
RETURNING id, store_id, name, sort_order, created_at
`

type UpdateCategoryParams struct {
	ID        uuid.UUID
	StoreID   string
	Name      string
	SortOrder int32
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, updateCategory, arg.ID, arg.StoreID, arg.Name, arg.SortOrder)
	var c Category
	err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.SortOrder, &c.CreatedAt)
	return c, err
}

const deleteCategory = `
DELETE FROM categories
WHERE id = $1 AND store_id = $2
`

type DeleteCategoryParams struct {
	ID      uuid.UUID
	StoreID string
}

func (q *Queries) DeleteCategory(ctx context.Context, arg DeleteCategoryParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteCategory, arg.ID, arg.StoreID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
